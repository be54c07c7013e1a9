package dynamodb

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/pkg/clock"
)

const (
	sessionPK       = "SESSION"
	sessionSKPrefix = "SID#"
)

// sessionItem represents the table item for one HTTP session. The
// payload is opaque to this layer and stored base64-encoded.
type sessionItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Data      string `dynamodbav:"data"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// SessionRepository implements ports.SessionStore on the shared
// table. Expired items are swept by the table TTL; the read path
// still checks expiresAt itself, because the sweep is eventual and an
// expired-but-unswept item must never be served as valid.
type SessionRepository struct {
	store  Store
	clock  clock.Clock
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository creates a session repository with the given TTL
func NewSessionRepository(store Store, clk clock.Clock, ttl time.Duration, logger *zap.Logger) ports.SessionStore {
	return &SessionRepository{
		store:  store,
		clock:  clk,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionSK(sessionID string) string {
	return sessionSKPrefix + sessionID
}

// Read returns the session payload. Absent items, missing payload
// attributes, lapsed expiry, and undecodable payloads all read as
// empty bytes; none of these is an error the caller sees.
func (r *SessionRepository) Read(ctx context.Context, sessionID string) ([]byte, error) {
	item, err := r.store.Get(ctx, sessionPK, sessionSK(sessionID), true)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return []byte{}, nil
	}

	var av sessionItem
	if err := attributevalue.UnmarshalMap(item, &av); err != nil {
		r.logger.Warn("Session item is malformed, treating as empty",
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
		return []byte{}, nil
	}

	if av.ExpiresAt > 0 && !r.clock.Now().Before(time.Unix(av.ExpiresAt, 0)) {
		// Lapsed but not yet swept by the TTL process
		return []byte{}, nil
	}

	if av.Data == "" {
		return []byte{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(av.Data)
	if err != nil {
		r.logger.Warn("Session payload is undecodable, treating as empty",
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
		return []byte{}, nil
	}
	return data, nil
}

// Write persists the payload and resets the session's expiry.
// Unconditional; concurrent writers to one session id are not
// coordinated and the last write wins.
func (r *SessionRepository) Write(ctx context.Context, sessionID string, data []byte) error {
	item := sessionItem{
		PK:        sessionPK,
		SK:        sessionSK(sessionID),
		Data:      base64.StdEncoding.EncodeToString(data),
		ExpiresAt: r.clock.Now().Add(r.ttl).Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, av)
}

// Destroy removes the session; destroying an absent session succeeds
func (r *SessionRepository) Destroy(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionPK, sessionSK(sessionID))
}
