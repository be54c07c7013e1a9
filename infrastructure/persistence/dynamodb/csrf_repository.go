package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/pkg/clock"
)

const (
	csrfPK       = "CSRF-TOKEN"
	csrfSKPrefix = "CSRF#"
)

// csrfItem represents the table item for one CSRF token
type csrfItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Token     string `dynamodbav:"token"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// CSRFRepository implements ports.TokenRepository on the shared
// table. Tokens are short-lived; cleanup is owned entirely by the
// table TTL, but reads still refuse lapsed items that the sweep has
// not reached yet.
type CSRFRepository struct {
	store  Store
	clock  clock.Clock
	ttl    time.Duration
	logger *zap.Logger
}

// NewCSRFRepository creates a CSRF token repository with the given TTL
func NewCSRFRepository(store Store, clk clock.Clock, ttl time.Duration, logger *zap.Logger) ports.TokenRepository {
	return &CSRFRepository{
		store:  store,
		clock:  clk,
		ttl:    ttl,
		logger: logger,
	}
}

func csrfSK(tokenID string) string {
	return csrfSKPrefix + tokenID
}

// Issue stores a token value under the given id, resetting its TTL
func (r *CSRFRepository) Issue(ctx context.Context, tokenID, value string) error {
	item := csrfItem{
		PK:        csrfPK,
		SK:        csrfSK(tokenID),
		Token:     value,
		ExpiresAt: r.clock.Now().Add(r.ttl).Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, av)
}

// Get returns the stored token value, or the empty string when the
// token is absent, lapsed, or missing its value attribute
func (r *CSRFRepository) Get(ctx context.Context, tokenID string) (string, error) {
	item, err := r.store.Get(ctx, csrfPK, csrfSK(tokenID), false)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", nil
	}

	var av csrfItem
	if err := attributevalue.UnmarshalMap(item, &av); err != nil {
		r.logger.Warn("CSRF token item is malformed, treating as absent",
			zap.String("tokenID", tokenID),
			zap.Error(err),
		)
		return "", nil
	}

	if av.ExpiresAt > 0 && !r.clock.Now().Before(time.Unix(av.ExpiresAt, 0)) {
		return "", nil
	}
	return av.Token, nil
}

// Has reports whether a non-empty token value is stored for the id
func (r *CSRFRepository) Has(ctx context.Context, tokenID string) (bool, error) {
	value, err := r.Get(ctx, tokenID)
	if err != nil {
		return false, err
	}
	return value != "", nil
}

// Consume returns the token's value and deletes it. When the token is
// absent, ok is false and nothing is deleted.
func (r *CSRFRepository) Consume(ctx context.Context, tokenID string) (string, bool, error) {
	value, err := r.Get(ctx, tokenID)
	if err != nil {
		return "", false, err
	}
	if value == "" {
		return "", false, nil
	}

	if err := r.store.Delete(ctx, csrfPK, csrfSK(tokenID)); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Clear is a deliberate no-op; lapsed tokens disappear via the table
// TTL and are refused on read until then
func (r *CSRFRepository) Clear(ctx context.Context) error {
	return nil
}
