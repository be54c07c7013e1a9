package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/domain/identity"
	"bookshelf-backend/pkg/clock"
	apperrors "bookshelf-backend/pkg/errors"
)

const (
	userPK       = "USER"
	userSKPrefix = "EMAIL#"
)

// userItem represents the table item for a user account
type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"passwordHash"`
	CreatedAt    int64  `dynamodbav:"createdAt"`
}

// UserRepository implements ports.UserRepository on the shared table
type UserRepository struct {
	store  Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewUserRepository creates a user repository
func NewUserRepository(store Store, clk clock.Clock, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

func userSK(normalizedEmail string) string {
	return userSKPrefix + normalizedEmail
}

// Create registers a user with a conditional put so that two
// concurrent registrations for the same email cannot both win. The
// loser gets a Conflict error.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*identity.User, error) {
	normalized := identity.NormalizeEmail(email)
	createdAt := r.clock.Now().UTC()

	item := userItem{
		PK:           userPK,
		SK:           userSK(normalized),
		Email:        normalized,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := r.store.PutIfAbsent(ctx, av); err != nil {
		if apperrors.IsConflict(err) {
			return nil, apperrors.NewConflictError("an account with this email already exists")
		}
		return nil, err
	}

	r.logger.Info("User registered", zap.String("email", normalized))

	return &identity.User{
		Email:        normalized,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// FindByEmail looks up a user with a strongly-consistent read; login
// immediately follows registration in the same flow, so a stale
// replica read is not acceptable here. Returns nil when no account
// exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	normalized := identity.NormalizeEmail(email)

	item, err := r.store.Get(ctx, userPK, userSK(normalized), true)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var av userItem
	if err := attributevalue.UnmarshalMap(item, &av); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &identity.User{
		Email:        av.Email,
		PasswordHash: av.PasswordHash,
		CreatedAt:    time.Unix(av.CreatedAt, 0).UTC(),
	}, nil
}
