// Package csrf adapts the CSRF token lifecycle onto the token
// repository port. Token values are random, stored server-side keyed
// by a per-form token id, and compared in constant time.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
)

// Store issues and validates CSRF tokens
type Store struct {
	repo   ports.TokenRepository
	logger *zap.Logger
}

// NewStore creates a CSRF token store over the given repository
func NewStore(repo ports.TokenRepository, logger *zap.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// GenerateToken creates a fresh token value for the id and stores it,
// replacing any previous value
func (s *Store) GenerateToken(ctx context.Context, tokenID string) (string, error) {
	value, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.Issue(ctx, tokenID, value); err != nil {
		return "", err
	}
	return value, nil
}

// GetToken returns the stored value for the id, empty when absent
func (s *Store) GetToken(ctx context.Context, tokenID string) (string, error) {
	return s.repo.Get(ctx, tokenID)
}

// HasToken reports whether a token is stored for the id
func (s *Store) HasToken(ctx context.Context, tokenID string) (bool, error) {
	return s.repo.Has(ctx, tokenID)
}

// IsTokenValid compares a presented value against the stored one in
// constant time. An absent token is never valid.
func (s *Store) IsTokenValid(ctx context.Context, tokenID, presented string) (bool, error) {
	stored, err := s.repo.Get(ctx, tokenID)
	if err != nil {
		return false, err
	}
	if stored == "" || presented == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1, nil
}

// ConsumeToken validates and removes the token in one step, for
// single-use flows. ok is false when the token was absent.
func (s *Store) ConsumeToken(ctx context.Context, tokenID, presented string) (bool, error) {
	stored, ok, err := s.repo.Consume(ctx, tokenID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1, nil
}

// RemoveToken deletes the token without validating it
func (s *Store) RemoveToken(ctx context.Context, tokenID string) error {
	_, _, err := s.repo.Consume(ctx, tokenID)
	return err
}

// Clear delegates to the repository, which relies on the store TTL
// and does not scan-and-delete
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func randomToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
