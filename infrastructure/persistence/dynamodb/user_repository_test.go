package dynamodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf-backend/pkg/clock"
	apperrors "bookshelf-backend/pkg/errors"
)

func TestUserRepository_CreateAndFindByEmail(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newFakeStore(), clock.NewFake(testTime), zap.NewNop())
	ctx := context.Background()

	created, err := repo.Create(ctx, "Test@Example.com", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", created.Email)
	assert.Equal(t, testTime.Unix(), created.CreatedAt.Unix())

	// Lookup is case-insensitive
	got, err := repo.FindByEmail(ctx, "test@EXAMPLE.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "hash-1", got.PasswordHash)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newFakeStore(), clock.NewFake(testTime), zap.NewNop())
	ctx := context.Background()

	_, err := repo.Create(ctx, "test@example.com", "hash-1")
	require.NoError(t, err)

	// Same email with different casing loses the conditional put
	_, err = repo.Create(ctx, "TEST@example.com", "hash-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// The winning item is intact
	got, err := repo.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash-1", got.PasswordHash)
}

func TestUserRepository_FindByEmail_Absent(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newFakeStore(), clock.NewFake(testTime), zap.NewNop())

	got, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}
