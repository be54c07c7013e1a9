package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf-backend/pkg/clock"
)

const csrfTestTTL = 15 * time.Minute

func TestCSRFRepository_IssueAndGet(t *testing.T) {
	t.Parallel()

	repo := NewCSRFRepository(newFakeStore(), clock.NewFake(testTime), csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, "t-1", "secret"))

	got, err := repo.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	has, err := repo.Has(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCSRFRepository_Get_Absent(t *testing.T) {
	t.Parallel()

	repo := NewCSRFRepository(newFakeStore(), clock.NewFake(testTime), csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	got, err := repo.Get(ctx, "t-unknown")
	require.NoError(t, err)
	assert.Empty(t, got)

	has, err := repo.Has(ctx, "t-unknown")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCSRFRepository_Consume(t *testing.T) {
	t.Parallel()

	repo := NewCSRFRepository(newFakeStore(), clock.NewFake(testTime), csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, "t-1", "secret"))

	value, ok, err := repo.Consume(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret", value)

	// Consumed tokens are gone
	got, err := repo.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSRFRepository_Consume_Unissued(t *testing.T) {
	t.Parallel()

	repo := NewCSRFRepository(newFakeStore(), clock.NewFake(testTime), csrfTestTTL, zap.NewNop())

	value, ok, err := repo.Consume(context.Background(), "t-unknown")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestCSRFRepository_LapsedTokenReadsAbsent(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(testTime)
	repo := NewCSRFRepository(newFakeStore(), clk, csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, "t-1", "secret"))
	clk.Advance(csrfTestTTL + time.Second)

	got, err := repo.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok, err := repo.Consume(ctx, "t-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSRFRepository_ReissueResetsExpiry(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(testTime)
	repo := NewCSRFRepository(newFakeStore(), clk, csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, "t-1", "old"))
	clk.Advance(10 * time.Minute)
	require.NoError(t, repo.Issue(ctx, "t-1", "new"))
	clk.Advance(10 * time.Minute)

	got, err := repo.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestCSRFRepository_Clear_IsNoOp(t *testing.T) {
	t.Parallel()

	repo := NewCSRFRepository(newFakeStore(), clock.NewFake(testTime), csrfTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Issue(ctx, "t-1", "secret"))
	require.NoError(t, repo.Clear(ctx))

	// Clear relies on the table TTL; live tokens survive it
	got, err := repo.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}
