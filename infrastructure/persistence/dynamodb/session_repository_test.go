package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf-backend/pkg/clock"
)

const sessionTestTTL = 30 * time.Minute

func TestSessionRepository_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(newFakeStore(), clock.NewFake(testTime), sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	payload := []byte(`{"user":"test@example.com"}`)
	require.NoError(t, repo.Write(ctx, "sid-1", payload))

	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSessionRepository_Read_NeverWritten(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(newFakeStore(), clock.NewFake(testTime), sessionTestTTL, zap.NewNop())

	got, err := repo.Read(context.Background(), "sid-unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionRepository_DestroyedSessionReadsEmpty(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(newFakeStore(), clock.NewFake(testTime), sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "sid-1", []byte("data")))
	require.NoError(t, repo.Destroy(ctx, "sid-1"))
	// Destroy is idempotent
	require.NoError(t, repo.Destroy(ctx, "sid-1"))

	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionRepository_LapsedSessionReadsEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	clk := clock.NewFake(testTime)
	repo := NewSessionRepository(store, clk, sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "sid-1", []byte("data")))

	// Past expiry, but the TTL sweep has not fired: the item is still
	// physically present and must not be served
	clk.Advance(sessionTestTTL + time.Second)

	item, err := store.Get(ctx, "SESSION", "SID#sid-1", true)
	require.NoError(t, err)
	require.NotNil(t, item)

	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionRepository_WriteRefreshesExpiry(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(testTime)
	repo := NewSessionRepository(newFakeStore(), clk, sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "sid-1", []byte("v1")))
	clk.Advance(20 * time.Minute)
	require.NoError(t, repo.Write(ctx, "sid-1", []byte("v2")))
	clk.Advance(20 * time.Minute)

	// 40 minutes after the first write, the refresh keeps it alive
	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestSessionRepository_UndecodablePayloadReadsEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	repo := NewSessionRepository(store, clock.NewFake(testTime), sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Item{
		"PK":        &types.AttributeValueMemberS{Value: "SESSION"},
		"SK":        &types.AttributeValueMemberS{Value: "SID#sid-1"},
		"data":      &types.AttributeValueMemberS{Value: "not-base64!!"},
		"expiresAt": &types.AttributeValueMemberN{Value: "9999999999"},
	}))

	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionRepository_MissingPayloadReadsEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	repo := NewSessionRepository(store, clock.NewFake(testTime), sessionTestTTL, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Item{
		"PK":        &types.AttributeValueMemberS{Value: "SESSION"},
		"SK":        &types.AttributeValueMemberS{Value: "SID#sid-1"},
		"expiresAt": &types.AttributeValueMemberN{Value: "9999999999"},
	}))

	got, err := repo.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
