package session

import (
	"context"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memSessionStore is an in-memory stand-in for the DynamoDB-backed
// session store
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string][]byte)}
}

func (s *memSessionStore) Read(ctx context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[sessionID]
	if !ok {
		return []byte{}, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *memSessionStore) Write(ctx context.Context, sessionID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.sessions[sessionID] = stored
	return nil
}

func (s *memSessionStore) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func TestHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	h := NewHandler(newMemSessionStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.Open(ctx))

	// Fresh session reads empty
	data, err := h.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, h.Write(ctx, "sid-1", []byte("payload")))

	data, err = h.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, h.Destroy(ctx, "sid-1"))
	require.NoError(t, h.Destroy(ctx, "sid-1"))

	data, err = h.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, h.GC(ctx))
	require.NoError(t, h.Close())
}

func TestHandler_GC_TouchesNothing(t *testing.T) {
	t.Parallel()

	store := newMemSessionStore()
	h := NewHandler(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.Write(ctx, "sid-1", []byte("a")))
	require.NoError(t, h.Write(ctx, "sid-2", []byte("b")))

	require.NoError(t, h.GC(ctx))

	// GC delegates expiry to the store TTL; live sessions survive
	data, err := h.Read(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
}

func TestNewSessionID(t *testing.T) {
	t.Parallel()

	id1, err := NewSessionID()
	require.NoError(t, err)
	id2, err := NewSessionID()
	require.NoError(t, err)

	assert.Len(t, id1, 32)
	assert.NotEqual(t, id1, id2)

	_, err = hex.DecodeString(id1)
	assert.NoError(t, err)
}
