// Package session adapts the generic session lifecycle onto the
// session store port. Session payloads are opaque bytes; what they
// encode is the HTTP layer's business.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
)

// Handler drives the open/read/write/destroy/gc session lifecycle
type Handler struct {
	store  ports.SessionStore
	logger *zap.Logger
}

// NewHandler creates a session handler over the given store
func NewHandler(store ports.SessionStore, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Open prepares the handler for a request. Nothing to do; the store
// client is long-lived.
func (h *Handler) Open(ctx context.Context) error {
	return nil
}

// Close releases per-request resources. Nothing to do.
func (h *Handler) Close() error {
	return nil
}

// Read loads the session payload. A session that was never written,
// was destroyed, or has lapsed reads as empty bytes.
func (h *Handler) Read(ctx context.Context, sessionID string) ([]byte, error) {
	return h.store.Read(ctx, sessionID)
}

// Write persists the payload, refreshing the session's expiry
func (h *Handler) Write(ctx context.Context, sessionID string, data []byte) error {
	return h.store.Write(ctx, sessionID, data)
}

// Destroy removes the session; idempotent
func (h *Handler) Destroy(ctx context.Context, sessionID string) error {
	return h.store.Destroy(ctx, sessionID)
}

// GC is a deliberate no-op. Expiry is delegated entirely to the
// store's TTL sweep; the handler never scans for expired sessions.
func (h *Handler) GC(ctx context.Context) error {
	return nil
}

// NewSessionID generates a 128-bit random session id in hex
func NewSessionID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
