package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserEmail ContextKey = "user_email"
	ContextKeyRequestID ContextKey = "request_id"
)

// WithUserEmail adds the authenticated user's email to context
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyUserEmail, email)
}

// GetUserEmail extracts the authenticated user's email from context
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyUserEmail).(string)
	return email, ok
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}
