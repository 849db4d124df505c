// Package domain provides core lookup types, error codes, and context helpers.
//
// Context helpers centralize request-scoped data access so every layer reads
// the browser session the same way. The browser session correlates logs and
// events across page loads; map state is keyed per page, not per session.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// sessionContextKey stores the browser session ID in context.
	sessionContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Session Context Helpers ---

// NewContextWithSessionID returns a new context with the browser session ID attached.
func NewContextWithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// SessionIDFromContext retrieves the browser session ID from context.
// Returns uuid.Nil if no session is present.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionContextKey).(uuid.UUID)
	return id
}

// HasSession reports whether a browser session is attached to ctx.
func HasSession(ctx context.Context) bool {
	return SessionIDFromContext(ctx) != uuid.Nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
