// Package session stores page sessions: the map state of one loaded page and
// the in-flight guard that keeps a session to one validation at a time.
// Sessions are keyed by the page ID minted on every page load, so two tabs of
// the same browser hold two sessions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dukerupert/numlookup/internal/mapsync"
	"github.com/google/uuid"
)

// DefaultTTL is how long an idle page session is kept.
const DefaultTTL = 2 * time.Hour

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one page session.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	Map       mapsync.MapState `json:"map"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New creates a fresh session with an uninitialized map.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists sessions.
type Store interface {
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Save creates or replaces the session and refreshes its TTL.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// TryLock marks the session busy. ok is false when another validation for
	// the same session holds the lock. unlock must be called when ok is true.
	TryLock(ctx context.Context, id uuid.UUID) (unlock func(), ok bool, err error)
}
