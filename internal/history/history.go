// Package history persists validation attempts and serves the recent-lookups list.
package history

import (
	"context"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
)

// DefaultLimit is how many entries the history view shows.
const DefaultLimit = 10

// Entry is one recorded validation.
type Entry struct {
	ID        int64
	Phone     string
	Result    domain.LookupResult
	CreatedAt time.Time
}

// Outcome is "success" or "failure".
func (e Entry) Outcome() string {
	return domain.Outcome(e.Result)
}

// Store persists history entries.
type Store interface {
	// Record writes one entry. CreatedAt is set by the store when zero.
	Record(ctx context.Context, e Entry) error

	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Policy decides which results are persisted.
type Policy struct {
	// PersistFailures also records failed lookups. Successes are always recorded.
	PersistFailures bool
}

// Allows reports whether result should be persisted under p.
func (p Policy) Allows(result domain.LookupResult) bool {
	if _, ok := result.(domain.LookupSuccess); ok {
		return true
	}
	return p.PersistFailures
}

// NoopStore discards writes and has no history. Used when history is disabled.
type NoopStore struct{}

func (NoopStore) Record(context.Context, Entry) error            { return nil }
func (NoopStore) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
