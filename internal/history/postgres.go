package history

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore implements Store on the lookups table.
type PostgresStore struct {
	db DBTX
}

// Compile-time check to ensure PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store on db (usually a *pgxpool.Pool).
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertLookup = `
INSERT INTO lookups (phone, outcome, payload, created_at)
VALUES ($1, $2, $3, $4)`

const recentLookups = `
SELECT id, phone, payload, created_at
FROM lookups
ORDER BY created_at DESC, id DESC
LIMIT $1`

func (s *PostgresStore) Record(ctx context.Context, e Entry) error {
	payload, err := domain.MarshalLookupResult(e.Result)
	if err != nil {
		return fmt.Errorf("failed to encode lookup result: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.Exec(ctx, insertLookup, e.Phone, e.Outcome(), payload, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(ctx, recentLookups, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.Phone, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		e.Result, err = domain.UnmarshalLookupResult(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode lookup %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookups: %w", err)
	}
	return entries, nil
}
