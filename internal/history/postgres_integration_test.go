//go:build integration
// +build integration

package history_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/dukerupert/numlookup/internal"
	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/history"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadDatabaseURL loads the test database URL from .env.test
func loadDatabaseURL(t *testing.T) string {
	t.Helper()

	if err := godotenv.Load("../../.env.test"); err != nil {
		t.Skipf("Skipping integration test: .env.test not found (%v)", err)
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set in .env.test")
	}
	return url
}

func TestPostgresStore_RecordAndRecent(t *testing.T) {
	url := loadDatabaseURL(t)
	ctx := context.Background()

	sqlDB, err := sql.Open("pgx", url)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, internal.RunMigrations(sqlDB))

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, "TRUNCATE lookups")
	require.NoError(t, err)

	store := history.NewPostgresStore(pool)
	base := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, store.Record(ctx, history.Entry{
		Phone:     "+34600000000",
		Result:    domain.LookupSuccess{Phone: "+34600000000", CountryCode: "ES", Valid: true},
		CreatedAt: base,
	}))
	require.NoError(t, store.Record(ctx, history.Entry{
		Phone:     "+15550000000",
		Result:    domain.LookupFailure{Code: domain.ERESPONSE, Message: "Error in the API response"},
		CreatedAt: base.Add(time.Second),
	}))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "+15550000000", entries[0].Phone)
	assert.Equal(t, "failure", entries[0].Outcome())
	assert.Equal(t, "+34600000000", entries[1].Phone)
	assert.Equal(t, domain.LookupSuccess{Phone: "+34600000000", CountryCode: "ES", Valid: true}, entries[1].Result)

	entries, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
