package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steelleads-go/internal/db"
	"steelleads-go/internal/model"
)

// setupTestPool connects to the database named by TEST_DB_DSN, or builds a DSN
// from TEST_DB_HOST/PORT/USER/PASSWORD/NAME. Skips when neither is set.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		host := os.Getenv("TEST_DB_HOST")
		port := os.Getenv("TEST_DB_PORT")
		user := os.Getenv("TEST_DB_USER")
		password := os.Getenv("TEST_DB_PASSWORD")
		name := os.Getenv("TEST_DB_NAME")
		if host == "" || port == "" || user == "" || name == "" {
			t.Skip("TEST_DB_DSN or TEST_DB_* not set, skipping PostgreSQL integration test")
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.EnsureSchema(ctx, pool, "../../.."))
	return pool
}

func TestLeadRepositoryListNewestFirst(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewLeadRepository(pool)
	ctx := context.Background()

	suffix := uuid.NewString()
	titles := []string{
		"Bridge package " + suffix,
		"Metro corridor " + suffix,
		"Port terminal " + suffix,
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM leads WHERE title LIKE '%' || $1`, suffix)
	})

	for _, title := range titles {
		_, created, err := repo.CreateIfNotExists(ctx, model.LeadCreate{Title: title, Urgency: "high"})
		require.NoError(t, err)
		require.True(t, created)
	}

	leads, err := repo.List(ctx)
	require.NoError(t, err)

	pos := map[string]int{}
	for i, lead := range leads {
		pos[lead.Title] = i
	}
	for _, title := range titles {
		require.Contains(t, pos, title)
	}

	// Later inserts list before earlier ones. The id tiebreak holds the order
	// even when created_at timestamps collide.
	assert.Less(t, pos[titles[2]], pos[titles[1]])
	assert.Less(t, pos[titles[1]], pos[titles[0]])
}

func TestLeadRepositoryDuplicateTitle(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewLeadRepository(pool)
	ctx := context.Background()

	title := "Refinery expansion " + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM leads WHERE title = $1`, title)
	})

	lead, created, err := repo.CreateIfNotExists(ctx, model.LeadCreate{Title: title})
	require.NoError(t, err)
	require.True(t, created)
	assert.NotZero(t, lead.ID)

	_, created, err = repo.CreateIfNotExists(ctx, model.LeadCreate{Title: title})
	require.NoError(t, err)
	assert.False(t, created)
}
