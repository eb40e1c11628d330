//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/daily-adventure/internal/store"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	dsn := os.Getenv("ADVENTURE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ADVENTURE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	c, err := New(ctx, dsn)
	require.NoError(t, err)
	_, err = c.pool.Exec(ctx, `TRUNCATE adventures RESTART IDENTITY`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	c := testClient(t)

	in := store.NewAdventure{
		Date:        time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Location:    "Boston, Massachusetts",
		Weather:     "Clear sky (High: 75°F, Low: 60°F)",
		Temperature: 72,
		Condition:   "Clear sky",
		Suggestion:  "Bike the Emerald Necklace and finish at the Arboretum.",
	}
	created, err := c.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := c.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = c.FindByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindManyNewestFirst(t *testing.T) {
	ctx := context.Background()
	c := testClient(t)

	for _, day := range []int{10, 12, 11} {
		_, err := c.Create(ctx, store.NewAdventure{
			Date:       time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC),
			Location:   "Boston",
			Weather:    "Fog (High: 58°F, Low: 50°F)",
			Condition:  "Fog",
			Suggestion: "day",
		})
		require.NoError(t, err)
	}

	list, err := c.FindMany(ctx, store.NewestFirst, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 12, list[0].Date.Day())
	assert.Equal(t, 10, list[2].Date.Day())
}
