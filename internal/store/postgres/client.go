package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/daily-adventure/internal/store"
)

var _ store.Store = (*Client)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS adventures (
	id          BIGSERIAL PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	date        DATE NOT NULL,
	location    TEXT NOT NULL,
	weather     TEXT NOT NULL,
	temperature INTEGER NOT NULL,
	condition   TEXT NOT NULL,
	suggestion  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_adventures_date ON adventures (date);
`

const selectColumns = `id, created_at, date, location, weather, temperature, condition, suggestion`

// Client implements store.Store on PostgreSQL.
type Client struct {
	pool *pgxpool.Pool
}

// New connects to dsn and makes sure the schema exists.
func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Client{pool: pool}, nil
}

func (c *Client) Create(ctx context.Context, in store.NewAdventure) (store.Adventure, error) {
	if err := in.Validate(); err != nil {
		return store.Adventure{}, err
	}

	row := c.pool.QueryRow(ctx, `
INSERT INTO adventures (date, location, weather, temperature, condition, suggestion)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+selectColumns,
		store.TruncateDate(in.Date), in.Location, in.Weather, in.Temperature, in.Condition, in.Suggestion)

	a, err := scanAdventure(row)
	if err != nil {
		return store.Adventure{}, fmt.Errorf("inserting adventure: %w", err)
	}
	return a, nil
}

func (c *Client) FindByID(ctx context.Context, id int64) (store.Adventure, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM adventures WHERE id = $1`, id)
	a, err := scanAdventure(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Adventure{}, store.ErrNotFound
	}
	if err != nil {
		return store.Adventure{}, fmt.Errorf("reading adventure %d: %w", id, err)
	}
	return a, nil
}

func (c *Client) FindMany(ctx context.Context, order store.Order, limit int) ([]store.Adventure, error) {
	query := `SELECT ` + selectColumns + ` FROM adventures`
	if order == store.NewestFirst {
		query += ` ORDER BY date DESC, id DESC`
	} else {
		query += ` ORDER BY date ASC, id ASC`
	}

	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing adventures: %w", err)
	}
	defer rows.Close()

	out := make([]store.Adventure, 0)
	for rows.Next() {
		a, err := scanAdventure(rows)
		if err != nil {
			return nil, fmt.Errorf("listing adventures: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (c *Client) Close() error {
	c.pool.Close()
	return nil
}

func scanAdventure(row pgx.Row) (store.Adventure, error) {
	var (
		a    store.Adventure
		date time.Time
	)
	if err := row.Scan(&a.ID, &a.CreatedAt, &date, &a.Location, &a.Weather, &a.Temperature, &a.Condition, &a.Suggestion); err != nil {
		return store.Adventure{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.Date = store.TruncateDate(date)
	return a, nil
}
