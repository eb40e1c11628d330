package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/daily-adventure/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS adventures (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	date        TEXT NOT NULL,
	location    TEXT NOT NULL,
	weather     TEXT NOT NULL,
	temperature INTEGER NOT NULL,
	condition   TEXT NOT NULL,
	suggestion  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_adventures_date ON adventures (date);
`

// Client implements store.Store using sqlite (pure Go driver modernc.org/sqlite).
type Client struct {
	db *sql.DB
}

// New opens (or creates) the database named by a sqlite:// DSN and applies the schema.
func New(ctx context.Context, dsn string) (*Client, error) {
	path, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Create(ctx context.Context, in store.NewAdventure) (store.Adventure, error) {
	if err := in.Validate(); err != nil {
		return store.Adventure{}, err
	}

	a := store.Adventure{
		CreatedAt:   time.Now().UTC(),
		Date:        store.TruncateDate(in.Date),
		Location:    in.Location,
		Weather:     in.Weather,
		Temperature: in.Temperature,
		Condition:   in.Condition,
		Suggestion:  in.Suggestion,
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO adventures (created_at, date, location, weather, temperature, condition, suggestion)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.CreatedAt.Format(time.RFC3339Nano), a.Date.Format(store.DateLayout),
		a.Location, a.Weather, a.Temperature, a.Condition, a.Suggestion)
	if err != nil {
		return store.Adventure{}, fmt.Errorf("inserting adventure: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return store.Adventure{}, fmt.Errorf("reading adventure id: %w", err)
	}
	return a, nil
}

func (c *Client) FindByID(ctx context.Context, id int64) (store.Adventure, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, created_at, date, location, weather, temperature, condition, suggestion
		 FROM adventures WHERE id = ?`, id)

	a, err := scanAdventure(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Adventure{}, store.ErrNotFound
	}
	if err != nil {
		return store.Adventure{}, fmt.Errorf("reading adventure %d: %w", id, err)
	}
	return a, nil
}

func (c *Client) FindMany(ctx context.Context, order store.Order, limit int) ([]store.Adventure, error) {
	query := `SELECT id, created_at, date, location, weather, temperature, condition, suggestion FROM adventures`
	if order == store.NewestFirst {
		query += ` ORDER BY date DESC, id DESC`
	} else {
		query += ` ORDER BY date ASC, id ASC`
	}

	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
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
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdventure(row scanner) (store.Adventure, error) {
	var (
		a         store.Adventure
		createdAt string
		date      string
	)
	if err := row.Scan(&a.ID, &createdAt, &date, &a.Location, &a.Weather, &a.Temperature, &a.Condition, &a.Suggestion); err != nil {
		return store.Adventure{}, err
	}

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Adventure{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if a.Date, err = time.Parse(store.DateLayout, date); err != nil {
		return store.Adventure{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return a, nil
}
