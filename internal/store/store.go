package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when no adventure exists for a given id.
	ErrNotFound = errors.New("adventure not found")
)

var validate = validator.New()

// DateLayout is how an adventure's calendar date is serialized.
const DateLayout = "2006-01-02"

// Adventure is a persisted adventure suggestion for one day and location.
type Adventure struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Weather     string    `json:"weather"`
	Temperature int       `json:"temperature"`
	Condition   string    `json:"condition"`
	Suggestion  string    `json:"suggestion"`
}

// NewAdventure holds the fields supplied by the caller of Create; the store
// assigns ID and CreatedAt.
type NewAdventure struct {
	Date        time.Time `validate:"required"`
	Location    string    `validate:"required"`
	Weather     string    `validate:"required"`
	Temperature int
	Condition   string `validate:"required"`
	Suggestion  string `validate:"required"`
}

// Validate checks that all required fields are present.
func (n NewAdventure) Validate() error {
	return validate.Struct(n)
}

// Order controls the sort order of FindMany.
type Order int

const (
	// NewestFirst sorts by date, then id, descending.
	NewestFirst Order = iota
	// OldestFirst sorts by date, then id, ascending.
	OldestFirst
)

// Store is the contract every adventure store must satisfy. Implementations
// must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, in NewAdventure) (Adventure, error)
	FindByID(ctx context.Context, id int64) (Adventure, error)
	// FindMany returns up to limit adventures; limit <= 0 means no limit.
	FindMany(ctx context.Context, order Order, limit int) ([]Adventure, error)
	Close() error
}

// TruncateDate returns midnight UTC of t's calendar date, as seen in t's location.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
