package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store.
type MemoryStore struct {
	mu     sync.RWMutex
	data   []Adventure
	nextID int64
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create assigns an id and creation time and appends the adventure.
func (s *MemoryStore) Create(ctx context.Context, in NewAdventure) (Adventure, error) {
	if err := in.Validate(); err != nil {
		return Adventure{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := Adventure{
		ID:          s.nextID,
		CreatedAt:   s.now(),
		Date:        TruncateDate(in.Date),
		Location:    in.Location,
		Weather:     in.Weather,
		Temperature: in.Temperature,
		Condition:   in.Condition,
		Suggestion:  in.Suggestion,
	}
	s.nextID++
	s.data = append(s.data, a)
	return a, nil
}

// FindByID returns the adventure with the given id.
func (s *MemoryStore) FindByID(ctx context.Context, id int64) (Adventure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.data {
		if a.ID == id {
			return a, nil
		}
	}
	return Adventure{}, ErrNotFound
}

// FindMany returns adventures sorted by date then id.
func (s *MemoryStore) FindMany(ctx context.Context, order Order, limit int) ([]Adventure, error) {
	s.mu.RLock()
	out := make([]Adventure, len(s.data))
	copy(out, s.data)
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if order == NewestFirst {
			return before(out[j], out[i])
		}
		return before(out[i], out[j])
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func before(a, b Adventure) bool {
	if a.Date.Equal(b.Date) {
		return a.ID < b.ID
	}
	return a.Date.Before(b.Date)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
