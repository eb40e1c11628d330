package adventure

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/daily-adventure/internal/store"
)

// StoreHistory reads the suggestion history from an adventure store.
type StoreHistory struct {
	store store.Store
	limit int
}

// NewStoreHistory creates a HistoryReader over s. A limit <= 0 reads every record.
func NewStoreHistory(s store.Store, limit int) *StoreHistory {
	return &StoreHistory{store: s, limit: limit}
}

// History returns prior suggestions, newest first.
func (h *StoreHistory) History(ctx context.Context) ([]HistoryEntry, error) {
	records, err := h.store.FindMany(ctx, store.NewestFirst, h.limit)
	if err != nil {
		return nil, fmt.Errorf("reading previous adventures: %w", err)
	}

	history := make([]HistoryEntry, len(records))
	for i, r := range records {
		history[i] = HistoryEntry{
			Suggestion: r.Suggestion,
			Date:       r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return history, nil
}
