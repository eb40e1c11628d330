package events

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many sources are scraped at once.
const DefaultConcurrency = 4

// Scraper extracts structured events from one source.
type Scraper interface {
	Scrape(ctx context.Context, src Source) (Extraction, error)
}

// Fanout scrapes many sources concurrently. A failing source never fails the
// batch; it contributes an empty event list instead.
type Fanout struct {
	scraper     Scraper
	concurrency int
	logger      *zap.Logger
}

// NewFanout creates a Fanout. A non-positive concurrency uses DefaultConcurrency.
func NewFanout(scraper Scraper, concurrency int, logger *zap.Logger) *Fanout {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{scraper: scraper, concurrency: concurrency, logger: logger}
}

// ScrapeAll returns one Batch per source, in the same order as sources,
// regardless of which scrape finishes first.
func (f *Fanout) ScrapeAll(ctx context.Context, sources []Source) []Batch {
	batches := make([]Batch, len(sources))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			batches[i] = f.scrapeOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return batches
}

func (f *Fanout) scrapeOne(ctx context.Context, src Source) Batch {
	batch := Batch{SourceURL: src.URL, Events: []Event{}}
	start := time.Now()

	extraction, err := f.scraper.Scrape(ctx, src)
	if err != nil {
		f.logger.Warn("scrape failed; using no events for source",
			zap.String("url", src.URL), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return batch
	}
	if err := validate.Struct(extraction); err != nil {
		f.logger.Warn("scrape returned non-conforming events; using no events for source",
			zap.String("url", src.URL), zap.Error(err))
		return batch
	}

	if len(extraction.Events) > 0 {
		batch.Events = extraction.Events
	}
	f.logger.Info("scraped source",
		zap.String("url", src.URL), zap.Int("events", len(batch.Events)), zap.Duration("elapsed", time.Since(start)))
	return batch
}
