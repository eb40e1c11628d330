package adventure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/workflow"
)

// DefaultSimilarityThreshold rejects suggestions sharing most of their words
// with a previous one.
const DefaultSimilarityThreshold = 0.8

// Dependencies are the collaborators a pipeline runs against. Sources and
// Scraper are optional; without them the pipeline skips event discovery.
type Dependencies struct {
	Weather WeatherFetcher
	Sources SourceSelector
	Scraper EventScraper
	History HistoryReader
	Model   llm.Generator
	Records RecordWriter
}

// Options tune a pipeline.
type Options struct {
	// SimilarityThreshold in (0, 1]; 0 only rejects exact repeats.
	SimilarityThreshold float64
	// Timezone anchors the record date. Defaults to UTC.
	Timezone *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline generates and persists one adventure per run.
type Pipeline struct {
	wf *workflow.Workflow[State]
}

// NewPipeline wires the step chain:
//
//	get-weather → select-event-sources → scrape-events → get-previous-adventures → generate-suggestion → save-adventure
//
// or, without event discovery:
//
//	get-weather → get-previous-adventures → generate-suggestion → save-adventure
func NewPipeline(deps Dependencies, opts Options, logger *zap.Logger) (*Pipeline, error) {
	if deps.Weather == nil || deps.History == nil || deps.Model == nil || deps.Records == nil {
		return nil, fmt.Errorf("adventure pipeline requires weather, history, model and records collaborators")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := func() time.Time { return opts.Now().In(opts.Timezone) }

	steps := []workflow.Step[State]{weatherStep(deps.Weather)}
	suggestDeps := []string{StepWeather, StepHistory}

	name := "generate-adventure"
	if deps.Sources != nil && deps.Scraper != nil {
		steps = append(steps, selectSourcesStep(deps.Sources), scrapeEventsStep(deps.Scraper))
		suggestDeps = append(suggestDeps, StepScrapeEvents)
		name = "generate-adventure-with-events"
	}

	steps = append(steps,
		historyStep(deps.History),
		suggestStep(deps.Model, opts.SimilarityThreshold, suggestDeps, logger),
		saveStep(deps.Records, now),
	)

	wf, err := workflow.New(name, logger, steps...)
	if err != nil {
		return nil, err
	}
	return &Pipeline{wf: wf}, nil
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	return p.wf.Steps()
}

// Execute runs the pipeline and returns the run context, which holds every
// step output recorded before completion or failure.
func (p *Pipeline) Execute(ctx context.Context, location string) (*workflow.RunContext[State], error) {
	return p.wf.Run(ctx, workflow.Trigger{Location: location})
}

// Run executes the pipeline for location and returns the persisted adventure.
// On failure the error names the step that failed and nothing is persisted.
func (p *Pipeline) Run(ctx context.Context, location string) (store.Adventure, error) {
	rc, err := p.Execute(ctx, location)
	if err != nil {
		return store.Adventure{}, fmt.Errorf("generating adventure for %s: %w", location, err)
	}

	record := rc.State().Record
	if record == nil {
		return store.Adventure{}, &workflow.MissingDependencyError{Step: p.wf.Name(), Dependency: StepSave}
	}
	return *record, nil
}
