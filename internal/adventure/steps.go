package adventure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/weather"
	"github.com/i474232898/daily-adventure/internal/workflow"
)

type step = workflow.Step[State]
type runContext = workflow.RunContext[State]
type output = workflow.Output[State]

// WeatherFetcher returns today's weather for a location name.
type WeatherFetcher interface {
	Current(ctx context.Context, location string) (weather.Snapshot, error)
}

// SourceSelector decides which event sources to scrape for a location.
type SourceSelector func(location string) []events.Source

// EventScraper scrapes every source and returns one batch per source, in order.
type EventScraper interface {
	ScrapeAll(ctx context.Context, sources []events.Source) []events.Batch
}

// HistoryReader lists previously generated suggestions.
type HistoryReader interface {
	History(ctx context.Context) ([]HistoryEntry, error)
}

// RecordWriter persists an adventure.
type RecordWriter interface {
	Create(ctx context.Context, in store.NewAdventure) (store.Adventure, error)
}

func weatherStep(fetcher WeatherFetcher) step {
	return step{
		Name: StepWeather,
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			snap, err := fetcher.Current(ctx, rc.Trigger().Location)
			if err != nil {
				return nil, err
			}
			return func(s *State) { s.Weather = &snap }, nil
		},
	}
}

func selectSourcesStep(selector SourceSelector) step {
	return step{
		Name: StepSelectSources,
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			sources := selector(rc.Trigger().Location)
			if sources == nil {
				sources = []events.Source{}
			}
			return func(s *State) { s.Sources = sources }, nil
		},
	}
}

func scrapeEventsStep(scraper EventScraper) step {
	return step{
		Name:      StepScrapeEvents,
		DependsOn: []string{StepSelectSources},
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			sources := rc.State().Sources
			batches := []events.Batch{}
			if len(sources) > 0 {
				batches = scraper.ScrapeAll(ctx, sources)
			}
			return func(s *State) { s.Events = batches }, nil
		},
	}
}

func historyStep(reader HistoryReader) step {
	return step{
		Name: StepHistory,
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			history, err := reader.History(ctx)
			if err != nil {
				return nil, err
			}
			return func(s *State) { s.History = history }, nil
		},
	}
}

func suggestStep(model llm.Generator, threshold float64, dependsOn []string, logger *zap.Logger) step {
	return step{
		Name:      StepSuggest,
		DependsOn: dependsOn,
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			state := rc.State()
			snap, err := state.requireWeather(StepSuggest)
			if err != nil {
				return nil, err
			}

			var reply Reply
			messages := BuildPrompt(snap, state.History, state.Events)
			if err := model.Generate(ctx, messages, ReplyShape, &reply); err != nil {
				return nil, fmt.Errorf("generating suggestion: %w", err)
			}

			suggestion, err := NewSuggestion(reply, snap)
			if err != nil {
				return nil, err
			}
			if err := CheckNovelty(suggestion.Text, state.History, threshold); err != nil {
				return nil, err
			}

			if refs := eventRefs(state.Events); len(refs) > 0 && !citesEvent(suggestion.Text, refs) {
				logger.Info("suggestion does not reference any scraped event",
					zap.String("run_id", rc.RunID()), zap.Int("events", len(refs)))
			}
			return func(s *State) { s.Suggestion = &suggestion }, nil
		},
	}
}

func saveStep(writer RecordWriter, now func() time.Time) step {
	return step{
		Name:      StepSave,
		DependsOn: []string{StepWeather, StepSuggest},
		Execute: func(ctx context.Context, rc *runContext) (output, error) {
			state := rc.State()
			snap, err := state.requireWeather(StepSave)
			if err != nil {
				return nil, err
			}
			suggestion, err := state.requireSuggestion(StepSave)
			if err != nil {
				return nil, err
			}

			record, err := writer.Create(ctx, store.NewAdventure{
				Date:        now(),
				Location:    suggestion.Location,
				Weather:     snap.Summary(),
				Temperature: suggestion.Temperature,
				Condition:   suggestion.Condition,
				Suggestion:  suggestion.Text,
			})
			if err != nil {
				return nil, fmt.Errorf("saving adventure: %w", err)
			}
			return func(s *State) { s.Record = &record }, nil
		},
	}
}
