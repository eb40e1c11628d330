package adventure

import (
	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/weather"
	"github.com/i474232898/daily-adventure/internal/workflow"
)

// Step names, in the order the full pipeline runs them.
const (
	StepWeather       = "get-weather"
	StepSelectSources = "select-event-sources"
	StepScrapeEvents  = "scrape-events"
	StepHistory       = "get-previous-adventures"
	StepSuggest       = "generate-suggestion"
	StepSave          = "save-adventure"
)

// HistoryEntry is one previously generated suggestion.
type HistoryEntry struct {
	Suggestion string `json:"adventure"`
	Date       string `json:"date"`
}

// State holds one slot per step output. A nil slot means the step that owns
// it has not run (or is not part of this pipeline variant).
type State struct {
	Weather    *weather.Snapshot
	Sources    []events.Source
	Events     []events.Batch
	History    []HistoryEntry
	Suggestion *Suggestion
	Record     *store.Adventure
}

func (s State) requireWeather(step string) (weather.Snapshot, error) {
	if s.Weather == nil {
		return weather.Snapshot{}, &workflow.MissingDependencyError{Step: step, Dependency: StepWeather}
	}
	return *s.Weather, nil
}

func (s State) requireSuggestion(step string) (Suggestion, error) {
	if s.Suggestion == nil {
		return Suggestion{}, &workflow.MissingDependencyError{Step: step, Dependency: StepSuggest}
	}
	return *s.Suggestion, nil
}
