package adventure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/workflow"
)

var (
	eastern  = time.FixedZone("EDT", -4*60*60)
	runClock = func() time.Time { return time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC) }
	festival = events.Event{Title: "Harbor Festival", Date: "October 15", Link: "https://www.boston.gov/events/harbor-festival"}
)

type fixture struct {
	provider *stubProvider
	model    *scriptedModel
	records  *countingStore
	scraper  *pageScraper
}

func newFixture(suggestion string) *fixture {
	boston := events.SelectSources("Boston")
	return &fixture{
		provider: &stubProvider{reading: clearDay()},
		model:    &scriptedModel{reply: replyWith(suggestion)},
		records:  newCountingStore(),
		scraper: &pageScraper{pages: map[string]events.Extraction{
			boston[0].URL: {Events: []events.Event{festival}},
		}},
	}
}

func (f *fixture) pipeline(t *testing.T, withEvents bool) *Pipeline {
	t.Helper()
	deps := Dependencies{
		Weather: newWeather(f.provider),
		History: NewStoreHistory(f.records, 0),
		Model:   f.model,
		Records: f.records,
	}
	if withEvents {
		deps.Sources = events.SelectSources
		deps.Scraper = events.NewFanout(f.scraper, 2, nil)
	}
	p, err := NewPipeline(deps, Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		Timezone:            eastern,
		Now:                 runClock,
	}, nil)
	require.NoError(t, err)
	return p
}

func TestRunPersistsAdventureForBoston(t *testing.T) {
	f := newFixture("Catch the Harbor Festival on the waterfront (https://www.boston.gov/events/harbor-festival) while the sun is out.")
	p := f.pipeline(t, true)
	ctx := context.Background()

	got, err := p.Run(ctx, "Boston")
	require.NoError(t, err)

	assert.Equal(t, "Boston, Massachusetts", got.Location)
	assert.Equal(t, "Clear sky (High: 75°F, Low: 60°F)", got.Weather)
	assert.Equal(t, 72, got.Temperature)
	assert.Equal(t, "Clear sky", got.Condition)
	assert.Contains(t, got.Suggestion, "Harbor Festival")
	assert.Equal(t, "2026-10-15", got.Date.Format(store.DateLayout))

	stored, err := f.records.FindByID(ctx, got.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored adventure mismatch (-returned +stored):\n%s", diff)
	}
}

func TestExecuteRecordsEveryStepOutput(t *testing.T) {
	f := newFixture("Catch the Harbor Festival on the waterfront while the sun is out today.")
	p := f.pipeline(t, true)

	rc, err := p.Execute(context.Background(), "Boston")
	require.NoError(t, err)

	if diff := cmp.Diff(p.Steps(), rc.Order()); diff != "" {
		t.Errorf("recorded order mismatch (-want +got):\n%s", diff)
	}

	state := rc.State()
	require.NotNil(t, state.Weather)
	require.NotNil(t, state.Suggestion)
	require.NotNil(t, state.Record)
	assert.Len(t, state.Sources, 2)
	require.Len(t, state.Events, 2)
	assert.Equal(t, []events.Event{festival}, state.Events[0].Events)
	assert.Empty(t, state.Events[1].Events)
	assert.Empty(t, state.History)
}

func TestStepOrder(t *testing.T) {
	f := newFixture("irrelevant")

	full := []string{StepWeather, StepSelectSources, StepScrapeEvents, StepHistory, StepSuggest, StepSave}
	assert.Equal(t, full, f.pipeline(t, true).Steps())

	weatherOnly := []string{StepWeather, StepHistory, StepSuggest, StepSave}
	assert.Equal(t, weatherOnly, f.pipeline(t, false).Steps())
}

func TestWeatherOnlyPipelinePromptsWithoutEvents(t *testing.T) {
	f := newFixture("Walk the Freedom Trail and grab a cannoli in the North End afterwards.")
	p := f.pipeline(t, false)

	_, err := p.Run(context.Background(), "Boston")
	require.NoError(t, err)

	require.Len(t, f.model.messages, 4)
	assert.Equal(t, "No local events are available.", f.model.messages[2].Content)
}

func TestUnknownLocationFallsBackAndCompletes(t *testing.T) {
	f := newFixture("Take a ferry out to the harbor islands and pack a picnic lunch.")
	p := f.pipeline(t, true)

	rc, err := p.Execute(context.Background(), "Nowhereville")
	require.NoError(t, err)

	state := rc.State()
	assert.Empty(t, state.Sources)
	assert.Empty(t, state.Events)
	require.NotNil(t, state.Record)
	assert.Equal(t, "Boston", state.Record.Location)
	assert.Equal(t, 1, f.records.creates)
}

func TestScrapeFailuresDoNotAbortRun(t *testing.T) {
	f := newFixture("Kayak along the Charles River and watch the rowers go by at dusk.")
	f.scraper.pages = nil
	p := f.pipeline(t, true)

	rc, err := p.Execute(context.Background(), "Boston")
	require.NoError(t, err)

	state := rc.State()
	require.Len(t, state.Events, 2)
	for i, batch := range state.Events {
		assert.Equal(t, state.Sources[i].URL, batch.SourceURL)
		assert.NotNil(t, batch.Events)
		assert.Empty(t, batch.Events)
	}
	assert.Equal(t, 1, f.records.creates)
}

func TestFailureShortCircuits(t *testing.T) {
	tests := []struct {
		name     string
		breakIt  func(f *fixture)
		wantStep string
		modelRun bool
	}{
		{
			name:     "weather provider down",
			breakIt:  func(f *fixture) { f.provider.err = errors.New("status 503") },
			wantStep: StepWeather,
		},
		{
			name:     "model unavailable",
			breakIt:  func(f *fixture) { f.model.err = errors.New("quota exceeded") },
			wantStep: StepSuggest,
			modelRun: true,
		},
		{
			name:     "malformed reply",
			breakIt:  func(f *fixture) { f.model.err = llm.ErrMalformedResponse },
			wantStep: StepSuggest,
			modelRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("Catch the Harbor Festival on the waterfront while the sun is out.")
			tt.breakIt(f)
			p := f.pipeline(t, true)

			_, err := p.Run(context.Background(), "Boston")
			require.Error(t, err)

			step, ok := workflow.FailedStep(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStep, step)
			assert.Zero(t, f.records.creates, "nothing may be persisted after a failure")
			assert.Equal(t, tt.modelRun, f.model.calls > 0)

			all, err := f.records.FindMany(context.Background(), store.NewestFirst, 0)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	f := newFixture("Catch the Harbor Festival on the waterfront while the sun is out.")
	f.records.err = errors.New("disk full")
	p := f.pipeline(t, true)

	rc, err := p.Execute(context.Background(), "Boston")
	require.Error(t, err)

	step, _ := workflow.FailedStep(err)
	assert.Equal(t, StepSave, step)
	assert.NotNil(t, rc.State().Suggestion)
	assert.Nil(t, rc.State().Record)
}

func TestInvalidReplyIsRejected(t *testing.T) {
	f := newFixture("Too short")
	p := f.pipeline(t, true)

	_, err := p.Run(context.Background(), "Boston")
	require.ErrorIs(t, err, ErrInvalidReply)
	assert.Zero(t, f.records.creates)
}

func TestReplyMissingTemperatureIsRejected(t *testing.T) {
	f := newFixture("Catch the Harbor Festival on the waterfront while the sun is out.")
	delete(f.model.reply, "temperature")
	p := f.pipeline(t, false)

	_, err := p.Run(context.Background(), "Boston")
	require.ErrorIs(t, err, ErrInvalidReply)
}

func TestRepeatedSuggestionIsRejected(t *testing.T) {
	text := "Catch the Harbor Festival on the waterfront while the sun is out."
	f := newFixture(text)
	p := f.pipeline(t, true)
	ctx := context.Background()

	_, err := p.Run(ctx, "Boston")
	require.NoError(t, err)

	_, err = p.Run(ctx, "Boston")
	require.ErrorIs(t, err, ErrDuplicateSuggestion)
	step, _ := workflow.FailedStep(err)
	assert.Equal(t, StepSuggest, step)
	assert.Equal(t, 1, f.records.creates, "second run must not persist")
}

func TestHistoryIsPassedToModel(t *testing.T) {
	f := newFixture("Rent a bike and ride the Emerald Necklace from end to end.")
	ctx := context.Background()
	_, err := f.records.MemoryStore.Create(ctx, store.NewAdventure{
		Date:       runClock().Add(-24 * time.Hour),
		Location:   "Boston",
		Weather:    "Rain (High: 60°F, Low: 50°F)",
		Condition:  "Rain",
		Suggestion: "Visit the Museum of Fine Arts and stay dry.",
	})
	require.NoError(t, err)

	p := f.pipeline(t, false)
	rc, err := p.Execute(ctx, "Boston")
	require.NoError(t, err)

	require.Len(t, rc.State().History, 1)
	assert.True(t, strings.Contains(f.model.messages[1].Content, "Visit the Museum of Fine Arts"),
		fmt.Sprintf("history context: %q", f.model.messages[1].Content))
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	_, err := NewPipeline(Dependencies{}, Options{}, nil)
	assert.Error(t, err)
}
