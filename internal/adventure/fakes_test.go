package adventure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/weather"
)

type stubGeocoder struct {
	places map[string]weather.Place
}

func (g *stubGeocoder) Name() string { return "stub" }

func (g *stubGeocoder) Geocode(ctx context.Context, name string) (weather.Place, error) {
	p, ok := g.places[name]
	if !ok {
		return weather.Place{}, weather.ErrNoMatch
	}
	return p, nil
}

type stubProvider struct {
	reading weather.ProviderReading
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, place weather.Place) (weather.ProviderReading, error) {
	p.calls++
	return p.reading, p.err
}

// clearDay is 72°F now with a 60..75 range, reported as clear sky.
func clearDay() weather.ProviderReading {
	start := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	hourly := make([]weather.HourlyPoint, 24)
	for i := range hourly {
		hourly[i] = weather.HourlyPoint{Time: start.Add(time.Duration(i) * time.Hour), TemperatureF: 60 + float64(i)/2}
	}
	return weather.ProviderReading{
		ProviderName: "stub",
		Timestamp:    start.Add(12 * time.Hour),
		WeatherCode:  0,
		TemperatureF: 72.4,
		HighF:        75.2,
		LowF:         59.6,
		Hourly:       hourly,
	}
}

func newWeather(provider *stubProvider) *weather.Service {
	geo := &stubGeocoder{places: map[string]weather.Place{
		"Boston": {Name: "Boston, Massachusetts", Coordinates: weather.DefaultPlace.Coordinates},
	}}
	return weather.NewService([]weather.Geocoder{geo}, provider, nil)
}

// scriptedModel answers every Generate call with reply, encoded as JSON.
type scriptedModel struct {
	mu       sync.Mutex
	reply    map[string]any
	err      error
	calls    int
	messages []llm.Message
}

func (m *scriptedModel) Generate(ctx context.Context, messages []llm.Message, shape *llm.Shape, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(m.reply)
	if err != nil {
		return err
	}
	return llm.DecodeJSON(string(raw), out)
}

func replyWith(suggestion string) map[string]any {
	return map[string]any{
		"condition":   "Sunny",
		"temperature": 72.0,
		"suggestion":  suggestion,
		"location":    "Boston",
	}
}

// pageScraper serves a fixed extraction per URL; unknown URLs fail.
type pageScraper struct {
	pages map[string]events.Extraction
}

func (s *pageScraper) Scrape(ctx context.Context, src events.Source) (events.Extraction, error) {
	page, ok := s.pages[src.URL]
	if !ok {
		return events.Extraction{}, errors.New("status 503")
	}
	return page, nil
}

// countingStore records Create calls and can be told to fail.
type countingStore struct {
	*store.MemoryStore
	creates int
	err     error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *countingStore) Create(ctx context.Context, in store.NewAdventure) (store.Adventure, error) {
	s.creates++
	if s.err != nil {
		return store.Adventure{}, s.err
	}
	return s.MemoryStore.Create(ctx, in)
}
