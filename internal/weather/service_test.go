package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGeocoder struct {
	place Place
	err   error
	calls int
}

func (g *stubGeocoder) Name() string { return "stub" }

func (g *stubGeocoder) Geocode(ctx context.Context, name string) (Place, error) {
	g.calls++
	return g.place, g.err
}

type stubProvider struct {
	reading ProviderReading
	err     error
	got     Place
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, place Place) (ProviderReading, error) {
	p.got = place
	return p.reading, p.err
}

func dayOfReadings(start time.Time, temps ...float64) []HourlyPoint {
	points := make([]HourlyPoint, len(temps))
	for i, temp := range temps {
		points[i] = HourlyPoint{Time: start.Add(time.Duration(i) * time.Hour), TemperatureF: temp}
	}
	return points
}

func TestNormalizeRoundsAndSamples(t *testing.T) {
	start := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	temps := make([]float64, 24)
	for i := range temps {
		temps[i] = 50 + float64(i) + 0.5
	}

	snap := Normalize(Place{Name: "Boston, Massachusetts"}, ProviderReading{
		WeatherCode:  61,
		TemperatureF: 71.5,
		HighF:        74.6,
		LowF:         60.4,
		Hourly:       dayOfReadings(start, temps...),
	})

	assert.Equal(t, "Boston, Massachusetts", snap.Location)
	assert.Equal(t, ConditionRain, snap.Condition)
	assert.Equal(t, 72, snap.TemperatureF)
	assert.Equal(t, 75, snap.HighF)
	assert.Equal(t, 60, snap.LowF)
	require.Len(t, snap.Hourly, 6)
	assert.Equal(t, HourlyTemperature{Time: "12:00 AM", TemperatureF: 51}, snap.Hourly[0])
	assert.Equal(t, HourlyTemperature{Time: "04:00 AM", TemperatureF: 55}, snap.Hourly[1])
	assert.Equal(t, HourlyTemperature{Time: "08:00 PM", TemperatureF: 71}, snap.Hourly[5])
}

func TestNormalizeShortSeries(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	snap := Normalize(DefaultPlace, ProviderReading{Hourly: dayOfReadings(start, 40, 41, 42)})

	// With fewer points than samples, indices repeat rather than overrun.
	require.Len(t, snap.Hourly, 6)
	assert.Equal(t, "09:00 AM", snap.Hourly[0].Time)
	assert.Equal(t, "11:00 AM", snap.Hourly[5].Time)
}

func TestSummary(t *testing.T) {
	snap := Snapshot{Condition: ConditionClearSky, HighF: 75, LowF: 60}
	assert.Equal(t, "Clear sky (High: 75°F, Low: 60°F)", snap.Summary())
}

func TestServiceFallsBackToDefaultPlace(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no match", ErrNoMatch},
		{"geocoder error", errors.New("status 503")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &stubGeocoder{err: tt.err}
			prov := &stubProvider{reading: ProviderReading{WeatherCode: 0, TemperatureF: 70, HighF: 75, LowF: 60}}
			svc := NewService([]Geocoder{geo}, prov, nil)

			snap, err := svc.Current(context.Background(), "Nowhereville")
			require.NoError(t, err)
			assert.Equal(t, 1, geo.calls)
			assert.Equal(t, DefaultPlace, prov.got)
			assert.Equal(t, "Boston", snap.Location)
		})
	}
}

func TestServiceTriesGeocodersInOrder(t *testing.T) {
	first := &stubGeocoder{err: errors.New("quota exceeded")}
	second := &stubGeocoder{place: Place{Name: "Paris, Île-de-France", Coordinates: Coordinates{48.85, 2.35}}}
	prov := &stubProvider{reading: ProviderReading{HighF: 60, LowF: 50}}

	svc := NewService([]Geocoder{first, second}, prov, nil)
	_, err := svc.Current(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, Île-de-France", prov.got.Name)
}

func TestServiceProviderFailureIsFatal(t *testing.T) {
	prov := &stubProvider{err: errors.New("status 500")}
	svc := NewService(nil, prov, nil)

	_, err := svc.Current(context.Background(), "Boston")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestServiceRejectsInvertedRange(t *testing.T) {
	prov := &stubProvider{reading: ProviderReading{HighF: 50, LowF: 60}}
	svc := NewService(nil, prov, nil)

	_, err := svc.Current(context.Background(), "Boston")
	assert.Error(t, err)
}

func TestServiceLogsReadingProvenance(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	observed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	prov := &stubProvider{reading: ProviderReading{
		ProviderName: "open-meteo",
		Timestamp:    observed,
		HighF:        75,
		LowF:         60,
	}}
	svc := NewService(nil, prov, zap.New(core))

	_, err := svc.Current(context.Background(), "Boston")
	require.NoError(t, err)

	entries := logs.FilterMessage("weather fetched").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "open-meteo", fields["provider"])
	assert.Equal(t, observed, fields["observed_at"])
}
