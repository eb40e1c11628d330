package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/daily-adventure/internal/weather"
)

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker("openmeteo"),
	}
}

// WithBaseURL points the provider at a different endpoint.
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, place weather.Place) (weather.ProviderReading, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", place.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", place.Longitude))
	values.Set("current", "temperature_2m,weather_code")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("hourly", "temperature_2m")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("forecast_days", "1")
	values.Set("timezone", "auto")

	var payload struct {
		Current struct {
			Time          string  `json:"time"`
			Temperature2m float64 `json:"temperature_2m"`
			WeatherCode   int     `json:"weather_code"`
		} `json:"current"`
		Daily struct {
			Max []float64 `json:"temperature_2m_max"`
			Min []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature2m []float64 `json:"temperature_2m"`
		} `json:"hourly"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.client, p.circuit, u, &payload); err != nil {
		return weather.ProviderReading{}, err
	}

	if len(payload.Daily.Max) == 0 || len(payload.Daily.Min) == 0 {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo response has no daily range")
	}
	if len(payload.Hourly.Time) != len(payload.Hourly.Temperature2m) {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo hourly series is misaligned: %d times, %d temperatures",
			len(payload.Hourly.Time), len(payload.Hourly.Temperature2m))
	}

	hourly := make([]weather.HourlyPoint, 0, len(payload.Hourly.Time))
	for i, raw := range payload.Hourly.Time {
		ts, err := time.Parse(openMeteoTimeLayout, raw)
		if err != nil {
			return weather.ProviderReading{}, fmt.Errorf("openmeteo hourly time %q: %w", raw, err)
		}
		hourly = append(hourly, weather.HourlyPoint{Time: ts, TemperatureF: payload.Hourly.Temperature2m[i]})
	}

	ts, err := time.Parse(openMeteoTimeLayout, payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts,
		WeatherCode:  payload.Current.WeatherCode,
		TemperatureF: payload.Current.Temperature2m,
		HighF:        payload.Daily.Max[0],
		LowF:         payload.Daily.Min[0],
		Hourly:       hourly,
	}, nil
}
