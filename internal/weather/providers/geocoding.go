package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/daily-adventure/internal/weather"
)

// OpenMeteoGeocoder implements weather.Geocoder with the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(client *http.Client) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		client:  client,
		circuit: newBreaker("openmeteo-geocoding"),
	}
}

// WithBaseURL points the geocoder at a different endpoint.
func (g *OpenMeteoGeocoder) WithBaseURL(u string) *OpenMeteoGeocoder {
	g.baseURL = u
	return g
}

func (g *OpenMeteoGeocoder) Name() string {
	return "openmeteo-geocoding"
}

func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, name string) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
		} `json:"results"`
	}

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
	if err := getJSON(ctx, g.client, g.circuit, u, &payload); err != nil {
		return weather.Place{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, weather.ErrNoMatch
	}

	r := payload.Results[0]
	display := r.Name
	// Region is preferred over country for disambiguation.
	if r.Admin1 != "" {
		display += ", " + r.Admin1
	} else if r.Country != "" {
		display += ", " + r.Country
	}

	return weather.Place{
		Name:        display,
		Coordinates: weather.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
	}, nil
}
