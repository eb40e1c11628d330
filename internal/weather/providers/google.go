package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/daily-adventure/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// The kelvins/geocoder client keeps its API key in a package variable, so
// only one key can be active per process.
type GoogleGeocoder struct {
	circuit *gobreaker.CircuitBreaker
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{circuit: newBreaker("google-geocoding")}
}

func (g *GoogleGeocoder) Name() string {
	return "google-geocoding"
}

type googleLookup struct {
	place weather.Place
	err   error
}

// Geocode resolves name through Google. The client library has no context
// support, so the lookup runs in its own goroutine and Geocode returns
// ctx.Err() once ctx is done; the abandoned request finishes in the background.
func (g *GoogleGeocoder) Geocode(ctx context.Context, name string) (weather.Place, error) {
	if geocoder.ApiKey == "" {
		return weather.Place{}, fmt.Errorf("google geocoder api key is not configured")
	}

	done := make(chan googleLookup, 1)
	go func() {
		defer func() {
			// The library indexes into results without checking their length.
			if r := recover(); r != nil {
				done <- googleLookup{err: fmt.Errorf("google geocoding: malformed response: %v", r)}
			}
		}()
		place, err := g.lookup(name)
		done <- googleLookup{place: place, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Place{}, ctx.Err()
	case res := <-done:
		return res.place, res.err
	}
}

func (g *GoogleGeocoder) lookup(name string) (weather.Place, error) {
	// A nil result means Google answered but found nothing; that is not a
	// failure as far as the breaker is concerned.
	result, err := g.circuit.Execute(func() (interface{}, error) {
		loc, err := geocoder.Geocoding(geocoder.Address{City: name})
		if err != nil {
			if isNoResults(err) {
				return nil, nil
			}
			return nil, err
		}
		return loc, nil
	})
	if err != nil {
		return weather.Place{}, err
	}
	if result == nil {
		return weather.Place{}, weather.ErrNoMatch
	}

	loc := result.(geocoder.Location)
	place := weather.Place{
		Name:        name,
		Coordinates: weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
	}

	// Reverse lookup only improves the display name; failures are ignored.
	if addrs, err := geocoder.GeocodingReverse(loc); err == nil && len(addrs) > 0 {
		if display := displayName(addrs[0]); display != "" {
			place.Name = display
		}
	}
	return place, nil
}

// isNoResults matches the error kelvins/geocoder returns for ZERO_RESULTS.
func isNoResults(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no results found")
}

func displayName(a geocoder.Address) string {
	switch {
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "" && a.Country != "":
		return a.City + ", " + a.Country
	default:
		return a.City
	}
}
