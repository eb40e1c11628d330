package weather

import (
	"context"
	"errors"
)

// ErrNoMatch is returned by a Geocoder that found no place for a name.
var ErrNoMatch = errors.New("no geocoding match")

// Geocoder resolves a location name to coordinates and a display name.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, name string) (Place, error)
}

// Provider abstracts a forecast source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, place Place) (ProviderReading, error)
}
