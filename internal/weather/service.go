package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// Service resolves a location name and fetches today's weather for it.
type Service struct {
	geocoders []Geocoder
	provider  Provider
	fallback  Place
	logger    *zap.Logger
}

// NewService creates a new Service. Geocoders are tried in order; when all of
// them fail or find nothing, DefaultPlace is used.
func NewService(geocoders []Geocoder, provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoders: geocoders,
		provider:  provider,
		fallback:  DefaultPlace,
		logger:    logger,
	}
}

// Resolve returns the place for name. It never fails.
func (s *Service) Resolve(ctx context.Context, name string) Place {
	for _, g := range s.geocoders {
		place, err := g.Geocode(ctx, name)
		if err == nil {
			return place
		}
		if errors.Is(err, ErrNoMatch) {
			s.logger.Info("geocoder found no match",
				zap.String("geocoder", g.Name()), zap.String("location", name))
		} else {
			s.logger.Warn("geocoder failed",
				zap.String("geocoder", g.Name()), zap.String("location", name), zap.Error(err))
		}
	}

	s.logger.Info("using default location", zap.String("location", name), zap.String("default", s.fallback.Name))
	return s.fallback
}

// Current geocodes location and fetches its weather. A provider failure or an
// invalid reading is returned as an error; there is no fallback data.
func (s *Service) Current(ctx context.Context, location string) (Snapshot, error) {
	if s.provider == nil {
		return Snapshot{}, fmt.Errorf("no weather provider configured")
	}

	place := s.Resolve(ctx, location)

	reading, err := s.provider.Fetch(ctx, place)
	if err != nil {
		return Snapshot{}, fmt.Errorf("provider %s fetch failed for %s: %w", s.provider.Name(), place.Name, err)
	}

	snapshot := Normalize(place, reading)
	if err := validate.Struct(snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("provider %s returned invalid weather for %s: %w", s.provider.Name(), place.Name, err)
	}

	s.logger.Debug("weather fetched",
		zap.String("provider", reading.ProviderName),
		zap.Time("observed_at", reading.Timestamp),
		zap.String("location", snapshot.Location),
		zap.String("condition", string(snapshot.Condition)),
		zap.Int("temperature", snapshot.TemperatureF))
	return snapshot, nil
}
