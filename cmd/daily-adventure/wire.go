package main

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/daily-adventure/internal/adventure"
	"github.com/i474232898/daily-adventure/internal/config"
	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/store"
	"github.com/i474232898/daily-adventure/internal/weather"
	"github.com/i474232898/daily-adventure/internal/weather/providers"
)

// buildPipeline wires the adventure pipeline against real collaborators.
func buildPipeline(ctx context.Context, cfg *config.AppConfig, records store.Store, logger *zap.Logger) (*adventure.Pipeline, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Google geocoding is preferred when a key is configured; Open-Meteo needs none.
	var geocoders []weather.Geocoder
	if cfg.GoogleGeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey))
	}
	geocoders = append(geocoders, providers.NewOpenMeteoGeocoder(httpClient))

	weatherService := weather.NewService(geocoders, providers.NewOpenMeteoProvider(httpClient), logger.Named("weather"))

	model, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	rules := events.DefaultRules
	if cfg.EventSourcesFile != "" {
		extra, err := events.LoadRules(cfg.EventSourcesFile)
		if err != nil {
			return nil, err
		}
		rules = rules.Merge(extra)
	}
	scraper := events.NewFanout(events.NewPageExtractor(httpClient, model), cfg.ScrapeConcurrency, logger.Named("events"))

	return adventure.NewPipeline(adventure.Dependencies{
		Weather: weatherService,
		Sources: rules.Select,
		Scraper: scraper,
		History: adventure.NewStoreHistory(records, cfg.HistoryLimit),
		Model:   model,
		Records: records,
	}, adventure.Options{
		SimilarityThreshold: cfg.SimilarityThreshold,
		Timezone:            cfg.Timezone,
	}, logger.Named("pipeline"))
}
