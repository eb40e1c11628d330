package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	// Location the scheduled run generates an adventure for.
	Location string
	// Schedule is a standard five-field cron expression evaluated in Timezone.
	Schedule string
	Timezone *time.Location

	// RunTimeout bounds a whole pipeline run; HTTPTimeout bounds one outbound call.
	RunTimeout  time.Duration
	HTTPTimeout time.Duration

	// DatabaseDSN selects the store: sqlite://path, postgres://... or memory://.
	DatabaseDSN string

	GeminiAPIKey         string
	GeminiModel          string
	GoogleGeocoderAPIKey string

	// EventSourcesFile optionally extends the built-in event source table.
	EventSourcesFile  string
	ScrapeConcurrency int

	SimilarityThreshold float64
	// HistoryLimit caps how many previous adventures are shown to the model (0 = all).
	HistoryLimit int
}

// Load reads configuration from environment with sensible defaults.
// Callers load any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                 getenvDefault("PORT", "8080"),
		Env:                  getenvDefault("APP_ENV", "development"),
		LogLevel:             getenvDefault("LOG_LEVEL", "info"),
		Location:             getenvDefault("ADVENTURE_LOCATION", "Boston"),
		Schedule:             getenvDefault("ADVENTURE_CRON", "0 12 * * *"),
		DatabaseDSN:          getenvDefault("DATABASE_DSN", "sqlite://adventures.db"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getenvDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GoogleGeocoderAPIKey: os.Getenv("GOOGLE_GEOCODER_API_KEY"),
		EventSourcesFile:     os.Getenv("EVENT_SOURCES_FILE"),
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid ADVENTURE_CRON: %w", err)
	}

	tz, err := time.LoadLocation(getenvDefault("ADVENTURE_TIMEZONE", "America/New_York"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVENTURE_TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	if cfg.RunTimeout, err = getenvDuration("RUN_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	cfg.ScrapeConcurrency = getenvInt("SCRAPE_CONCURRENCY", 4)
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", 0)

	threshold := getenvDefault("SIMILARITY_THRESHOLD", "0.8")
	cfg.SimilarityThreshold, err = strconv.ParseFloat(threshold, 64)
	if err != nil || cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("invalid SIMILARITY_THRESHOLD %q: must be a number in [0, 1]", threshold)
	}

	return cfg, nil
}

// StoreScheme returns the scheme of DatabaseDSN, e.g. "sqlite".
func (c *AppConfig) StoreScheme() string {
	scheme, _, ok := strings.Cut(c.DatabaseDSN, "://")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
