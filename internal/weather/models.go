package weather

import (
	"fmt"
	"time"
)

// Condition is a human-readable weather condition label.
type Condition string

const (
	ConditionClearSky             Condition = "Clear sky"
	ConditionMainlyClear          Condition = "Mainly clear"
	ConditionPartlyCloudy         Condition = "Partly cloudy"
	ConditionOvercast             Condition = "Overcast"
	ConditionFog                  Condition = "Fog"
	ConditionDrizzle              Condition = "Drizzle"
	ConditionFreezingDrizzle      Condition = "Freezing Drizzle"
	ConditionRain                 Condition = "Rain"
	ConditionFreezingRain         Condition = "Freezing Rain"
	ConditionSnow                 Condition = "Snow"
	ConditionRainShowers          Condition = "Rain showers"
	ConditionSnowShowers          Condition = "Snow showers"
	ConditionThunderstorm         Condition = "Thunderstorm"
	ConditionThunderstormWithHail Condition = "Thunderstorm with hail"
	ConditionUnknown              Condition = "Unknown"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a geocoded location with its canonical display name.
type Place struct {
	Name string `json:"name"`
	Coordinates
}

// DefaultPlace is used whenever geocoding finds nothing or fails.
var DefaultPlace = Place{
	Name:        "Boston",
	Coordinates: Coordinates{Latitude: 42.3601, Longitude: -71.0589},
}

// HourlyTemperature is one point of the day's temperature curve.
type HourlyTemperature struct {
	Time         string `json:"time" validate:"required"`
	TemperatureF int    `json:"temperature"`
}

// Snapshot is the weather for one location on the day of a run. All
// temperatures are whole degrees Fahrenheit.
type Snapshot struct {
	Location     string              `json:"location" validate:"required"`
	Condition    Condition           `json:"conditions" validate:"required"`
	TemperatureF int                 `json:"temperature"`
	HighF        int                 `json:"high" validate:"gtefield=LowF"`
	LowF         int                 `json:"low"`
	Hourly       []HourlyTemperature `json:"hourly" validate:"dive"`
}

// Summary renders the snapshot the way it is stored on an adventure record,
// e.g. "Clear sky (High: 75°F, Low: 60°F)".
func (s Snapshot) Summary() string {
	return fmt.Sprintf("%s (High: %d°F, Low: %d°F)", s.Condition, s.HighF, s.LowF)
}

// HourlyPoint is a raw hourly reading as reported by a provider.
type HourlyPoint struct {
	Time         time.Time
	TemperatureF float64
}

// ProviderReading is a provider's raw answer before normalization.
type ProviderReading struct {
	ProviderName string
	// Timestamp is when the provider observed the current conditions.
	Timestamp time.Time

	WeatherCode  int
	TemperatureF float64
	HighF        float64
	LowF         float64
	Hourly       []HourlyPoint
}
