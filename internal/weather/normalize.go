package weather

import (
	"math"
)

// hourlySamples is how many points of the day's curve are kept.
const hourlySamples = 6

// hourLabelLayout renders sample times like "08:00 AM".
const hourLabelLayout = "03:04 PM"

// Normalize converts a provider reading into a Snapshot for the given place.
// Temperatures are rounded half-up to whole degrees and the hourly series is
// reduced to evenly spaced samples across the day.
func Normalize(place Place, r ProviderReading) Snapshot {
	return Snapshot{
		Location:     place.Name,
		Condition:    ConditionFromCode(r.WeatherCode),
		TemperatureF: roundF(r.TemperatureF),
		HighF:        roundF(r.HighF),
		LowF:         roundF(r.LowF),
		Hourly:       sampleHourly(r.Hourly, hourlySamples),
	}
}

func sampleHourly(points []HourlyPoint, n int) []HourlyTemperature {
	count := len(points)
	if count == 0 {
		return nil
	}

	out := make([]HourlyTemperature, 0, n)
	for i := 0; i < n; i++ {
		idx := i * count / n
		if idx >= count {
			break
		}
		p := points[idx]
		out = append(out, HourlyTemperature{
			Time:         p.Time.Format(hourLabelLayout),
			TemperatureF: roundF(p.TemperatureF),
		})
	}
	return out
}

func roundF(v float64) int {
	return int(math.Floor(v + 0.5))
}
