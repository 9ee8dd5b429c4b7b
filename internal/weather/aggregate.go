package weather

import (
	"math"
	"time"
)

// normalized is the typed output of the normalizers for one fan-out.
type normalized struct {
	current    *CurrentConditions
	forecast   []ForecastEntry
	airQuality *AirQualitySnapshot
}

// normalizeAll runs the normalizer matching each requested payload.
func normalizeAll(raw RawPayloads, inc Include, limit *int) (normalized, error) {
	var out normalized

	if inc.Current {
		cur, err := NormalizeCurrent(raw.Current)
		if err != nil {
			return normalized{}, err
		}
		out.current = &cur
	}
	if inc.Forecast {
		entries, err := NormalizeForecast(raw.Forecast, limit)
		if err != nil {
			return normalized{}, err
		}
		out.forecast = entries
	}
	if inc.AirQuality {
		aq, err := NormalizeAirQuality(raw.AirQuality)
		if err != nil {
			return normalized{}, err
		}
		out.airQuality = &aq
	}
	return out, nil
}

// assembleReport merges resolved location metadata and normalized datasets
// into one report. elapsed is rounded to the millisecond; generatedAt is the
// assembly time, not the observation time.
func assembleReport(loc LocationMeta, n normalized, elapsed time.Duration, generatedAt time.Time) *WeatherReport {
	forecast := n.forecast
	if forecast == nil {
		forecast = []ForecastEntry{}
	}

	return &WeatherReport{
		Location:   loc,
		Current:    n.current,
		Forecast:   forecast,
		AirQuality: n.airQuality,
		FetchMeta: FetchMeta{
			Source:         SourceOpenWeather,
			ElapsedSeconds: roundMillis(elapsed),
			GeneratedAt:    generatedAt.UTC(),
		},
	}
}

func roundMillis(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}
