package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/weather"
)

func ptr[T any](v T) *T { return &v }

func sampleReport(city string, observedAt int64) *weather.WeatherReport {
	return &weather.WeatherReport{
		Location: weather.LocationMeta{
			City:    ptr(city),
			Country: ptr("FR"),
			Lat:     ptr(48.8589),
			Lon:     ptr(2.32),
		},
		Current: &weather.CurrentConditions{
			Description:  "ciel dégagé",
			Temperature:  12.98,
			FeelsLike:    12.1,
			Humidity:     71,
			WindSpeed:    ptr(3.6),
			SunriseLocal: "07:58:12",
			SunsetLocal:  "18:41:03",
			ObservedAt:   observedAt,
		},
		Forecast: []weather.ForecastEntry{},
		AirQuality: &weather.AirQualitySnapshot{
			AQI:        2,
			Components: weather.Components{CO: 201.94, NO2: 0.77, O3: 68.66, PM25: 0.5, PM10: 0.54},
		},
		FetchMeta: weather.FetchMeta{
			Source:      weather.SourceOpenWeather,
			GeneratedAt: time.Unix(observedAt, 0).UTC(),
		},
	}
}

// validatedRecord returns a record and a lifecycle already in VALIDATED.
func validatedRecord(t *testing.T, city string, observedAt int64) (*schema.WeatherRecord, *Lifecycle) {
	t.Helper()

	m, err := schema.ToReportModel(sampleReport(city, observedAt))
	require.NoError(t, err)
	rec, err := schema.ToPersistenceRecord(m)
	require.NoError(t, err)

	lc := NewLifecycle()
	require.NoError(t, lc.Advance(StateValidated))
	return rec, lc
}

func saveAt(t *testing.T, s Store, city string, observedAt int64) *schema.WeatherRecord {
	t.Helper()
	rec, lc := validatedRecord(t, city, observedAt)
	require.NoError(t, s.Save(context.Background(), rec, lc))
	require.Equal(t, StateCommitted, lc.State())
	return rec
}
