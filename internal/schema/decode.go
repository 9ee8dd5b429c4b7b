package schema

import (
	"encoding/json"
	"time"

	"github.com/i474232898/weather-report-service/internal/weather"
)

// legacyReport accepts the field names used by earlier revisions of the
// report format. They are read once and mapped to ReportModel; they are
// never written back out.
type legacyReport struct {
	CurrentWeather *struct {
		MeasureTimestamp *time.Time `json:"measure_timestamp"`
		CurrentTemp      *float64   `json:"current_temp"`
		FeelsLike        *float64   `json:"feels_like"`
		Humidity         *int       `json:"humidity"`
		WindSpeed        *float64   `json:"wind_speed"`
		Description      string     `json:"description"`
		SunriseTime      string     `json:"sunrise_time"`
		SunsetTime       string     `json:"sunset_time"`
	} `json:"current_weather"`
	Weather *struct {
		Description   string   `json:"description"`
		Temperature   *float64 `json:"temperature"`
		Ressenti      *float64 `json:"ressenti"`
		Humidite      *int     `json:"humidite"`
		VitesseVent   *float64 `json:"vitesse_vent"`
		LeverSoleil   string   `json:"lever_soleil"`
		CoucherSoleil string   `json:"coucher_soleil"`
		Dt            int64    `json:"dt"`
	} `json:"weather"`
	AirPollution *AirQualityModel `json:"air_pollution"`
	Forecast     []struct {
		Dt   *int64   `json:"dt"`
		Temp *float64 `json:"temp"`
	} `json:"forecast"`
}

// DecodeReportModel parses a client-supplied report, maps legacy aliases and
// validates the result.
func DecodeReportModel(body []byte) (*ReportModel, error) {
	var m ReportModel
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, &weather.SchemaError{Err: err}
	}

	var legacy legacyReport
	if err := json.Unmarshal(body, &legacy); err != nil {
		return nil, &weather.SchemaError{Err: err}
	}
	applyLegacy(&m, &legacy)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func applyLegacy(m *ReportModel, l *legacyReport) {
	if m.Current == nil {
		switch {
		case l.CurrentWeather != nil:
			cw := l.CurrentWeather
			cur := &CurrentModel{
				Description:  cw.Description,
				Temperature:  cw.CurrentTemp,
				FeelsLike:    cw.FeelsLike,
				Humidity:     cw.Humidity,
				WindSpeed:    cw.WindSpeed,
				SunriseLocal: cw.SunriseTime,
				SunsetLocal:  cw.SunsetTime,
			}
			if cw.MeasureTimestamp != nil {
				cur.ObservedAt = cw.MeasureTimestamp.Unix()
			}
			m.Current = cur
		case l.Weather != nil:
			w := l.Weather
			m.Current = &CurrentModel{
				Description:  w.Description,
				Temperature:  w.Temperature,
				FeelsLike:    w.Ressenti,
				Humidity:     w.Humidite,
				WindSpeed:    w.VitesseVent,
				SunriseLocal: w.LeverSoleil,
				SunsetLocal:  w.CoucherSoleil,
				ObservedAt:   w.Dt,
			}
		}
	}

	if m.AirQuality == nil && l.AirPollution != nil {
		m.AirQuality = l.AirPollution
	}

	for i := range m.Forecast {
		if i >= len(l.Forecast) {
			break
		}
		f := &m.Forecast[i]
		old := l.Forecast[i]
		if f.Temperature == nil && old.Temp != nil {
			f.Temperature = old.Temp
		}
		if f.DatetimeLabel == "" && old.Dt != nil {
			f.Timestamp = *old.Dt
			f.DatetimeLabel = time.Unix(*old.Dt, 0).UTC().Format(time.DateTime)
		}
	}

	if m.FetchMeta.Source == "" {
		m.FetchMeta.Source = weather.SourceOpenWeather
	}
	if m.FetchMeta.GeneratedAt.IsZero() {
		m.FetchMeta.GeneratedAt = time.Now().UTC()
	}
}
