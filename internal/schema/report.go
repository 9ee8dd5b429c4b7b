// Package schema validates assembled weather reports before they cross the
// HTTP or persistence boundary and maps them to flat persistence records.
package schema

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-report-service/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// LocationModel is the validated location block.
type LocationModel struct {
	City    *string  `json:"city" validate:"omitempty,min=1"`
	Country *string  `json:"country" validate:"omitempty,len=2,alpha,uppercase"`
	Lat     *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// CurrentModel is the validated current conditions block. Numeric fields are
// pointers so that a missing value is told apart from zero.
type CurrentModel struct {
	Description  string   `json:"description" validate:"required"`
	Temperature  *float64 `json:"temperature" validate:"required"`
	FeelsLike    *float64 `json:"feels_like" validate:"required"`
	Humidity     *int     `json:"humidity" validate:"required,gte=0,lte=100"`
	WindSpeed    *float64 `json:"wind_speed" validate:"required,gte=0"`
	SunriseLocal string   `json:"sunrise_local" validate:"required,datetime=15:04:05"`
	SunsetLocal  string   `json:"sunset_local" validate:"required,datetime=15:04:05"`
	ObservedAt   int64    `json:"observed_at" validate:"required,gt=0"`
}

// ForecastModel is one validated forecast slot.
type ForecastModel struct {
	DatetimeLabel string   `json:"datetime_label" validate:"required"`
	Timestamp     int64    `json:"dt"`
	Description   string   `json:"description" validate:"required"`
	Temperature   *float64 `json:"temperature" validate:"required"`
	Humidity      int      `json:"humidity" validate:"gte=0,lte=100"`
}

// ComponentsModel holds pollutant concentrations in µg/m³.
type ComponentsModel struct {
	CO   float64 `json:"co" validate:"gte=0"`
	NO   float64 `json:"no" validate:"gte=0"`
	NO2  float64 `json:"no2" validate:"gte=0"`
	O3   float64 `json:"o3" validate:"gte=0"`
	SO2  float64 `json:"so2" validate:"gte=0"`
	PM25 float64 `json:"pm2_5" validate:"gte=0"`
	PM10 float64 `json:"pm10" validate:"gte=0"`
	NH3  float64 `json:"nh3" validate:"gte=0"`
}

// AirQualityModel is the validated air quality block.
type AirQualityModel struct {
	AQI        int             `json:"aqi" validate:"required,min=1,max=5"`
	Components ComponentsModel `json:"components"`
}

// FetchMetaModel carries fetch diagnostics.
type FetchMetaModel struct {
	Source         string    `json:"source" validate:"required"`
	ElapsedSeconds float64   `json:"elapsed_seconds" validate:"gte=0"`
	GeneratedAt    time.Time `json:"generated_at" validate:"required"`
}

// ReportModel is the API-facing, validated shape of a weather report.
type ReportModel struct {
	Location   LocationModel    `json:"location"`
	Current    *CurrentModel    `json:"current" validate:"required"`
	Forecast   []ForecastModel  `json:"forecast" validate:"dive"`
	AirQuality *AirQualityModel `json:"air_quality,omitempty"`
	FetchMeta  FetchMetaModel   `json:"fetch_meta"`
}

// Validate checks m against the schema rules.
func (m *ReportModel) Validate() error {
	if m == nil {
		return &weather.SchemaError{Err: errors.New("report is nil")}
	}
	if err := validate.Struct(m); err != nil {
		return &weather.SchemaError{Err: err}
	}
	return nil
}

// ToReportModel maps an assembled report to its validated API model.
func ToReportModel(r *weather.WeatherReport) (*ReportModel, error) {
	if r == nil {
		return nil, &weather.SchemaError{Err: errors.New("report is nil")}
	}

	m := &ReportModel{
		Location: LocationModel{
			City:    r.Location.City,
			Country: r.Location.Country,
			Lat:     r.Location.Lat,
			Lon:     r.Location.Lon,
		},
		Forecast: make([]ForecastModel, 0, len(r.Forecast)),
		FetchMeta: FetchMetaModel{
			Source:         r.FetchMeta.Source,
			ElapsedSeconds: r.FetchMeta.ElapsedSeconds,
			GeneratedAt:    r.FetchMeta.GeneratedAt,
		},
	}

	if c := r.Current; c != nil {
		temp, feels, humidity := c.Temperature, c.FeelsLike, c.Humidity
		m.Current = &CurrentModel{
			Description:  c.Description,
			Temperature:  &temp,
			FeelsLike:    &feels,
			Humidity:     &humidity,
			WindSpeed:    c.WindSpeed,
			SunriseLocal: c.SunriseLocal,
			SunsetLocal:  c.SunsetLocal,
			ObservedAt:   c.ObservedAt,
		}
	}

	for _, f := range r.Forecast {
		temp := f.Temperature
		m.Forecast = append(m.Forecast, ForecastModel{
			DatetimeLabel: f.DatetimeLabel,
			Timestamp:     f.Timestamp,
			Description:   f.Description,
			Temperature:   &temp,
			Humidity:      f.Humidity,
		})
	}

	if aq := r.AirQuality; aq != nil {
		m.AirQuality = &AirQualityModel{
			AQI: aq.AQI,
			Components: ComponentsModel{
				CO:   aq.Components.CO,
				NO:   aq.Components.NO,
				NO2:  aq.Components.NO2,
				O3:   aq.Components.O3,
				SO2:  aq.Components.SO2,
				PM25: aq.Components.PM25,
				PM10: aq.Components.PM10,
				NH3:  aq.Components.NH3,
			},
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
