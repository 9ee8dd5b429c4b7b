package weather

import (
	"strings"
	"time"
)

// SourceOpenWeather tags reports built from OpenWeatherMap data.
const SourceOpenWeather = "OpenWeather"

// Location is a configured place tracked by the scheduler.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Key returns the natural key used by the stores ("City,CC").
func (l Location) Key() string {
	return l.City + "," + strings.ToUpper(l.Country)
}

// ParseLocation splits "City,CC" into its parts. The country is empty when
// absent so that the resolver can apply its default.
func ParseLocation(s string) Location {
	city, country, _ := strings.Cut(s, ",")
	return Location{
		City:    strings.TrimSpace(city),
		Country: strings.ToUpper(strings.TrimSpace(country)),
	}
}

// Coordinates is a resolved point. Immutable once resolved.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query describes one fetch: either City (with optional Country) or both
// Lat and Lon, never both forms.
type Query struct {
	City    string
	Country string
	Lat     *float64
	Lon     *float64

	IncludeWeather  bool
	IncludeForecast bool
	IncludeAir      bool

	// ForecastLimit caps the forecast length; nil means unlimited.
	ForecastLimit *int
}

// CityQuery builds a query for a place name with every dataset included.
func CityQuery(city, country string, forecastLimit *int) Query {
	return Query{
		City:            city,
		Country:         country,
		IncludeWeather:  true,
		IncludeForecast: true,
		IncludeAir:      true,
		ForecastLimit:   forecastLimit,
	}
}

// CoordinatesQuery builds a query for a point with every dataset included.
func CoordinatesQuery(lat, lon float64, forecastLimit *int) Query {
	return Query{
		Lat:             &lat,
		Lon:             &lon,
		IncludeWeather:  true,
		IncludeForecast: true,
		IncludeAir:      true,
		ForecastLimit:   forecastLimit,
	}
}

// LocationMeta describes where a report applies. City and Country may be nil
// when a reverse lookup failed.
type LocationMeta struct {
	City    *string  `json:"city"`
	Country *string  `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// CurrentConditions is the normalized current weather snapshot.
type CurrentConditions struct {
	Description  string   `json:"description"`
	Temperature  float64  `json:"temperature"`
	FeelsLike    float64  `json:"feels_like"`
	Humidity     int      `json:"humidity"`
	WindSpeed    *float64 `json:"wind_speed"`
	SunriseLocal string   `json:"sunrise_local"`
	SunsetLocal  string   `json:"sunset_local"`
	ObservedAt   int64    `json:"observed_at"`
}

// ForecastEntry is one upstream 3-hour forecast slot.
type ForecastEntry struct {
	DatetimeLabel string  `json:"datetime_label"`
	Timestamp     int64   `json:"dt"`
	Description   string  `json:"description"`
	Temperature   float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
}

// Components holds pollutant concentrations in µg/m³.
type Components struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// AirQualitySnapshot pairs the 1..5 AQI category with its components.
type AirQualitySnapshot struct {
	AQI        int        `json:"aqi"`
	Components Components `json:"components"`
}

// FetchMeta carries diagnostics about how a report was produced.
type FetchMeta struct {
	Source         string    `json:"source"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// WeatherReport is the root aggregate. It is built once per request and
// treated as read-only afterwards.
type WeatherReport struct {
	Location   LocationMeta        `json:"location"`
	Current    *CurrentConditions  `json:"current,omitempty"`
	Forecast   []ForecastEntry     `json:"forecast"`
	AirQuality *AirQualitySnapshot `json:"air_quality,omitempty"`
	FetchMeta  FetchMeta           `json:"fetch_meta"`
}
