package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/weather"
)

// Supported DATABASE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	DefaultCountry string
	Units          string
	Lang           string

	// HTTPTimeout bounds every upstream request of the shared client.
	HTTPTimeout time.Duration

	// ForecastLimit is used when a request does not set one; 0 = unlimited.
	ForecastLimit int

	DatabaseDriver string
	DatabaseDSN    string

	// FetchInterval controls how often we fetch data for each location.
	FetchInterval time.Duration

	// Locations to track.
	Locations []weather.Location

	// In-memory store retention.
	StoreMaxHistory int           // max number of records per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of records (0 = unlimited)

	LogLevel string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
// Every invalid setting is reported in the returned error.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(fmt.Sprintf("no .env file loaded: %v", err))
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	var errs *multierror.Error
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		errs = multierror.Append(errs, errors.New("OPENWEATHER_API_KEY is required"))
	}
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")

	cfg.DefaultCountry = strings.ToUpper(getenvDefault("DEFAULT_COUNTRY", weather.DefaultCountry))
	if len(cfg.DefaultCountry) != 2 {
		errs = multierror.Append(errs, fmt.Errorf("invalid DEFAULT_COUNTRY %q: want a 2-letter code", cfg.DefaultCountry))
	}
	cfg.Units = getenvDefault("UNITS", "metric")
	switch cfg.Units {
	case "metric", "imperial", "standard":
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid UNITS %q", cfg.Units))
	}
	cfg.Lang = strings.ToLower(getenvDefault("OPENWEATHER_LANG", "fr"))

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.ForecastLimit, err = getenvInt("FORECAST_LIMIT", 10); err != nil {
		errs = multierror.Append(errs, err)
	} else if cfg.ForecastLimit < 0 {
		errs = multierror.Append(errs, errors.New("FORECAST_LIMIT must not be negative"))
	}

	cfg.DatabaseDriver = getenvDefault("DATABASE_DRIVER", DriverSQLite)
	switch cfg.DatabaseDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid DATABASE_DRIVER %q", cfg.DatabaseDriver))
	}
	cfg.DatabaseDSN = getenvDefault("DATABASE_DSN", "weather_data.db")

	// Scheduler interval: default 15 minutes.
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 15*time.Minute); err != nil {
		errs = multierror.Append(errs, err)
	}

	// Store retention.
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 96); err != nil { // roughly 24h at 15-minute intervals
		errs = multierror.Append(errs, err)
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		errs = multierror.Append(errs, err)
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadLocations()
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	cfg.Locations = locs

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ForecastLimitPtr returns the default forecast cap, nil meaning unlimited.
func (c *AppConfig) ForecastLimitPtr() *int {
	if c.ForecastLimit == 0 {
		return nil
	}
	n := c.ForecastLimit
	return &n
}

// loadLocations pairs the comma separated city and country lists.
func loadLocations() ([]weather.Location, error) {
	cities := splitList(os.Getenv("WEATHER_LOCATION_CITY"))
	countries := splitList(os.Getenv("WEATHER_LOCATION_COUNTRY"))
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	locs := make([]weather.Location, 0, len(cities))
	for i := range cities {
		locs = append(locs, weather.Location{
			City:    cities[i],
			Country: strings.ToUpper(countries[i]),
		})
	}
	return locs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
