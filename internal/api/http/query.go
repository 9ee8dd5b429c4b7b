package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
)

var validate = validator.New()

// parseWeatherQuery reads location or lat/lon plus the dataset options.
// Exclusivity and coordinate ranges are checked by the resolver.
func parseWeatherQuery(c *fiber.Ctx, defaultLimit *int) (weather.Query, error) {
	q := weather.Query{IncludeWeather: true, ForecastLimit: defaultLimit}

	if raw := c.Query("location"); raw != "" {
		loc := weather.ParseLocation(raw)
		if loc.City == "" {
			return q, &weather.InputError{Field: "location", Message: "expected City or City,CC"}
		}
		q.City, q.Country = loc.City, loc.Country
	}

	var err error
	if q.Lat, err = queryFloat(c, "lat"); err != nil {
		return q, err
	}
	if q.Lon, err = queryFloat(c, "lon"); err != nil {
		return q, err
	}

	if q.IncludeForecast, err = queryBool(c, "include_forecast", true); err != nil {
		return q, err
	}
	if q.IncludeAir, err = queryBool(c, "include_air", true); err != nil {
		return q, err
	}

	switch raw := strings.ToLower(c.Query("forecast_limit")); raw {
	case "":
	case "all":
		q.ForecastLimit = nil
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, &weather.InputError{Field: "forecast_limit", Message: `must be a non-negative integer or "all"`}
		}
		q.ForecastLimit = &n
	}

	return q, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &weather.InputError{Field: key, Message: fmt.Sprintf("%q is not a number", raw)}
	}
	return &v, nil
}

func queryBool(c *fiber.Ctx, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, &weather.InputError{Field: key, Message: fmt.Sprintf("%q is not a boolean", raw)}
	}
	return v, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location weather.Location

	City    string    `validate:"required"`
	Country string    `validate:"required,len=2"`
	From    time.Time
	To      time.Time `validate:"omitempty,gtefield=From"`
	Limit   int       `validate:"gte=0,lte=1000"`
}

// bind reads the query string. A location without a country code gets
// defaultCountry, matching how reports are keyed when they are saved.
func (h *historyQuery) bind(c *fiber.Ctx, defaultCountry string) error {
	raw := c.Query("location")
	if raw == "" {
		return errors.New("location query parameter is required")
	}
	h.Location = weather.ParseLocation(raw)
	if h.Location.Country == "" && h.Location.City != "" {
		h.Location.Country = strings.ToUpper(defaultCountry)
		if h.Location.Country == "" {
			h.Location.Country = weather.DefaultCountry
		}
	}
	h.City, h.Country = h.Location.City, h.Location.Country

	if s := c.Query("from"); s != "" {
		from, err := parseTime(s)
		if err != nil {
			return err
		}
		h.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := parseTime(s)
		if err != nil {
			return err
		}
		h.To = to
	}

	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("limit is not a number: %w", err)
		}
		h.Limit = n
	}
	return nil
}

func (h historyQuery) toStoreQuery() store.HistoryQuery {
	return store.HistoryQuery{
		LocationName: schema.LocationName(h.City, h.Country),
		From:         h.From,
		To:           h.To,
		Limit:        h.Limit,
	}
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
