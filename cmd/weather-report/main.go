package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-report-service/internal/config"
	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/weather"
	"github.com/i474232898/weather-report-service/internal/weather/providers"
)

func main() {
	var (
		location      = flag.String("location", "", `Place as "City" or "City,CC"`)
		lat           = flag.String("lat", "", "Latitude, with -lon instead of -location")
		lon           = flag.String("lon", "", "Longitude, with -lat instead of -location")
		forecastLimit = flag.String("forecast-limit", "", `Number of forecast entries, or "all"`)
		noForecast    = flag.Bool("no-forecast", false, "Skip the forecast")
		noAir         = flag.Bool("no-air", false, "Skip air quality")
		asJSON        = flag.Bool("json", false, "Print the full report as JSON")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger.SetLevel(cfg.LogLevel)

	q, err := buildQuery(*location, *lat, *lon, *forecastLimit, cfg.ForecastLimitPtr())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(2)
	}
	q.IncludeForecast = !*noForecast
	q.IncludeAir = !*noAir

	client := providers.NewOpenWeatherClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, nil)
	service := weather.NewService(client, weather.Options{
		DefaultCountry: cfg.DefaultCountry,
		Units:          cfg.Units,
		Lang:           cfg.Lang,
	})

	report, err := service.Fetch(context.Background(), q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}
	model, err := schema.ToReportModel(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	display(model, cfg.Lang, unitSymbol(cfg.Units))
}

func buildQuery(location, lat, lon, limit string, def *int) (weather.Query, error) {
	q := weather.Query{IncludeWeather: true, ForecastLimit: def}

	if location != "" {
		loc := weather.ParseLocation(location)
		q.City, q.Country = loc.City, loc.Country
	}
	for _, p := range []struct {
		raw string
		dst **float64
	}{{lat, &q.Lat}, {lon, &q.Lon}} {
		if p.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(p.raw, 64)
		if err != nil {
			return q, fmt.Errorf("invalid coordinate %q", p.raw)
		}
		*p.dst = &v
	}

	switch limit {
	case "":
	case "all":
		q.ForecastLimit = nil
	default:
		n, err := strconv.Atoi(limit)
		if err != nil {
			return q, fmt.Errorf("invalid -forecast-limit %q", limit)
		}
		q.ForecastLimit = &n
	}
	return q, nil
}

func unitSymbol(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "standard":
		return "K"
	default:
		return "°C"
	}
}

func display(m *schema.ReportModel, lang, unit string) {
	title := cases.Title(language.Make(lang))

	name := "unknown place"
	if m.Location.City != nil {
		name = *m.Location.City
		if m.Location.Country != nil {
			name += ", " + *m.Location.Country
		}
	} else if m.Location.Lat != nil && m.Location.Lon != nil {
		name = fmt.Sprintf("%.4f, %.4f", *m.Location.Lat, *m.Location.Lon)
	}

	header := fmt.Sprintf("Weather Summary for %s:", name)
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	if c := m.Current; c != nil {
		fmt.Printf("Conditions:  %s\n", title.String(c.Description))
		fmt.Printf("Temperature: %.1f%s\n", *c.Temperature, unit)
		fmt.Printf("Feels Like:  %.1f%s\n", *c.FeelsLike, unit)
		fmt.Printf("Humidity:    %d%%\n", *c.Humidity)
		fmt.Printf("Wind Speed:  %.1f\n", *c.WindSpeed)
		fmt.Printf("Sun:         %s - %s\n", c.SunriseLocal, c.SunsetLocal)
	}

	if aq := m.AirQuality; aq != nil {
		fmt.Printf("Air Quality: %d/5 (PM2.5 %.1f, PM10 %.1f, O3 %.1f)\n", aq.AQI, aq.Components.PM25, aq.Components.PM10, aq.Components.O3)
	}

	if len(m.Forecast) > 0 {
		fmt.Println()
		for _, f := range m.Forecast {
			fmt.Printf("%s  %-25s %5.1f%s  Humidity: %d%%\n", f.DatetimeLabel, title.String(f.Description), *f.Temperature, unit, f.Humidity)
		}
	}

	fmt.Printf("\n(%s, %.3fs)\n", m.FetchMeta.Source, m.FetchMeta.ElapsedSeconds)
}
