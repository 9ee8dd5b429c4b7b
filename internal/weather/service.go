package weather

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/metrics"
)

// Options configures a Service. It is built once at startup.
type Options struct {
	DefaultCountry string
	Units          string
	Lang           string
	Metrics        *metrics.Metrics
}

// Service resolves a location, fans out to the upstream endpoints and
// assembles the normalized report.
type Service struct {
	transport Transport
	resolver  *Resolver
	units     string
	lang      string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a new Service on top of a shared transport.
func NewService(transport Transport, opts Options) *Service {
	return &Service{
		transport: transport,
		resolver:  NewResolver(transport, opts.DefaultCountry),
		units:     opts.Units,
		lang:      opts.Lang,
		metrics:   opts.Metrics,
		now:       time.Now,
	}
}

// Resolver exposes the coordinate resolver used by the service.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Fetch builds a fresh report for q. Any failing upstream call fails the
// whole report; only the reverse lookup for coordinate queries is best-effort.
func (s *Service) Fetch(ctx context.Context, q Query) (*WeatherReport, error) {
	inc := Include{Current: q.IncludeWeather, Forecast: q.IncludeForecast, AirQuality: q.IncludeAir}
	if !inc.Any() {
		return nil, &InputError{Field: "include", Message: "at least one of weather, forecast or air quality must be requested"}
	}
	if q.ForecastLimit != nil && *q.ForecastLimit < 0 {
		return nil, &InputError{Field: "forecast_limit", Message: "must not be negative"}
	}

	coords, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{"lat": coords.Lat, "lon": coords.Lon, "city": q.City})

	raw, elapsed, err := fanOut(ctx, s.transport, coords, inc, s.units, s.lang)
	s.metrics.ObserveFanout(elapsed)
	if err != nil {
		log.WithError(err).Warn("upstream fan-out failed")
		return nil, err
	}
	log.WithField("elapsed", elapsed.String()).Debug("upstream fan-out completed")

	n, err := normalizeAll(raw, inc, q.ForecastLimit)
	if err != nil {
		log.WithError(err).Error("upstream payload could not be normalized")
		return nil, err
	}

	loc := s.locationMeta(ctx, q, coords)
	return assembleReport(loc, n, elapsed, s.now()), nil
}

func (s *Service) locationMeta(ctx context.Context, q Query, coords Coordinates) LocationMeta {
	lat, lon := coords.Lat, coords.Lon
	meta := LocationMeta{Lat: &lat, Lon: &lon}

	if q.City != "" {
		city := q.City
		country := s.resolver.Country(q.Country)
		meta.City = &city
		meta.Country = &country
		return meta
	}

	city, country, err := s.resolver.Reverse(ctx, coords)
	if err != nil {
		logger.WithFields(logrus.Fields{"lat": lat, "lon": lon}).
			WithError(err).Warn("reverse geocoding failed, location left partial")
		return meta
	}
	meta.City = city
	meta.Country = country
	return meta
}
