package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/metrics"
	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
)

//go:generate mockgen -source=routes.go -destination=mock/mock.go -package=mock ReportFetcher,ReportRecorder

// ReportFetcher builds fresh weather reports.
type ReportFetcher interface {
	Fetch(ctx context.Context, q weather.Query) (*weather.WeatherReport, error)
}

// ReportRecorder validates, persists and lists reports.
type ReportRecorder interface {
	FetchAndSave(ctx context.Context, q weather.Query) (*store.Saved, error)
	Save(ctx context.Context, model *schema.ReportModel) (*store.Saved, error)
	History(ctx context.Context, q store.HistoryQuery) ([]schema.WeatherRecord, error)
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Fetcher  ReportFetcher
	Recorder ReportRecorder
	Metrics  *metrics.Metrics

	// DefaultForecastLimit applies when a request omits forecast_limit.
	// Nil means unlimited.
	DefaultForecastLimit *int

	// DefaultCountry completes history lookups given as a bare city.
	DefaultCountry string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	w := app.Group("/weather")

	w.Get("/", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c, deps.DefaultForecastLimit)
		if err != nil {
			return err
		}

		report, err := deps.Fetcher.Fetch(c.UserContext(), q)
		if err != nil {
			return err
		}

		model, err := schema.ToReportModel(report)
		if err != nil {
			return err
		}
		return c.JSON(model)
	})

	w.Post("/fetch-and-save", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c, deps.DefaultForecastLimit)
		if err != nil {
			return err
		}

		saved, err := deps.Recorder.FetchAndSave(c.UserContext(), q)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(saved.Record)
	})

	w.Post("/", func(c *fiber.Ctx) error {
		model, err := schema.DecodeReportModel(c.Body())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := deps.Recorder.Save(c.UserContext(), model)
		if err != nil {
			if errors.Is(err, weather.ErrSchemaValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(saved.Record)
	})

	w.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c, deps.DefaultCountry); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := deps.Recorder.History(c.UserContext(), req.toStoreQuery())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested location")
			}
			return err
		}

		return c.JSON(fiber.Map{
			"location": req.Location,
			"from":     req.From,
			"to":       req.To,
			"records":  records,
		})
	})

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
}

// ErrorHandler is the centralized Fiber error handler: it maps domain errors
// to status codes and renders {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).WithError(err).Error("request failed")
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, weather.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrExpired):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, weather.ErrUpstreamConnection), errors.Is(err, weather.ErrUpstreamAuth):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, weather.ErrUpstreamServer):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
