package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-report-service/internal/api/http"
	"github.com/i474232898/weather-report-service/internal/config"
	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/metrics"
	"github.com/i474232898/weather-report-service/internal/scheduler"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
	"github.com/i474232898/weather-report-service/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(fmt.Errorf("failed to load config: %w", err))
	}
	logger.SetLevel(cfg.LogLevel)

	m := metrics.New()

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, m)
	service := weather.NewService(client, weather.Options{
		DefaultCountry: cfg.DefaultCountry,
		Units:          cfg.Units,
		Lang:           cfg.Lang,
		Metrics:        m,
	})

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer st.Close()

	recorder := store.NewRecorder(service, st, m)

	// Scheduler that periodically fetches and stores data.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, cfg.ForecastLimitPtr(), recorder)
	if err := sched.Start(); err != nil {
		logger.Fatal(fmt.Errorf("failed to start scheduler: %w", err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-report-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-report-service",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Fetcher:              service,
		Recorder:             recorder,
		Metrics:              m,
		DefaultForecastLimit: cfg.ForecastLimitPtr(),
		DefaultCountry:       cfg.DefaultCountry,
	})

	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.DatabaseDriver}).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.L().WithError(err).Warn("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error(fmt.Errorf("error during shutdown: %w", err))
	}
}

func openStore(cfg *config.AppConfig) (store.Store, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		return store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge), nil
	}

	sqlStore, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := sqlStore.Migrate(); err != nil {
		_ = sqlStore.Close()
		return nil, err
	}
	return sqlStore, nil
}
