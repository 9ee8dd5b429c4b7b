package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
)

// jobTimeout bounds one fetch-and-save of a single location.
const jobTimeout = 30 * time.Second

// Recorder is implemented by *store.Recorder.
type Recorder interface {
	FetchAndSave(ctx context.Context, q weather.Query) (*store.Saved, error)
}

// Scheduler periodically fetches and persists reports for configured locations.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	recorder      Recorder
	locations     []weather.Location
	interval      time.Duration
	forecastLimit *int
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, forecastLimit *int, recorder Recorder) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:     s,
		recorder:      recorder,
		locations:     locations,
		interval:      interval,
		forecastLimit: forecastLimit,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce fetches and saves every location concurrently and returns the
// number of locations that failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	logger.Info("scheduler: running weather fetch job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc weather.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			log := logger.WithFields(logrus.Fields{"location": loc.Key()})
			saved, err := s.recorder.FetchAndSave(ctx, weather.CityQuery(loc.City, loc.Country, s.forecastLimit))
			if err != nil {
				log.WithError(err).Warn("scheduler: fetch-and-save failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.WithField("id", saved.Record.ID).Debug("scheduler: record saved")
		}(loc)
	}
	wg.Wait()

	logger.WithFields(logrus.Fields{"locations": len(s.locations), "failed": failed}).
		Info("scheduler: completed weather fetch job")
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
