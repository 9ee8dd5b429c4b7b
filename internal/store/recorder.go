package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/metrics"
	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/weather"
)

// Fetcher is implemented by *weather.Service.
type Fetcher interface {
	Fetch(ctx context.Context, q weather.Query) (*weather.WeatherReport, error)
}

// Saved is the outcome of a successful persist.
type Saved struct {
	Record    *schema.WeatherRecord
	Model     *schema.ReportModel
	Lifecycle *Lifecycle
}

// Recorder drives reports through validation and storage.
type Recorder struct {
	fetcher Fetcher
	store   Store
	metrics *metrics.Metrics
}

// NewRecorder creates a Recorder. m may be nil.
func NewRecorder(f Fetcher, s Store, m *metrics.Metrics) *Recorder {
	return &Recorder{fetcher: f, store: s, metrics: m}
}

// FetchAndSave fetches a report for q, validates it and persists it.
func (r *Recorder) FetchAndSave(ctx context.Context, q weather.Query) (*Saved, error) {
	report, err := r.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	lc := NewLifecycle()
	model, err := schema.ToReportModel(report)
	if err != nil {
		return nil, r.rejected(lc, err)
	}
	return r.persist(ctx, model, lc)
}

// Save validates and persists a report supplied by a client.
func (r *Recorder) Save(ctx context.Context, model *schema.ReportModel) (*Saved, error) {
	lc := NewLifecycle()
	if err := model.Validate(); err != nil {
		return nil, r.rejected(lc, err)
	}
	return r.persist(ctx, model, lc)
}

// History proxies to the store.
func (r *Recorder) History(ctx context.Context, q HistoryQuery) ([]schema.WeatherRecord, error) {
	return r.store.History(ctx, q)
}

func (r *Recorder) persist(ctx context.Context, model *schema.ReportModel, lc *Lifecycle) (*Saved, error) {
	if err := lc.Advance(StateValidated); err != nil {
		return nil, err
	}

	rec, err := schema.ToPersistenceRecord(model)
	if err != nil {
		return nil, r.rejected(lc, err)
	}

	if err := r.store.Save(ctx, rec, lc); err != nil {
		r.metrics.ObserveReport(string(lc.State()))
		return nil, err
	}
	r.metrics.ObserveReport(string(StateCommitted))

	logger.WithFields(logrus.Fields{
		"location":          rec.LocationName,
		"id":                rec.ID,
		"measure_timestamp": rec.MeasureTimestamp,
	}).Info("weather record committed")

	return &Saved{Record: rec, Model: model, Lifecycle: lc}, nil
}

func (r *Recorder) rejected(lc *Lifecycle, err error) error {
	lc.reject()
	r.metrics.ObserveReport(string(StateRejected))
	return err
}
