// Package store persists validated weather records and serves their history.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/weather-report-service/internal/schema"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")

	// ErrNotValidated is returned by Save for a lifecycle not in VALIDATED.
	ErrNotValidated = errors.New("record has not been validated")

	// ErrExpired is returned by Save for a record already outside the
	// store's retention window.
	ErrExpired = errors.New("record is older than the retention window")
)

// HistoryQuery selects stored records of one location. Zero From/To leave the
// range open; Limit <= 0 means no limit.
type HistoryQuery struct {
	LocationName string
	From         time.Time
	To           time.Time
	Limit        int
}

func (q HistoryQuery) contains(ts time.Time) bool {
	if !q.From.IsZero() && ts.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && ts.After(q.To) {
		return false
	}
	return true
}

// Store is implemented by SQLStore and MemoryStore.
type Store interface {
	// Save stages rec and commits it, advancing lc to COMMITTED, or leaves
	// nothing behind and advances lc to REJECTED.
	Save(ctx context.Context, rec *schema.WeatherRecord, lc *Lifecycle) error
	// History returns matching records, newest first, or ErrNotFound.
	History(ctx context.Context, q HistoryQuery) ([]schema.WeatherRecord, error)
	Close() error
}

func checkValidated(lc *Lifecycle) error {
	if lc.State() != StateValidated {
		lc.reject()
		return ErrNotValidated
	}
	return nil
}
