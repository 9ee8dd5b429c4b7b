package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-report-service/internal/schema"
)

// recordHistory holds the records of one location ordered by measure time.
type recordHistory struct {
	records []schema.WeatherRecord
}

// MemoryStore is a concurrency-safe in-memory Store, used when no database
// is configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint

	// key: location name, value: history
	data map[string]*recordHistory

	// retention configuration
	maxHistory int           // max number of records per location
	maxAge     time.Duration // optional max age, measured against MeasureTimestamp

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*recordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends rec for its location and enforces retention.
func (s *MemoryStore) Save(ctx context.Context, rec *schema.WeatherRecord, lc *Lifecycle) error {
	if err := checkValidated(lc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		lc.reject()
		return err
	}
	if s.maxAge > 0 && rec.MeasureTimestamp.Before(s.now().Add(-s.maxAge)) {
		lc.reject()
		return ErrExpired
	}
	if err := lc.Advance(StateStaged); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = s.nextID
	rec.CreatedAt = s.now().UTC()
	stored := *rec
	if rec.AirQuality != nil {
		rec.AirQuality.WeatherRecordID = rec.ID
		aq := *rec.AirQuality
		stored.AirQuality = &aq
	}

	history, ok := s.data[rec.LocationName]
	if !ok {
		history = &recordHistory{}
		s.data[rec.LocationName] = history
	}

	i := sort.Search(len(history.records), func(i int) bool {
		return history.records[i].MeasureTimestamp.After(stored.MeasureTimestamp)
	})
	history.records = append(history.records, schema.WeatherRecord{})
	copy(history.records[i+1:], history.records[i:])
	history.records[i] = stored

	s.enforceRetention(history)

	return lc.Advance(StateCommitted)
}

func (s *MemoryStore) enforceRetention(history *recordHistory) {
	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.records) > s.maxHistory {
		over := len(history.records) - s.maxHistory
		history.records = history.records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.records); i++ {
			if !history.records[i].MeasureTimestamp.Before(cutoff) {
				break
			}
		}
		history.records = history.records[i:]
	}
}

// History returns matching records, newest first.
func (s *MemoryStore) History(_ context.Context, q HistoryQuery) ([]schema.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[q.LocationName]
	if !ok || len(history.records) == 0 {
		return nil, ErrNotFound
	}

	var result []schema.WeatherRecord
	for i := len(history.records) - 1; i >= 0; i-- {
		rec := history.records[i]
		if !q.contains(rec.MeasureTimestamp) {
			continue
		}
		if rec.AirQuality != nil {
			aq := *rec.AirQuality
			rec.AirQuality = &aq
		}
		result = append(result, rec)
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
