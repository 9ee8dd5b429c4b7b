package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
)

type recordingRecorder struct {
	mu      sync.Mutex
	queries []weather.Query
	fail    map[string]bool
}

func (r *recordingRecorder) FetchAndSave(_ context.Context, q weather.Query) (*store.Saved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.fail[q.City] {
		return nil, &weather.UpstreamError{Endpoint: weather.EndpointCurrent, Kind: weather.ErrUpstreamServer, Err: errors.New("500")}
	}
	return &store.Saved{Record: &schema.WeatherRecord{ID: uint(len(r.queries)), LocationName: q.City + "," + q.Country}}, nil
}

func (r *recordingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func TestRunOnce(t *testing.T) {
	limit := 5
	rec := &recordingRecorder{fail: map[string]bool{"Lyon": true}}
	s := New([]weather.Location{
		{City: "Paris", Country: "FR"},
		{City: "Lyon", Country: "FR"},
		{City: "Nice", Country: "FR"},
	}, time.Minute, &limit, rec)

	failed := s.RunOnce(context.Background())
	assert.Equal(t, 1, failed)
	require.Len(t, rec.queries, 3)
	for _, q := range rec.queries {
		assert.True(t, q.IncludeWeather && q.IncludeForecast && q.IncludeAir)
		require.NotNil(t, q.ForecastLimit)
		assert.Equal(t, 5, *q.ForecastLimit)
	}
}

func TestStartWithoutLocations(t *testing.T) {
	rec := &recordingRecorder{}
	s := New(nil, time.Minute, nil, rec)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, rec.count())
}

func TestStartRunsImmediately(t *testing.T) {
	rec := &recordingRecorder{}
	s := New([]weather.Location{{City: "Paris", Country: "FR"}}, time.Hour, nil, rec)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
