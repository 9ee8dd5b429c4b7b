package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreHistoryNewestFirst(t *testing.T) {
	s := NewMemoryStore(0, 0)

	saveAt(t, s, "Paris", 1700000000)
	saveAt(t, s, "Paris", 1700001800)
	saveAt(t, s, "Paris", 1699998200)
	saveAt(t, s, "Lyon", 1700000000)

	recs, err := s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(1700001800), recs[0].MeasureTimestamp.Unix())
	assert.Equal(t, int64(1700000000), recs[1].MeasureTimestamp.Unix())
	assert.Equal(t, int64(1699998200), recs[2].MeasureTimestamp.Unix())
	assert.NotZero(t, recs[0].ID)
	require.NotNil(t, recs[0].AirQuality)
	assert.Equal(t, recs[0].ID, recs[0].AirQuality.WeatherRecordID)
}

func TestMemoryStoreHistoryRangeAndLimit(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := int64(0); i < 5; i++ {
		saveAt(t, s, "Paris", 1700000000+i*3600)
	}

	recs, err := s.History(context.Background(), HistoryQuery{
		LocationName: "Paris,FR",
		From:         time.Unix(1700003600, 0),
		To:           time.Unix(1700010800, 0),
	})
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR", Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1700014400), recs[0].MeasureTimestamp.Unix())
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_, err := s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	assert.ErrorIs(t, err, ErrNotFound)

	saveAt(t, s, "Paris", 1700000000)
	_, err = s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR", From: time.Unix(1800000000, 0)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := int64(0); i < 4; i++ {
		saveAt(t, s, "Paris", 1700000000+i)
	}

	recs, err := s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1700000003), recs[0].MeasureTimestamp.Unix())
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Unix(1700010000, 0)
	s.now = func() time.Time { return now }

	saveAt(t, s, "Paris", now.Add(-10*time.Minute).Unix())

	// Advancing the clock ages the first record out on the next save.
	now = now.Add(time.Hour)
	saveAt(t, s, "Paris", now.Add(-5*time.Minute).Unix())

	recs, err := s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, now.Add(-5*time.Minute).Unix(), recs[0].MeasureTimestamp.Unix())
}

func TestMemoryStoreRejectsExpiredRecord(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Unix(1700010000, 0)
	s.now = func() time.Time { return now }

	rec, lc := validatedRecord(t, "Paris", now.Add(-2*time.Hour).Unix())
	err := s.Save(context.Background(), rec, lc)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, StateRejected, lc.State())
	assert.Zero(t, rec.ID)

	_, err = s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRequiresValidated(t *testing.T) {
	s := NewMemoryStore(0, 0)
	rec, _ := validatedRecord(t, "Paris", 1700000000)
	lc := NewLifecycle()

	err := s.Save(context.Background(), rec, lc)
	assert.ErrorIs(t, err, ErrNotValidated)
	assert.Equal(t, StateRejected, lc.State())
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore(0, 0)
	rec, lc := validatedRecord(t, "Paris", 1700000000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, rec, lc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateRejected, lc.State())

	_, err = s.History(context.Background(), HistoryQuery{LocationName: "Paris,FR"})
	assert.ErrorIs(t, err, ErrNotFound)
}
