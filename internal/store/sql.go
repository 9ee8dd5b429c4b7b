package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/schema"
)

// DialectorFactory builds a gorm.Dialector from a DSN.
type DialectorFactory func(dsn string) gorm.Dialector

var dialectors = map[string]DialectorFactory{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

// SQLStore keeps records in a relational database through gorm.
type SQLStore struct {
	db *gorm.DB
}

// Open connects to driver ("sqlite" or "postgres") at dsn.
func Open(driver, dsn string) (*SQLStore, error) {
	factory, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s", driver)
	}

	db, err := gorm.Open(factory(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return NewSQLStore(db), nil
}

// NewSQLStore wraps an already opened connection.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates or updates the record tables and their index.
func (s *SQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&schema.WeatherRecord{}, &schema.AirQualityRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Save inserts rec and its air quality row in one transaction.
func (s *SQLStore) Save(ctx context.Context, rec *schema.WeatherRecord, lc *Lifecycle) error {
	if err := checkValidated(lc); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return lc.Advance(StateStaged)
	})
	if err != nil {
		rec.ID = 0
		if rec.AirQuality != nil {
			rec.AirQuality.WeatherRecordID = 0
		}
		lc.reject()
		logger.WithFields(logrus.Fields{"location": rec.LocationName}).WithError(err).Warn("store: transaction rolled back")
		return fmt.Errorf("save weather record: %w", err)
	}

	return lc.Advance(StateCommitted)
}

// History returns records of q.LocationName ordered by measure time, newest first.
func (s *SQLStore) History(ctx context.Context, q HistoryQuery) ([]schema.WeatherRecord, error) {
	tx := s.db.WithContext(ctx).
		Preload("AirQuality").
		Where("location_name = ?", q.LocationName)
	if !q.From.IsZero() {
		tx = tx.Where("measure_timestamp >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		tx = tx.Where("measure_timestamp <= ?", q.To.UTC())
	}
	tx = tx.Order("measure_timestamp DESC").Order("id DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var records []schema.WeatherRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
