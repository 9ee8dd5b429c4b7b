package schema

import (
	"errors"
	"time"

	"github.com/i474232898/weather-report-service/internal/weather"
)

// WeatherRecord is the flattened persistence projection of a report, keyed
// by (location_name, measure_timestamp) for ordered history lookups.
type WeatherRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LocationName     string    `gorm:"not null;index:weather_record_idx,priority:1" json:"location_name"`
	Lat              *float64  `json:"lat"`
	Lon              *float64  `json:"lon"`
	MeasureTimestamp time.Time `gorm:"not null;index:weather_record_idx,priority:2" json:"measure_timestamp"`
	CurrentTemp      float64   `json:"current_temp"`
	FeelsLike        float64   `json:"feels_like"`
	Humidity         int       `json:"humidity"`
	WindSpeed        float64   `json:"wind_speed"`
	Description      string    `json:"description"`
	SunriseTime      string    `json:"sunrise_time"`
	SunsetTime       string    `json:"sunset_time"`
	CreatedAt        time.Time `json:"created_at"`

	AirQuality *AirQualityRecord `gorm:"foreignKey:WeatherRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"air_quality,omitempty"`
}

// TableName specifies the table name for WeatherRecord.
func (WeatherRecord) TableName() string {
	return "weather_records"
}

// AirQualityRecord is the one-to-one air quality row of a WeatherRecord.
type AirQualityRecord struct {
	WeatherRecordID uint    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	AQI             int     `gorm:"column:aqi" json:"aqi"`
	CO              float64 `gorm:"column:co" json:"co"`
	NO              float64 `gorm:"column:no" json:"no"`
	NO2             float64 `gorm:"column:no2" json:"no2"`
	O3              float64 `gorm:"column:o3" json:"o3"`
	SO2             float64 `gorm:"column:so2" json:"so2"`
	PM25            float64 `gorm:"column:pm2_5" json:"pm2_5"`
	PM10            float64 `gorm:"column:pm10" json:"pm10"`
	NH3             float64 `gorm:"column:nh3" json:"nh3"`
}

// TableName specifies the table name for AirQualityRecord.
func (AirQualityRecord) TableName() string {
	return "air_pollution_records"
}

// LocationName builds the natural key "City,CC".
func LocationName(city, country string) string {
	return city + "," + country
}

// ToPersistenceRecord flattens a validated report. The report must carry a
// city and a country to derive its location key.
func ToPersistenceRecord(m *ReportModel) (*WeatherRecord, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	loc := m.Location
	if loc.City == nil || *loc.City == "" || loc.Country == nil || *loc.Country == "" {
		return nil, &weather.SchemaError{Err: errors.New("location city and country are required to build the record key")}
	}

	cur := m.Current
	rec := &WeatherRecord{
		LocationName:     LocationName(*loc.City, *loc.Country),
		Lat:              loc.Lat,
		Lon:              loc.Lon,
		MeasureTimestamp: time.Unix(cur.ObservedAt, 0).UTC(),
		CurrentTemp:      *cur.Temperature,
		FeelsLike:        *cur.FeelsLike,
		Humidity:         *cur.Humidity,
		WindSpeed:        *cur.WindSpeed,
		Description:      cur.Description,
		SunriseTime:      cur.SunriseLocal,
		SunsetTime:       cur.SunsetLocal,
	}

	if aq := m.AirQuality; aq != nil {
		rec.AirQuality = &AirQualityRecord{
			AQI:  aq.AQI,
			CO:   aq.Components.CO,
			NO:   aq.Components.NO,
			NO2:  aq.Components.NO2,
			O3:   aq.Components.O3,
			SO2:  aq.Components.SO2,
			PM25: aq.Components.PM25,
			PM10: aq.Components.PM10,
			NH3:  aq.Components.NH3,
		}
	}
	return rec, nil
}
