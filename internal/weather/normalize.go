package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// currentPayload mirrors the fields read from /data/2.5/weather. Pointers
// distinguish a missing field from a zero value.
type currentPayload struct {
	Dt       *int64 `json:"dt"`
	Timezone int64  `json:"timezone"`
	Weather  []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

type forecastPayload struct {
	List *[]forecastItem `json:"list"`
}

type forecastItem struct {
	Dt      *int64  `json:"dt"`
	DtTxt   *string `json:"dt_txt"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
}

type airPayload struct {
	List []struct {
		Main *struct {
			AQI *int `json:"aqi"`
		} `json:"main"`
		Components *struct {
			CO   *float64 `json:"co"`
			NO   *float64 `json:"no"`
			NO2  *float64 `json:"no2"`
			O3   *float64 `json:"o3"`
			SO2  *float64 `json:"so2"`
			PM25 *float64 `json:"pm2_5"`
			PM10 *float64 `json:"pm10"`
			NH3  *float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

// LocalClock renders the UTC unix timestamp ts shifted by offsetSeconds as a
// 24-hour "HH:MM:SS" wall clock, without a date.
func LocalClock(ts, offsetSeconds int64) string {
	return time.Unix(ts+offsetSeconds, 0).UTC().Format("15:04:05")
}

// NormalizeCurrent extracts the current conditions from a /data/2.5/weather
// payload. Wind speed and sunrise/sunset are optional here; validation decides
// whether a report without them is acceptable.
func NormalizeCurrent(raw []byte) (CurrentConditions, error) {
	var p currentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "body", err)
	}

	if len(p.Weather) == 0 || p.Weather[0].Description == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "weather[0].description", nil)
	}
	if p.Main == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "main", nil)
	}
	if p.Main.Temp == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "main.temp", nil)
	}
	if p.Main.FeelsLike == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "main.feels_like", nil)
	}
	if p.Main.Humidity == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "main.humidity", nil)
	}
	if p.Dt == nil {
		return CurrentConditions{}, malformed(EndpointCurrent, "dt", nil)
	}

	cur := CurrentConditions{
		Description: *p.Weather[0].Description,
		Temperature: *p.Main.Temp,
		FeelsLike:   *p.Main.FeelsLike,
		Humidity:    int(*p.Main.Humidity),
		ObservedAt:  *p.Dt,
	}
	if p.Wind != nil && p.Wind.Speed != nil {
		speed := *p.Wind.Speed
		cur.WindSpeed = &speed
	}
	if p.Sys != nil {
		if p.Sys.Sunrise != nil {
			cur.SunriseLocal = LocalClock(*p.Sys.Sunrise, p.Timezone)
		}
		if p.Sys.Sunset != nil {
			cur.SunsetLocal = LocalClock(*p.Sys.Sunset, p.Timezone)
		}
	}
	return cur, nil
}

// NormalizeForecast maps every slot of a /data/2.5/forecast payload in
// upstream order, then keeps at most limit entries. A nil limit keeps all.
func NormalizeForecast(raw []byte, limit *int) ([]ForecastEntry, error) {
	var p forecastPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, malformed(EndpointForecast, "body", err)
	}
	if p.List == nil {
		return nil, malformed(EndpointForecast, "list", nil)
	}

	entries := make([]ForecastEntry, 0, len(*p.List))
	for i, item := range *p.List {
		entry, err := normalizeForecastItem(i, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return truncate(entries, limit), nil
}

func normalizeForecastItem(i int, item forecastItem) (ForecastEntry, error) {
	field := func(name string) string { return fmt.Sprintf("list[%d].%s", i, name) }

	if len(item.Weather) == 0 || item.Weather[0].Description == nil {
		return ForecastEntry{}, malformed(EndpointForecast, field("weather[0].description"), nil)
	}
	if item.Main == nil || item.Main.Temp == nil {
		return ForecastEntry{}, malformed(EndpointForecast, field("main.temp"), nil)
	}
	if item.Main.Humidity == nil {
		return ForecastEntry{}, malformed(EndpointForecast, field("main.humidity"), nil)
	}

	entry := ForecastEntry{
		Description: *item.Weather[0].Description,
		Temperature: *item.Main.Temp,
		Humidity:    int(*item.Main.Humidity),
	}
	if item.Dt != nil {
		entry.Timestamp = *item.Dt
	}
	switch {
	case item.DtTxt != nil:
		entry.DatetimeLabel = *item.DtTxt
	case item.Dt != nil:
		entry.DatetimeLabel = time.Unix(*item.Dt, 0).UTC().Format(time.DateTime)
	default:
		return ForecastEntry{}, malformed(EndpointForecast, field("dt_txt"), nil)
	}
	return entry, nil
}

func truncate(entries []ForecastEntry, limit *int) []ForecastEntry {
	if limit == nil || *limit >= len(entries) {
		return entries
	}
	if *limit <= 0 {
		return []ForecastEntry{}
	}
	return entries[:*limit]
}

// NormalizeAirQuality reads the first element of a /data/2.5/air_pollution
// payload.
func NormalizeAirQuality(raw []byte) (AirQualitySnapshot, error) {
	var p airPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return AirQualitySnapshot{}, malformed(EndpointAirPollution, "body", err)
	}
	if len(p.List) == 0 {
		return AirQualitySnapshot{}, malformed(EndpointAirPollution, "list[0]", nil)
	}

	first := p.List[0]
	if first.Main == nil || first.Main.AQI == nil {
		return AirQualitySnapshot{}, malformed(EndpointAirPollution, "list[0].main.aqi", nil)
	}
	if first.Components == nil {
		return AirQualitySnapshot{}, malformed(EndpointAirPollution, "list[0].components", nil)
	}

	c := first.Components
	values := []struct {
		name string
		v    *float64
	}{
		{"co", c.CO}, {"no", c.NO}, {"no2", c.NO2}, {"o3", c.O3},
		{"so2", c.SO2}, {"pm2_5", c.PM25}, {"pm10", c.PM10}, {"nh3", c.NH3},
	}
	for _, v := range values {
		if v.v == nil {
			return AirQualitySnapshot{}, malformed(EndpointAirPollution, "list[0].components."+v.name, nil)
		}
	}

	return AirQualitySnapshot{
		AQI: *first.Main.AQI,
		Components: Components{
			CO:   *c.CO,
			NO:   *c.NO,
			NO2:  *c.NO2,
			O3:   *c.O3,
			SO2:  *c.SO2,
			PM25: *c.PM25,
			PM10: *c.PM10,
			NH3:  *c.NH3,
		},
	}, nil
}

func malformed(endpoint Endpoint, field string, err error) error {
	return &MalformedDataError{Endpoint: endpoint, Field: field, Err: err}
}
