package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-report-service/internal/api/http/mock"
	"github.com/i474232898/weather-report-service/internal/metrics"
	"github.com/i474232898/weather-report-service/internal/schema"
	"github.com/i474232898/weather-report-service/internal/store"
	"github.com/i474232898/weather-report-service/internal/weather"
)

func ptr[T any](v T) *T { return &v }

func sampleReport() *weather.WeatherReport {
	return &weather.WeatherReport{
		Location: weather.LocationMeta{City: ptr("Paris"), Country: ptr("FR"), Lat: ptr(48.8589), Lon: ptr(2.32)},
		Current: &weather.CurrentConditions{
			Description:  "ciel dégagé",
			Temperature:  12.98,
			FeelsLike:    12.1,
			Humidity:     71,
			WindSpeed:    ptr(3.6),
			SunriseLocal: "07:58:12",
			SunsetLocal:  "18:41:03",
			ObservedAt:   1700000000,
		},
		Forecast: []weather.ForecastEntry{},
		FetchMeta: weather.FetchMeta{
			Source:      weather.SourceOpenWeather,
			GeneratedAt: time.Unix(1700000000, 0).UTC(),
		},
	}
}

type testServer struct {
	app      *fiber.App
	fetcher  *mock.MockReportFetcher
	recorder *mock.MockReportRecorder
}

func newTestServer(t *testing.T, defaultLimit *int) *testServer {
	ctrl := gomock.NewController(t)
	s := &testServer{
		app:      fiber.New(fiber.Config{ErrorHandler: ErrorHandler}),
		fetcher:  mock.NewMockReportFetcher(ctrl),
		recorder: mock.NewMockReportRecorder(ctrl),
	}
	RegisterRoutes(s.app, Deps{
		Fetcher:              s.fetcher,
		Recorder:             s.recorder,
		Metrics:              metrics.New(),
		DefaultForecastLimit: defaultLimit,
		DefaultCountry:       "FR",
	})
	return s
}

func (s *testServer) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestGetWeather(t *testing.T) {
	s := newTestServer(t, ptr(10))
	s.fetcher.EXPECT().
		Fetch(gomock.Any(), weather.CityQuery("Paris", "FR", ptr(10))).
		Return(sampleReport(), nil)

	code, body := s.do(t, http.MethodGet, "/weather?location=Paris,fr", "")
	require.Equal(t, http.StatusOK, code)

	current := body["current"].(map[string]any)
	assert.Equal(t, 12.98, current["temperature"])
	assert.NotContains(t, body, "air_quality")
}

func TestGetWeatherOptions(t *testing.T) {
	s := newTestServer(t, ptr(10))
	want := weather.CoordinatesQuery(48.85, 2.35, nil)
	want.IncludeAir = false
	s.fetcher.EXPECT().Fetch(gomock.Any(), want).Return(sampleReport(), nil)

	code, _ := s.do(t, http.MethodGet, "/weather?lat=48.85&lon=2.35&forecast_limit=all&include_air=false", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestGetWeatherBadQuery(t *testing.T) {
	for _, target := range []string{
		"/weather?location=Paris&forecast_limit=-1",
		"/weather?location=Paris&forecast_limit=many",
		"/weather?lat=north&lon=2",
		"/weather?location=Paris&include_air=maybe",
		"/weather?location=,FR",
	} {
		t.Run(target, func(t *testing.T) {
			s := newTestServer(t, nil)
			code, body := s.do(t, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestGetWeatherErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", &weather.InputError{Field: "lat", Message: "out of range"}, http.StatusBadRequest},
		{"geocode miss", fmt.Errorf("%w: Nowhereville,ZZ", weather.ErrNotFound), http.StatusNotFound},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
		{"connection", &weather.UpstreamError{Endpoint: weather.EndpointCurrent, Kind: weather.ErrUpstreamConnection, Err: context.DeadlineExceeded}, http.StatusServiceUnavailable},
		{"auth", &weather.UpstreamError{Endpoint: weather.EndpointCurrent, Kind: weather.ErrUpstreamAuth, StatusCode: 401}, http.StatusServiceUnavailable},
		{"server", &weather.UpstreamError{Endpoint: weather.EndpointForecast, Kind: weather.ErrUpstreamServer, StatusCode: 500}, http.StatusBadGateway},
		{"malformed", &weather.MalformedDataError{Endpoint: weather.EndpointCurrent, Field: "main.temp"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			code, body := s.do(t, http.MethodGet, "/weather?location=Paris,FR", "")
			assert.Equal(t, tt.want, code)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestGetWeatherInvalidReport(t *testing.T) {
	s := newTestServer(t, nil)
	report := sampleReport()
	report.Current.Humidity = 150
	s.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(report, nil)

	code, _ := s.do(t, http.MethodGet, "/weather?location=Paris,FR", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestFetchAndSave(t *testing.T) {
	s := newTestServer(t, nil)
	rec := &schema.WeatherRecord{ID: 7, LocationName: "Paris,FR", CurrentTemp: 12.98}
	s.recorder.EXPECT().
		FetchAndSave(gomock.Any(), weather.CityQuery("Paris", "FR", nil)).
		Return(&store.Saved{Record: rec}, nil)

	code, body := s.do(t, http.MethodPost, "/weather/fetch-and-save?location=Paris,FR", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 7.0, body["id"])
	assert.Equal(t, "Paris,FR", body["location_name"])
}

func TestFetchAndSaveUpstreamDown(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().FetchAndSave(gomock.Any(), gomock.Any()).
		Return(nil, &weather.UpstreamError{Endpoint: weather.EndpointAirPollution, Kind: weather.ErrUpstreamConnection})

	code, _ := s.do(t, http.MethodPost, "/weather/fetch-and-save?location=Paris,FR", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestSaveClientReport(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *schema.ReportModel) (*store.Saved, error) {
			assert.Equal(t, 9.5, *m.Current.Temperature)
			return &store.Saved{Record: &schema.WeatherRecord{ID: 1, LocationName: "Paris,FR"}}, nil
		})

	body := `{"location": {"city": "Paris", "country": "FR"},
		"current": {"description": "pluie", "temperature": 9.5, "feels_like": 7, "humidity": 88,
			"wind_speed": 5, "sunrise_local": "08:01:00", "sunset_local": "17:30:00", "observed_at": 1700000000}}`
	code, _ := s.do(t, http.MethodPost, "/weather", body)
	assert.Equal(t, http.StatusCreated, code)
}

func TestSaveClientReportInvalid(t *testing.T) {
	s := newTestServer(t, nil)

	code, body := s.do(t, http.MethodPost, "/weather", `{"location": {"city": "Paris"}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, true, body["error"])
}

func TestSaveClientReportExpired(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, store.ErrExpired)

	body := `{"location": {"city": "Paris", "country": "FR"},
		"current": {"description": "pluie", "temperature": 9.5, "feels_like": 7, "humidity": 88,
			"wind_speed": 5, "sunrise_local": "08:01:00", "sunset_local": "17:30:00", "observed_at": 1000000000}}`
	code, _ := s.do(t, http.MethodPost, "/weather", body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestHistory(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().
		History(gomock.Any(), store.HistoryQuery{
			LocationName: "Paris,FR",
			From:         time.Unix(1700000000, 0).UTC(),
			Limit:        5,
		}).
		Return([]schema.WeatherRecord{{ID: 2, LocationName: "Paris,FR"}, {ID: 1, LocationName: "Paris,FR"}}, nil)

	code, body := s.do(t, http.MethodGet, "/weather/history?location=Paris,FR&from=1700000000&limit=5", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["records"], 2)
}

func TestHistoryDefaultCountry(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().
		History(gomock.Any(), store.HistoryQuery{LocationName: "Paris,FR"}).
		Return([]schema.WeatherRecord{{ID: 1, LocationName: "Paris,FR"}}, nil)

	code, body := s.do(t, http.MethodGet, "/weather/history?location=Paris", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["records"], 1)
}

func TestHistoryValidation(t *testing.T) {
	for _, target := range []string{
		"/weather/history",
		"/weather/history?location=Paris,FRA",
		"/weather/history?location=Paris,FR&from=yesterday",
		"/weather/history?location=Paris,FR&from=1700003600&to=1700000000",
		"/weather/history?location=Paris,FR&limit=-2",
	} {
		t.Run(target, func(t *testing.T) {
			s := newTestServer(t, nil)
			code, _ := s.do(t, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestHistoryNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	s.recorder.EXPECT().History(gomock.Any(), gomock.Any()).Return(nil, store.ErrNotFound)

	code, _ := s.do(t, http.MethodGet, "/weather/history?location=Paris,FR", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "go_goroutines")
}
