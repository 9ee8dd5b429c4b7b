package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-report-service/internal/logger"
	"github.com/i474232898/weather-report-service/internal/metrics"
	"github.com/i474232898/weather-report-service/internal/weather"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// OpenWeatherClient implements weather.Transport for OpenWeatherMap. It holds
// a handle to a shared *http.Client and never owns its connection pool.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

// NewOpenWeatherClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewOpenWeatherClient(client *http.Client, baseURL, apiKey string, m *metrics.Metrics) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		metrics: m,
	}
}

// Get performs one GET against endpoint with params plus the API key.
func (c *OpenWeatherClient) Get(ctx context.Context, endpoint weather.Endpoint, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, &weather.UpstreamError{Endpoint: endpoint, Kind: weather.ErrUpstreamAuth, Err: errors.New("openweather api key is not configured")}
	}

	values := url.Values{}
	for k, v := range params {
		values[k] = v
	}
	values.Set("appid", c.apiKey)

	u := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &weather.UpstreamError{Endpoint: endpoint, Kind: weather.ErrUpstreamConnection, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	log := logger.WithFields(logrus.Fields{"endpoint": endpoint.Name()})
	log.Debug("GET upstream")

	start := time.Now()
	body, err := doRequest(c.client, endpoint, req)
	c.metrics.ObserveUpstream(endpoint.Name(), outcome(err), time.Since(start))
	if err != nil {
		log.WithError(err).Warn("upstream request failed")
		return nil, err
	}
	return body, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, weather.ErrUpstreamAuth):
		return "auth_error"
	case errors.Is(err, weather.ErrUpstreamServer):
		return "server_error"
	default:
		return "connection_error"
	}
}
