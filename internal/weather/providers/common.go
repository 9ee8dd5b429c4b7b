package providers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/i474232898/weather-report-service/internal/weather"
)

// maxBodyBytes bounds how much of an upstream body is read.
const maxBodyBytes = 4 << 20

var (
	errNoHTTPClient = errors.New("http client not configured")
	errStatus       = errors.New("unexpected status code")
)

// doRequest executes req once. Transport failures, timeouts included, become
// connection errors; non-2xx statuses are classified by classifyStatus.
func doRequest(client *http.Client, endpoint weather.Endpoint, req *http.Request) ([]byte, error) {
	if client == nil {
		return nil, &weather.UpstreamError{Endpoint: endpoint, Kind: weather.ErrUpstreamConnection, Err: errNoHTTPClient}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &weather.UpstreamError{Endpoint: endpoint, Kind: weather.ErrUpstreamConnection, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &weather.UpstreamError{Endpoint: endpoint, Kind: weather.ErrUpstreamConnection, Err: fmt.Errorf("read body: %w", err)}
	}

	if kind := classifyStatus(resp.StatusCode); kind != nil {
		return nil, &weather.UpstreamError{
			Endpoint:   endpoint,
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", errStatus, snippet(body)),
		}
	}

	return body, nil
}

// classifyStatus returns nil for 2xx responses.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return weather.ErrUpstreamAuth
	default:
		return weather.ErrUpstreamServer
	}
}

func snippet(body []byte) string {
	const limit = 300
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
