package weather

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTransport serves canned bodies per endpoint and records every call.
type fakeTransport struct {
	mu     sync.Mutex
	bodies map[Endpoint][]byte
	errs   map[Endpoint]error
	calls  []fakeCall
}

type fakeCall struct {
	endpoint Endpoint
	params   url.Values
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bodies: map[Endpoint][]byte{}, errs: map[Endpoint]error{}}
}

func (f *fakeTransport) Get(_ context.Context, endpoint Endpoint, params url.Values) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fakeCall{endpoint: endpoint, params: params})
	if err := f.errs[endpoint]; err != nil {
		return nil, err
	}
	return f.bodies[endpoint], nil
}

func (f *fakeTransport) count(endpoint Endpoint) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if c.endpoint == endpoint {
			n++
		}
	}
	return n
}

func (f *fakeTransport) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) paramsFor(endpoint Endpoint) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.calls {
		if c.endpoint == endpoint {
			return c.params
		}
	}
	return nil
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

// parisTransport answers every endpoint with the Paris fixtures.
func parisTransport(t *testing.T) *fakeTransport {
	f := newFakeTransport()
	f.bodies[EndpointGeocode] = fixture(t, "geocode_paris.json")
	f.bodies[EndpointReverse] = fixture(t, "reverse_paris.json")
	f.bodies[EndpointCurrent] = fixture(t, "current_paris.json")
	f.bodies[EndpointForecast] = fixture(t, "forecast_paris.json")
	f.bodies[EndpointAirPollution] = fixture(t, "air_paris.json")
	return f
}

func ptr[T any](v T) *T { return &v }
