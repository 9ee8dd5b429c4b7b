package weather

import (
	"context"
	"net/url"
)

// Transport performs GET requests against the upstream provider and returns
// the raw JSON body. Implementations translate failures into *UpstreamError.
type Transport interface {
	Get(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error)

// Get calls f.
func (f TransportFunc) Get(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error) {
	return f(ctx, endpoint, params)
}
