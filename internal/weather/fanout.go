package weather

import (
	"context"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// Include selects which upstream datasets a fan-out requests.
type Include struct {
	Current    bool
	Forecast   bool
	AirQuality bool
}

// Any reports whether at least one dataset is selected.
func (i Include) Any() bool {
	return i.Current || i.Forecast || i.AirQuality
}

// RawPayloads holds the undecoded upstream bodies. A nil slice means the
// dataset was not requested.
type RawPayloads struct {
	Current    []byte
	Forecast   []byte
	AirQuality []byte
}

// fanOut issues the selected upstream calls concurrently. The first failure
// cancels the others; the join still waits for every call to return before
// reporting that failure. Each call writes to its own field, so no locking is
// needed.
func fanOut(ctx context.Context, t Transport, c Coordinates, inc Include, units, lang string) (RawPayloads, time.Duration, error) {
	var raw RawPayloads

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	if inc.Current {
		g.Go(func() error {
			body, err := t.Get(gctx, EndpointCurrent, weatherParams(c, units, lang))
			raw.Current = body
			return err
		})
	}
	if inc.Forecast {
		g.Go(func() error {
			body, err := t.Get(gctx, EndpointForecast, weatherParams(c, units, lang))
			raw.Forecast = body
			return err
		})
	}
	if inc.AirQuality {
		g.Go(func() error {
			body, err := t.Get(gctx, EndpointAirPollution, coordParams(c))
			raw.AirQuality = body
			return err
		})
	}

	err := g.Wait()
	elapsed := time.Since(start)
	if err != nil {
		return RawPayloads{}, elapsed, err
	}
	return raw, elapsed, nil
}

func coordParams(c Coordinates) url.Values {
	params := url.Values{}
	params.Set("lat", formatFloat(c.Lat))
	params.Set("lon", formatFloat(c.Lon))
	return params
}

func weatherParams(c Coordinates, units, lang string) url.Values {
	params := coordParams(c)
	if units != "" {
		params.Set("units", units)
	}
	if lang != "" {
		params.Set("lang", lang)
	}
	return params
}
