package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultCountry is used when neither the caller nor the configuration
// provide a country code.
const DefaultCountry = "FR"

// Resolver turns a place name into coordinates through the geocoding
// endpoint, or validates coordinates supplied by the caller.
type Resolver struct {
	transport      Transport
	defaultCountry string
}

// NewResolver creates a Resolver. An empty defaultCountry falls back to
// DefaultCountry.
func NewResolver(transport Transport, defaultCountry string) *Resolver {
	country := strings.ToUpper(strings.TrimSpace(defaultCountry))
	if country == "" {
		country = DefaultCountry
	}
	return &Resolver{transport: transport, defaultCountry: country}
}

// Country returns the upper-cased country to use for q.
func (r *Resolver) Country(country string) string {
	c := strings.ToUpper(strings.TrimSpace(country))
	if c == "" {
		return r.defaultCountry
	}
	return c
}

// Resolve returns the coordinates for q. Coordinates given by the caller are
// returned unchanged without any upstream call.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Coordinates, error) {
	if err := validateExclusive(q); err != nil {
		return Coordinates{}, err
	}

	if q.Lat != nil && q.Lon != nil {
		c := Coordinates{Lat: *q.Lat, Lon: *q.Lon}
		if err := ValidateCoordinates(c); err != nil {
			return Coordinates{}, err
		}
		return c, nil
	}

	return r.geocode(ctx, q.City, q.Country)
}

// Reverse looks up the place name for c. Nil values mean the provider had no
// match.
func (r *Resolver) Reverse(ctx context.Context, c Coordinates) (city, country *string, err error) {
	if err := ValidateCoordinates(c); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	params.Set("lat", formatFloat(c.Lat))
	params.Set("lon", formatFloat(c.Lon))
	params.Set("limit", "1")

	body, err := r.transport.Get(ctx, EndpointReverse, params)
	if err != nil {
		return nil, nil, err
	}

	var matches []geocodeMatch
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, nil, &MalformedDataError{Endpoint: EndpointReverse, Field: "[]", Err: err}
	}
	if len(matches) == 0 {
		return nil, nil, nil
	}

	first := matches[0]
	if first.Name != "" {
		name := first.Name
		city = &name
	}
	if first.Country != "" {
		cc := strings.ToUpper(first.Country)
		country = &cc
	}
	return city, country, nil
}

func (r *Resolver) geocode(ctx context.Context, city, country string) (Coordinates, error) {
	country = r.Country(country)
	q := fmt.Sprintf("%s,%s", strings.TrimSpace(city), country)

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", "1")

	body, err := r.transport.Get(ctx, EndpointGeocode, params)
	if err != nil {
		return Coordinates{}, err
	}

	var matches []geocodeMatch
	if err := json.Unmarshal(body, &matches); err != nil {
		return Coordinates{}, &MalformedDataError{Endpoint: EndpointGeocode, Field: "[]", Err: err}
	}
	if len(matches) == 0 {
		return Coordinates{}, fmt.Errorf("%w: city '%s' has no geocoding match", ErrNotFound, q)
	}

	first := matches[0]
	if first.Lat == nil || first.Lon == nil {
		return Coordinates{}, fmt.Errorf("%w: geocoding match for '%s' has no lat/lon", ErrNotFound, q)
	}

	c := Coordinates{Lat: *first.Lat, Lon: *first.Lon}
	if err := ValidateCoordinates(c); err != nil {
		return Coordinates{}, &MalformedDataError{Endpoint: EndpointGeocode, Field: "lat/lon", Err: err}
	}
	return c, nil
}

type geocodeMatch struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(c Coordinates) error {
	// Written as negated ranges so that NaN is rejected.
	if !(c.Lat >= -90 && c.Lat <= 90) {
		return &InputError{Field: "lat", Message: fmt.Sprintf("must be between -90 and 90, got %v", c.Lat)}
	}
	if !(c.Lon >= -180 && c.Lon <= 180) {
		return &InputError{Field: "lon", Message: fmt.Sprintf("must be between -180 and 180, got %v", c.Lon)}
	}
	return nil
}

func validateExclusive(q Query) error {
	hasCity := strings.TrimSpace(q.City) != ""
	if hasCity && (q.Lat != nil || q.Lon != nil) {
		return &InputError{Field: "city", Message: "provide either city (and optionally country) or lat/lon, not both"}
	}
	if !hasCity && (q.Lat == nil || q.Lon == nil) {
		return &InputError{Field: "city", Message: "provide either city or both lat and lon"}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
