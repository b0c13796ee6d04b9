package environment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Request parameter and header names read by FromRequest.
const (
	ParamEmbed     = "embed"
	ParamLatitude  = "lat"
	ParamLongitude = "lon"
	ParamTimeZone  = "tz"

	HeaderFetchDest   = "Sec-Fetch-Dest"
	HeaderColorScheme = "Sec-CH-Prefers-Color-Scheme"
)

// Request is the Environment of an HTTP request to a widget page.
type Request struct {
	query  url.Values
	header http.Header
	clock  func() time.Time
}

var _ Environment = (*Request)(nil)

// FromRequest wraps r. A nil clock means time.Now.
func FromRequest(r *http.Request, clock func() time.Time) *Request {
	return FromParts(r.URL.Query(), r.Header, clock)
}

// FromParts builds the environment from already extracted query values and
// headers, for handlers that never see the *http.Request.
func FromParts(query url.Values, header http.Header, clock func() time.Time) *Request {
	if clock == nil {
		clock = time.Now
	}
	if query == nil {
		query = url.Values{}
	}
	if header == nil {
		header = http.Header{}
	}
	return &Request{query: query, header: header, clock: clock}
}

// Now returns the current time.
func (e *Request) Now() time.Time {
	return e.clock()
}

// TimeZone reads the IANA zone name in the tz parameter, which the widget
// script fills from the browser. Missing or unknown zones keep the clock's
// zone, which for time.Now is the server's.
func (e *Request) TimeZone() *time.Location {
	name := strings.TrimSpace(e.query.Get(ParamTimeZone))
	if name == "" {
		return e.clock().Location()
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return e.clock().Location()
	}
	return loc
}

// PreferredColorScheme reads the Sec-CH-Prefers-Color-Scheme client hint.
func (e *Request) PreferredColorScheme() ColorScheme {
	v := strings.Trim(strings.TrimSpace(e.header.Get(HeaderColorScheme)), `"`)
	switch strings.ToLower(v) {
	case "dark":
		return SchemeDark
	case "light":
		return SchemeLight
	default:
		return SchemeNoPreference
	}
}

// Geolocate reads the lat and lon query parameters. Both must be present.
func (e *Request) Geolocate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}

	q := e.query
	latRaw, lonRaw := q.Get(ParamLatitude), q.Get(ParamLongitude)
	if latRaw == "" || lonRaw == "" {
		return Coordinates{}, ErrGeolocationUnavailable
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parsing %s: %w", ParamLatitude, err)
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parsing %s: %w", ParamLongitude, err)
	}

	c := Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// IsEmbedded prefers an explicit embed parameter and otherwise trusts
// Sec-Fetch-Dest. A non-boolean embed value is an error.
func (e *Request) IsEmbedded() (bool, error) {
	if raw, ok := e.query[ParamEmbed]; ok && len(raw) > 0 {
		v, err := strconv.ParseBool(raw[0])
		if err != nil {
			return false, fmt.Errorf("parsing %s parameter: %w", ParamEmbed, err)
		}
		return v, nil
	}
	return strings.EqualFold(e.header.Get(HeaderFetchDest), "iframe"), nil
}

// AcceptLanguage returns the raw Accept-Language header.
func (e *Request) AcceptLanguage() string {
	return e.header.Get("Accept-Language")
}
