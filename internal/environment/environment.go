// Package environment abstracts the ambient inputs a widget reads: the
// clock, the viewer's color scheme, their location and whether the page is
// framed by another document.
package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrGeolocationUnavailable is returned when no location was supplied.
var ErrGeolocationUnavailable = errors.New("geolocation unavailable")

// ColorScheme is the viewer's preferred color scheme.
type ColorScheme string

// Color schemes.
const (
	SchemeNoPreference ColorScheme = "no-preference"
	SchemeLight        ColorScheme = "light"
	SchemeDark         ColorScheme = "dark"
)

// IsDark reports whether the scheme asks for a dark theme.
func (c ColorScheme) IsDark() bool { return c == SchemeDark }

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinates are finite and in range.
func (c Coordinates) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("coordinates %v,%v are not finite", c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Environment is the capability object handed to renderers and engines in
// place of ambient globals.
type Environment interface {
	Now() time.Time
	// TimeZone is the viewer's zone; wall-clock widgets compute in it.
	TimeZone() *time.Location
	PreferredColorScheme() ColorScheme
	Geolocate(ctx context.Context) (Coordinates, error)
	// IsEmbedded reports whether the widget is framed by another page. It
	// may fail when the answer cannot be determined.
	IsEmbedded() (bool, error)
}

// DetectEmbedded asks env whether it is embedded. Errors and panics both
// count as standalone.
func DetectEmbedded(env Environment) (embedded bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("embed detection panicked, assuming standalone", slog.Any("panic", r))
			embedded = false
		}
	}()

	ok, err := env.IsEmbedded()
	if err != nil {
		slog.Debug("embed detection failed, assuming standalone", slog.Any("error", err))
		return false
	}
	return ok
}

// LocalNow returns env's current time in the viewer's zone.
func LocalNow(env Environment) time.Time {
	loc := env.TimeZone()
	if loc == nil {
		loc = time.Local
	}
	return env.Now().In(loc)
}

// LocateOr returns env's location, or fallback when geolocation fails.
func LocateOr(ctx context.Context, env Environment, fallback Coordinates) (Coordinates, bool) {
	c, err := env.Geolocate(ctx)
	if err != nil {
		return fallback, false
	}
	if err := c.Validate(); err != nil {
		return fallback, false
	}
	return c, true
}
