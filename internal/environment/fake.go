package environment

import (
	"context"
	"time"
)

// Fake is a scripted Environment for tests.
type Fake struct {
	Time        time.Time
	Zone        *time.Location
	Scheme      ColorScheme
	Location    Coordinates
	LocateErr   error
	Embedded    bool
	EmbedErr    error
	EmbedPanics bool
}

var _ Environment = (*Fake)(nil)

// Now returns f.Time.
func (f *Fake) Now() time.Time { return f.Time }

// TimeZone returns f.Zone, defaulting to UTC.
func (f *Fake) TimeZone() *time.Location {
	if f.Zone == nil {
		return time.UTC
	}
	return f.Zone
}

// PreferredColorScheme returns f.Scheme, defaulting to no preference.
func (f *Fake) PreferredColorScheme() ColorScheme {
	if f.Scheme == "" {
		return SchemeNoPreference
	}
	return f.Scheme
}

// Geolocate returns f.Location or f.LocateErr.
func (f *Fake) Geolocate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if f.LocateErr != nil {
		return Coordinates{}, f.LocateErr
	}
	return f.Location, nil
}

// IsEmbedded returns f.Embedded, f.EmbedErr, or panics when EmbedPanics is
// set, simulating a sandboxed frame.
func (f *Fake) IsEmbedded() (bool, error) {
	if f.EmbedPanics {
		panic("parent frame access denied")
	}
	return f.Embedded, f.EmbedErr
}
