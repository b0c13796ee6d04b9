package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetd/internal/environment"
)

// Terminal is the Environment of a widget watched in a terminal. It is never
// embedded, and its location is whatever was passed on the command line.
type Terminal struct {
	coords *environment.Coordinates
	dark   func() bool
	clock  func() time.Time
}

var _ environment.Environment = (*Terminal)(nil)

// NewTerminal creates a terminal environment. coords may be nil.
func NewTerminal(coords *environment.Coordinates) *Terminal {
	return &Terminal{
		coords: coords,
		dark:   lipgloss.HasDarkBackground,
		clock:  time.Now,
	}
}

// Now returns the current time.
func (t *Terminal) Now() time.Time { return t.clock() }

// TimeZone is the process's local zone.
func (t *Terminal) TimeZone() *time.Location { return time.Local }

// PreferredColorScheme queries the terminal background.
func (t *Terminal) PreferredColorScheme() environment.ColorScheme {
	if t.dark() {
		return environment.SchemeDark
	}
	return environment.SchemeLight
}

// Geolocate returns the configured coordinates.
func (t *Terminal) Geolocate(ctx context.Context) (environment.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return environment.Coordinates{}, err
	}
	if t.coords == nil {
		return environment.Coordinates{}, environment.ErrGeolocationUnavailable
	}
	return *t.coords, nil
}

// IsEmbedded is always false.
func (t *Terminal) IsEmbedded() (bool, error) { return false, nil }
