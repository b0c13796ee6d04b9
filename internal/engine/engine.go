// Package engine derives per-widget display state from the current time.
//
// Every engine is a pure function of now and a handful of parameters. The
// Ticker in this package is the only piece that deals with scheduling.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jmylchreest/widgetd/internal/widget"
)

// ErrUnknownKind is returned by Compute for kinds that have no time engine.
var ErrUnknownKind = errors.New("no engine for widget kind")

// DisplayState is the result of one computation. Exactly one of the
// per-kind fields is set, matching Kind.
type DisplayState struct {
	Kind         widget.Kind     `json:"kind"`
	At           time.Time       `json:"at"`
	Clock        *ClockState     `json:"clock,omitempty"`
	Calendar     *CalendarState  `json:"calendar,omitempty"`
	Countdown    *CountdownState `json:"countdown,omitempty"`
	YearProgress *ProgressState  `json:"year_progress,omitempty"`
	Quote        *QuoteState     `json:"quote,omitempty"`
	Pomodoro     *PomodoroView   `json:"pomodoro,omitempty"`
}

// Params carries the inputs some engines need besides now.
type Params struct {
	CountdownTarget time.Time
	QuoteSchedule   cron.Schedule
	Quotes          []QuoteEntry
	// Pomodoro is the timer to report; nil means a fresh work session.
	Pomodoro *Pomodoro
}

// DefaultCountdownTarget is New Year 2025 in the given location.
func DefaultCountdownTarget(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, loc)
}

// DefaultParams returns parameters matching the bundled widgets.
func DefaultParams() Params {
	return Params{
		CountdownTarget: DefaultCountdownTarget(time.Local),
		QuoteSchedule:   MustParseSchedule(DefaultQuoteSpec),
		Quotes:          DefaultQuotes(),
	}
}

// Compute dispatches to the engine for kind.
func Compute(kind widget.Kind, now time.Time, p Params) (DisplayState, error) {
	s := DisplayState{Kind: kind, At: now}

	switch kind {
	case widget.KindClock:
		c := Clock(now)
		s.Clock = &c
	case widget.KindCalendar:
		c := Calendar(now.Year(), now.Month(), now)
		s.Calendar = &c
	case widget.KindCountdown:
		target := p.CountdownTarget
		if target.IsZero() {
			target = DefaultCountdownTarget(now.Location())
		}
		c := Countdown(now, target)
		s.Countdown = &c
	case widget.KindYearProgress:
		y := YearProgress(now)
		s.YearProgress = &y
	case widget.KindQuote:
		sched := p.QuoteSchedule
		if sched == nil {
			sched = MustParseSchedule(DefaultQuoteSpec)
		}
		quotes := p.Quotes
		if len(quotes) == 0 {
			quotes = DefaultQuotes()
		}
		q := Quote(now, sched, quotes)
		s.Quote = &q
	case widget.KindPomodoro:
		pom := p.Pomodoro
		if pom == nil {
			pom = NewPomodoro()
		}
		v := pom.View()
		s.Pomodoro = &v
	default:
		return DisplayState{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return s, nil
}

// Interval returns how often the display state of kind changes.
func Interval(kind widget.Kind) (time.Duration, error) {
	switch kind {
	case widget.KindClock, widget.KindCountdown, widget.KindPomodoro:
		return time.Second, nil
	case widget.KindYearProgress, widget.KindCalendar:
		return time.Minute, nil
	case widget.KindQuote:
		return 10 * time.Second, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// pad2 zero-pads a non-negative number to two digits.
func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}
