// Package tui previews a widget in the terminal. It drives the same time
// engines as the HTTP event stream.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/weather"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// Options configures a Model.
type Options struct {
	Widget     widget.Descriptor
	Theme      theme.Theme
	Translator i18n.Translator
	Params     engine.Params
	Env        environment.Environment
	// Weather fetches conditions for the weather widget; nil leaves it
	// loading.
	Weather *weather.Client
}

// tickMsg carries the time of a scheduled recompute.
type tickMsg time.Time

// weatherMsg carries a finished weather fetch.
type weatherMsg weather.Report

// Model is the Bubbletea state of `widgetd watch`.
type Model struct {
	opts     Options
	styles   styles
	interval time.Duration

	state    *engine.DisplayState
	pomodoro *engine.Pomodoro
	lastTick time.Time
	report   weather.Report

	width    int
	quitting bool
	err      error
}

// New creates a model for opts.Widget. Widgets without a time engine only
// render once their data arrives.
func New(opts Options) (Model, error) {
	if opts.Env == nil {
		opts.Env = NewTerminal(nil)
	}

	m := Model{
		opts:   opts,
		styles: newStyles(opts.Theme),
		report: weather.Loading(),
	}

	interval, err := engine.Interval(opts.Widget.Kind)
	switch {
	case err == nil:
		m.interval = interval
	case errors.Is(err, engine.ErrUnknownKind) && opts.Widget.Kind == widget.KindWeather:
	default:
		return Model{}, err
	}

	if opts.Widget.Kind == widget.KindPomodoro {
		m.pomodoro = engine.NewPomodoro()
		if opts.Params.Pomodoro != nil {
			m.pomodoro = opts.Params.Pomodoro
		}
	}

	return m, nil
}

// Init computes the first state and starts any fetch.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.interval > 0 {
		now := environment.LocalNow(m.opts.Env)
		cmds = append(cmds, func() tea.Msg { return tickMsg(now) })
	}
	if m.opts.Widget.Kind == widget.KindWeather && m.opts.Weather != nil {
		client, env := m.opts.Weather, m.opts.Env
		cmds = append(cmds, func() tea.Msg {
			return weatherMsg(client.Current(context.Background(), env))
		})
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// State returns the last computed display state, or nil.
func (m Model) State() *engine.DisplayState {
	return m.state
}

// Weather returns the current weather report.
func (m Model) Weather() weather.Report {
	return m.report
}

// Err returns the last engine error.
func (m Model) Err() error {
	return m.err
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// recompute refreshes the display state at now.
func (m *Model) recompute(now time.Time) {
	params := m.opts.Params
	params.Pomodoro = m.pomodoro

	s, err := engine.Compute(m.opts.Widget.Kind, now, params)
	if err != nil {
		m.err = err
		return
	}
	m.state = &s
}
