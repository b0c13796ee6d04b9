package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/weather"
)

var modeKeys = map[string]engine.PomodoroMode{
	"1": engine.ModeWork,
	"2": engine.ModeShortBreak,
	"3": engine.ModeLongBreak,
}

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if m.pomodoro != nil && !m.lastTick.IsZero() {
			m.pomodoro.Tick(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.recompute(now)
		return m, m.scheduleTick()

	case weatherMsg:
		m.report = weather.Report(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if m.pomodoro == nil {
			return m, nil
		}
		switch key := msg.String(); key {
		case " ", "space", "s":
			m.pomodoro.Toggle()
		case "r":
			m.pomodoro.Reset()
		default:
			mode, ok := modeKeys[key]
			if !ok {
				return m, nil
			}
			_ = m.pomodoro.SetMode(mode)
		}
		m.recompute(environment.LocalNow(m.opts.Env))
		return m, nil
	}

	return m, nil
}
