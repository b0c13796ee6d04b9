package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/preview"
	"github.com/jmylchreest/widgetd/internal/weather"
	"github.com/jmylchreest/widgetd/internal/widget"
)

const barWidth = 30

// View renders the widget inside a themed box.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var snap preview.Snapshot
	if m.opts.Widget.Kind == widget.KindWeather {
		snap = m.weatherSnapshot()
	} else {
		snap = preview.Summarize(m.opts.Widget, m.opts.Translator, m.state)
	}

	sections := []string{m.styles.title.Render(snap.Title)}
	for _, line := range snap.Lines {
		sections = append(sections, m.styles.body.Render(line))
	}
	if snap.Progress != nil {
		sections = append(sections, m.progressBar(*snap.Progress))
	}
	if m.err != nil {
		sections = append(sections, m.styles.muted.Render(m.err.Error()))
	}

	box := m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
	out := lipgloss.JoinVertical(lipgloss.Center, box, m.styles.help.Render(m.helpLine()))
	if m.width > 0 {
		out = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, out)
	}
	return out
}

func (m Model) weatherSnapshot() preview.Snapshot {
	tr := m.opts.Translator
	r := m.report
	snap := preview.Snapshot{Title: tr.T(m.opts.Widget.NameKey)}

	switch r.Status {
	case weather.StatusReady:
		snap.Lines = []string{
			fmt.Sprintf("%s %.0f%s", r.Icon, r.Temperature, r.TemperatureUnit),
			tr.T(r.ConditionKey),
			fmt.Sprintf("%s %d%%  %s %.1f %s", tr.T("weather.humidity"), r.Humidity, tr.T("weather.wind"), r.WindSpeed, r.WindUnit),
		}
		if r.LocationName != "" {
			snap.Lines = append([]string{r.LocationName}, snap.Lines...)
		}
	case weather.StatusError:
		snap.Lines = []string{tr.T("weather.error"), tr.T("weather.reload")}
	default:
		snap.Lines = []string{tr.T("weather.loading")}
	}
	return snap
}

// progressBar draws pct (0-100) as a block bar.
func (m Model) progressBar(pct float64) string {
	pct = math.Max(0, math.Min(100, pct))
	filled := int(math.Round(pct / 100 * barWidth))
	return m.styles.bar.Render(strings.Repeat("█", filled)) +
		m.styles.track.Render(strings.Repeat("░", barWidth-filled))
}

func (m Model) helpLine() string {
	if m.pomodoro == nil {
		return "q quit"
	}

	tr := m.opts.Translator
	toggle := tr.T("pomodoro.start")
	if m.pomodoro.Active() {
		toggle = tr.T("pomodoro.pause")
	}
	modes := make([]string, 0, 3)
	for i, mode := range engine.Modes() {
		modes = append(modes, fmt.Sprintf("%d %s", i+1, tr.T(mode.Key())))
	}
	return fmt.Sprintf("space %s • r %s • %s • q quit",
		toggle, tr.T("pomodoro.reset"), strings.Join(modes, " • "))
}
