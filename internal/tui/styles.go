package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/widgetd/internal/theme"
)

// styles is a theme translated to lipgloss.
type styles struct {
	box   lipgloss.Style
	title lipgloss.Style
	body  lipgloss.Style
	muted lipgloss.Style
	bar   lipgloss.Style
	track lipgloss.Style
	help  lipgloss.Style
}

// color converts a theme color; translucent colors lose their alpha.
func color(s, fallback string) lipgloss.Color {
	c, ok := theme.ParseColor(s)
	if !ok {
		return lipgloss.Color(fallback)
	}
	return lipgloss.Color(c.Hex())
}

func newStyles(t theme.Theme) styles {
	bg := color(t.Colors.Background, "#ffffff")
	fg := color(t.Colors.Foreground, "#000000")
	primary := color(t.Colors.Primary, "#000000")
	muted := color(t.Colors.Secondary, "#666666")
	border := color(t.Colors.Border, "#e5e5e5")
	track := color(t.Colors.Muted, "#f5f5f5")

	box := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(1, 4).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		BorderForeground(border)
	if _, ok := t.Variant.(theme.Decorated); ok {
		box = box.Border(lipgloss.RoundedBorder())
	}

	return styles{
		box:   box,
		title: lipgloss.NewStyle().Bold(true).Foreground(primary).Background(bg).MarginBottom(1),
		body:  lipgloss.NewStyle().Foreground(fg).Background(bg),
		muted: lipgloss.NewStyle().Foreground(muted).Background(bg),
		bar:   lipgloss.NewStyle().Foreground(primary).Background(bg),
		track: lipgloss.NewStyle().Foreground(track).Background(bg),
		help:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginTop(1),
	}
}
