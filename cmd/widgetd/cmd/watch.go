package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/tui"
	"github.com/jmylchreest/widgetd/internal/weather"
)

var (
	watchTheme string
	watchLang  string
	watchLat   float64
	watchLon   float64
)

var watchCmd = &cobra.Command{
	Use:   "watch <widget>",
	Short: "Run a widget in the terminal",
	Long: `Run a widget in the terminal using the same engines as the web widgets.

Without --theme the theme follows the terminal background. The weather
widget uses --lat/--lon, falling back to the configured default location.

Keys: q quits; for the pomodoro, space starts or pauses, r resets and 1-3
switch mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchTheme, "theme", "", "theme id")
	watchCmd.Flags().StringVar(&watchLang, "lang", "", "locale code (default from $LANG)")
	watchCmd.Flags().Float64Var(&watchLat, "lat", 0, "latitude for the weather widget")
	watchCmd.Flags().Float64Var(&watchLon, "lon", 0, "longitude for the weather widget")
}

// systemLanguage turns $LANG style values (ko_KR.UTF-8) into a language tag.
func systemLanguage(lang string) string {
	lang, _, _ = strings.Cut(lang, ".")
	return strings.ReplaceAll(lang, "_", "-")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistries(cfg.Widgets.DefaultTheme)
	if err != nil {
		return err
	}

	d, ok := reg.widgets.Find(args[0])
	if !ok {
		return fmt.Errorf("unknown widget %q (known: %s)", args[0], strings.Join(reg.widgets.IDs(), ", "))
	}

	params, err := cfg.Widgets.Params(time.Local)
	if err != nil {
		return err
	}

	var coords *environment.Coordinates
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		c := environment.Coordinates{Latitude: watchLat, Longitude: watchLon}
		if err := c.Validate(); err != nil {
			return err
		}
		coords = &c
	}
	env := tui.NewTerminal(coords)

	locale := i18n.ResolveLocale(watchLang, systemLanguage(os.Getenv("LANG")))

	m, err := tui.New(tui.Options{
		Widget:     d,
		Theme:      reg.themes.ForScheme(watchTheme, env.PreferredColorScheme().IsDark()),
		Translator: reg.catalog.For(locale),
		Params:     params,
		Env:        env,
		Weather:    weather.New(cfg.Weather.ClientConfig(), logger("weather")),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal preview: %w", err)
	}
	return nil
}
