package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/widgetd/internal/clipboard"
	"github.com/jmylchreest/widgetd/internal/urlutil"
)

var (
	urlCopy  bool
	urlTheme string
	urlLang  string
	urlBase  string
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Build and parse widget embed URLs",
}

var urlBuildCmd = &cobra.Command{
	Use:   "build <widget>",
	Short: "Build the embed URL of a widget",
	Long: `Build the embed URL of a widget for a theme and locale.

Unknown themes and locales fall back to the defaults, exactly as the widget
page would. The base URL defaults to server.base_url; without one the URL is
site-relative.

  widgetd url build clock --theme dark --lang ko --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runURLBuild,
}

var urlParseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Decode an embed URL into widget, theme and locale",
	Args:  cobra.ExactArgs(1),
	RunE:  runURLParse,
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.AddCommand(urlBuildCmd, urlParseCmd)

	urlCmd.PersistentFlags().BoolVar(&urlCopy, "copy", false, "copy the result to the clipboard")
	urlBuildCmd.Flags().StringVar(&urlTheme, "theme", "", "theme id")
	urlBuildCmd.Flags().StringVar(&urlLang, "lang", "", "locale code")
	urlBuildCmd.Flags().StringVar(&urlBase, "base", "", "base URL (default server.base_url)")
}

// resolver resolves against the registries `serve` would use, so fallbacks
// honor widgets.default_theme.
func resolver() (*urlutil.Resolver, registries, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, registries{}, err
	}
	reg, err := loadRegistries(cfg.Widgets.DefaultTheme)
	if err != nil {
		return nil, registries{}, err
	}
	return urlutil.NewResolver(reg.widgets, reg.themes), reg, nil
}

func runURLBuild(cmd *cobra.Command, args []string) error {
	res, reg, err := resolver()
	if err != nil {
		return err
	}
	p := res.Resolve(args[0], urlTheme, urlLang)
	if !p.Found {
		return fmt.Errorf("unknown widget %q (known: %s)", args[0], strings.Join(reg.widgets.IDs(), ", "))
	}

	base := urlBase
	if base == "" {
		base = viper.GetString("server.base_url")
	}
	out := cmd.OutOrStdout()

	if !p.ThemeRecognized && urlTheme != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown theme %q, using %q\n", urlTheme, p.ThemeID)
	}
	if !p.LocaleRecognized && urlLang != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "unsupported locale %q, using %q\n", urlLang, p.Locale)
	}

	embedURL := urlutil.BuildEmbedURL(base, p.WidgetID, p.ThemeID, p.Locale)
	fmt.Fprintln(out, embedURL)

	if urlCopy {
		return copyText(cmd.ErrOrStderr(), embedURL)
	}
	return nil
}

func runURLParse(cmd *cobra.Command, args []string) error {
	res, _, err := resolver()
	if err != nil {
		return err
	}
	p, err := res.Parse(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "widget: %s%s\n", p.WidgetID, mark(p.Found, " (unknown)"))
	fmt.Fprintf(out, "theme:  %s%s\n", p.ThemeID, mark(p.ThemeRecognized, " (default)"))
	fmt.Fprintf(out, "lang:   %s%s\n", p.Locale, mark(p.LocaleRecognized, " (default)"))

	if urlCopy {
		return copyText(cmd.ErrOrStderr(), urlutil.BuildEmbedURL("", p.WidgetID, p.ThemeID, p.Locale))
	}
	return nil
}

func mark(ok bool, suffix string) string {
	if ok {
		return ""
	}
	return suffix
}

// copyText copies text, writing the OSC 52 fallback and the acknowledgement
// to the terminal on w.
func copyText(w io.Writer, text string) error {
	ind := clipboard.NewIndicator(clipboard.RevertDelay, func(copied bool) {
		if copied {
			fmt.Fprintln(w, "Copied!")
		}
	})

	method, err := clipboard.NewTerminalCopier(w).
		WithLogger(logger("clipboard")).
		CopyAndShow(text, ind)
	if err != nil {
		return err
	}
	logger("clipboard").Debug("copied embed URL", "method", string(method))
	return nil
}
