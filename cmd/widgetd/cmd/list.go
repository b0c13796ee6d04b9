package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/urlutil"
)

var listLang string

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "List the available widgets",
	RunE:  runWidgets,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available themes",
	RunE:  runThemes,
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func init() {
	rootCmd.AddCommand(widgetsCmd, themesCmd)
	widgetsCmd.Flags().StringVar(&listLang, "lang", "", "locale of the names")
}

func color(s string) lipgloss.Color {
	c, ok := theme.ParseColor(s)
	if !ok {
		return lipgloss.Color("")
	}
	return lipgloss.Color(c.Hex())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runWidgets(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistries("")
	if err != nil {
		return err
	}
	tr := reg.catalog.For(i18n.ResolveLocale(listLang, ""))

	t := newTable("ID", "NAME", "CATEGORY", "SIZE", "RATIO", "PATH")
	for _, d := range reg.widgets.List() {
		t.Row(
			d.ID,
			d.Icon+" "+tr.T(d.NameKey),
			tr.T(d.Category.Key()),
			fmt.Sprintf("%dx%d", d.DefaultSize.Width, d.DefaultSize.Height),
			d.EmbedSize.CSSRatio(),
			urlutil.WidgetPath(d.ID),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())

	cats := reg.widgets.Categories()
	counts := make([]string, 0, len(cats))
	for _, c := range cats {
		counts = append(counts, fmt.Sprintf("%s %d", tr.T(c.Category.Key()), c.Count))
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(counts, " · "))
	return nil
}

func runThemes(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistries(cfg.Widgets.DefaultTheme)
	if err != nil {
		return err
	}

	def := reg.themes.Default().ID
	t := newTable("ID", "NAME", "VARIANT", "BACKGROUND", "PRIMARY", "")
	for _, th := range reg.themes.List() {
		swatch := lipgloss.NewStyle().Background(color(th.Colors.Primary)).Render("   ")
		name := th.Name
		if th.ID == def {
			name += " (default)"
		}
		t.Row(th.ID, name, th.Variant.Kind(), th.Colors.Background, th.Colors.Primary, swatch)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
