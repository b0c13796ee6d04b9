package render

import (
	"html/template"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/weather"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// Page is the part shared by every rendered page.
type Page struct {
	Theme  theme.Theme
	Locale i18n.Locale
	tr     i18n.Translator
}

// NewPage binds a theme to a translator; the page locale is the
// translator's.
func NewPage(t theme.Theme, tr i18n.Translator) Page {
	return Page{Theme: t, Locale: tr.Locale(), tr: tr}
}

// T translates key in the page locale.
func (p Page) T(key string) string {
	return p.tr.T(key)
}

// ThemeCSS returns the theme's custom properties.
func (p Page) ThemeCSS() template.CSS {
	return template.CSS(theme.CSS(p.Theme, ":root"))
}

// Lang is the html lang attribute.
func (p Page) Lang() string {
	return string(p.Locale)
}

// IsDecorated reports whether the theme has a style bundle.
func (p Page) IsDecorated() bool {
	_, ok := p.Theme.Variant.(theme.Decorated)
	return ok
}

// GalleryItem is one widget card.
type GalleryItem struct {
	Widget     widget.Descriptor
	Ratio      template.CSS
	EmbedURL   string
	PreviewURL string
}

// CategoryTab is one category filter with its widget count.
type CategoryTab struct {
	Category widget.Category
	Key      string
	Count    int
	Active   bool
	URL      string
}

// ThemeOption is a theme picker entry.
type ThemeOption struct {
	ID       string
	Name     string
	Swatches []template.CSS
	Selected bool
	URL      string
}

// LocaleOption is a locale picker entry.
type LocaleOption struct {
	Code     i18n.Locale
	Name     string
	Selected bool
	URL      string
}

// GalleryPage is the data of the gallery.
type GalleryPage struct {
	Page
	Items      []GalleryItem
	Categories []CategoryTab
	AllURL     string
	AllCount   int
	AllActive  bool
	Themes     []ThemeOption
	Locales    []LocaleOption
}

// Shell is the single parameterized widget page: the theme and locale, the
// descriptor, the sizing policy and the pre-rendered body.
type Shell struct {
	Page
	Widget    widget.Descriptor
	Sizing    Sizing
	Body      template.HTML
	EventsURL string
	// State is the initial display state, nil for widgets without a time
	// engine.
	State *engine.DisplayState
}

// ScaleCSS exposes the tier rules to templates.
func (s Shell) ScaleCSS() template.CSS {
	return ScaleCSS()
}

// Body is the data passed to a widget body template.
type Body struct {
	Page
	Widget   widget.Descriptor
	State    engine.DisplayState
	Weather  weather.Report
	Pomodoro engine.PomodoroView
	Modes    []engine.PomodoroMode
	Weekdays [7]string
}

// NotFoundPage is shown for unknown widget ids.
type NotFoundPage struct {
	Page
	WidgetID   string
	GalleryURL string
}

// WeatherConditionKeys lists the condition labels the weather script may
// need after fetching.
func (b Body) WeatherConditionKeys() []string {
	return weather.ConditionKeys()
}
