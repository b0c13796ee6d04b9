// Package render turns widget descriptors, themes and display state into
// HTML pages.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"

	"github.com/jmylchreest/widgetd/internal/assets"
	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/weather"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// ErrNoBody is returned when a widget kind has no body template.
var ErrNoBody = errors.New("no body template for widget kind")

// Page template files. Each defines "title" and "content" for the layout.
const (
	pageGallery  = "gallery.html"
	pageWidget   = "widget.html"
	pageNotFound = "notfound.html"

	layoutName = "layout"
)

// Renderer executes the embedded page templates. It is safe for
// concurrent use.
type Renderer struct {
	pages  map[string]*template.Template
	bodies *template.Template
	logger *slog.Logger
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"pad2": func(n int) string { return fmt.Sprintf("%02d", n) },
		"add":  func(a, b int) int { return a + b },
		"pct":  func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}
}

// New parses the layout, pages and widget bodies from fsys.
func New(fsys fs.FS) (*Renderer, error) {
	base, err := template.New(layoutName).Funcs(funcs()).ParseFS(fsys, "layout.html", "widgets/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	r := &Renderer{
		pages:  make(map[string]*template.Template),
		bodies: base,
		logger: slog.Default(),
	}

	for _, name := range []string{pageGallery, pageWidget, pageNotFound} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		r.pages[name] = clone
	}

	return r, nil
}

// NewDefault parses the embedded templates.
func NewDefault() (*Renderer, error) {
	return New(assets.TemplatesFS())
}

// WithLogger sets a custom logger.
func (r *Renderer) WithLogger(logger *slog.Logger) *Renderer {
	r.logger = logger
	return r
}

// Gallery renders the gallery page.
func (r *Renderer) Gallery(w io.Writer, p GalleryPage) error {
	return r.execute(w, pageGallery, p)
}

// Widget renders a widget page around an already rendered body.
func (r *Renderer) Widget(w io.Writer, s Shell) error {
	return r.execute(w, pageWidget, s)
}

// NotFound renders the not-found page.
func (r *Renderer) NotFound(w io.Writer, p NotFoundPage) error {
	return r.execute(w, pageNotFound, p)
}

// Body renders the body template of b.Widget.Kind.
func (r *Renderer) Body(b Body) (template.HTML, error) {
	name := "widget-" + string(b.Widget.Kind)
	if r.bodies.Lookup(name) == nil {
		return "", fmt.Errorf("%w: %q", ErrNoBody, b.Widget.Kind)
	}

	var buf bytes.Buffer
	if err := r.bodies.ExecuteTemplate(&buf, name, b); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	// Produced by html/template, so already escaped.
	return template.HTML(buf.String()), nil
}

// Shell assembles the widget page data: it renders the body for the
// descriptor's kind and applies the sizing policy.
func (r *Renderer) Shell(page Page, d widget.Descriptor, embedded bool, state *engine.DisplayState, eventsURL string) (Shell, error) {
	b := Body{
		Page:    page,
		Widget:  d,
		Weather: weather.Loading(),
		Modes:   engine.Modes(),
	}
	copy(b.Weekdays[:], engine.WeekdayKeys[:])
	if state != nil {
		b.State = *state
		if state.Pomodoro != nil {
			b.Pomodoro = *state.Pomodoro
		}
	}
	if d.Kind == widget.KindPomodoro && b.Pomodoro.Mode == "" {
		b.Pomodoro = engine.NewPomodoro().View()
	}

	body, err := r.Body(b)
	if err != nil {
		return Shell{}, err
	}

	return Shell{
		Page:      page,
		Widget:    d,
		Sizing:    SizingFor(d, embedded),
		Body:      body,
		EventsURL: eventsURL,
		State:     state,
	}, nil
}

func (r *Renderer) execute(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	// Render to a buffer so a failing template never leaves a half-written
	// response.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("page", page),
			slog.Any("error", err))
		return fmt.Errorf("rendering %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
