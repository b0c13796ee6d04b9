package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/render"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/urlutil"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// Query parameters read by the gallery besides theme and lang.
const paramCategory = "category"

// PageHandler renders the gallery, widget and not-found pages.
type PageHandler struct {
	renderer *render.Renderer
	widgets  *widget.Registry
	themes   *theme.Registry
	catalog  *i18n.Catalog
	params   engine.Params
	baseURL  string
	now      func() time.Time
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(renderer *render.Renderer, widgets *widget.Registry, themes *theme.Registry, catalog *i18n.Catalog, params engine.Params) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		widgets:  widgets,
		themes:   themes,
		catalog:  catalog,
		params:   params,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// WithBaseURL sets the public origin used in embed URLs. Empty means the
// origin of each request.
func (h *PageHandler) WithBaseURL(baseURL string) *PageHandler {
	h.baseURL = baseURL
	return h
}

// WithClock replaces time.Now (for testing).
func (h *PageHandler) WithClock(now func() time.Time) *PageHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// WithLogger sets a custom logger.
func (h *PageHandler) WithLogger(logger *slog.Logger) *PageHandler {
	h.logger = logger
	return h
}

// RegisterChiRoutes registers the HTML routes and the not-found fallback.
func (h *PageHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/", h.serveGallery)
	r.Get("/widget/{id}", h.serveWidget)
	r.NotFound(h.serveNotFound)
}

func (h *PageHandler) page(t theme.Theme, l i18n.Locale) render.Page {
	return render.NewPage(t, h.catalog.For(l))
}

func (h *PageHandler) serveGallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	env := environment.FromRequest(r, h.now)

	locale := i18n.ResolveLocale(q.Get(urlutil.ParamLang), env.AcceptLanguage())
	t := h.themes.Lookup(q.Get(urlutil.ParamTheme))
	category := widget.Category(q.Get(paramCategory))

	base := requestBaseURL(r, h.baseURL)
	link := func(themeID string, l i18n.Locale, c widget.Category) string {
		v := url.Values{}
		v.Set(urlutil.ParamTheme, themeID)
		v.Set(urlutil.ParamLang, string(l))
		if c != "" {
			v.Set(paramCategory, string(c))
		}
		return "/?" + v.Encode()
	}

	descriptors := h.widgets.List()
	if category != "" {
		descriptors = h.widgets.InCategory(category)
	}

	p := render.GalleryPage{
		Page:      h.page(t, locale),
		AllURL:    link(t.ID, locale, ""),
		AllCount:  len(h.widgets.List()),
		AllActive: category == "",
	}

	for _, d := range descriptors {
		embedURL := urlutil.BuildEmbedURL(base, d.ID, t.ID, locale)
		p.Items = append(p.Items, render.GalleryItem{
			Widget:     d,
			Ratio:      template.CSS(d.EmbedSize.CSSRatio()),
			EmbedURL:   embedURL,
			PreviewURL: embedURL + "&" + environment.ParamEmbed + "=true",
		})
	}

	for _, c := range h.widgets.Categories() {
		p.Categories = append(p.Categories, render.CategoryTab{
			Category: c.Category,
			Key:      c.Category.Key(),
			Count:    c.Count,
			Active:   c.Category == category,
			URL:      link(t.ID, locale, c.Category),
		})
	}

	for _, opt := range h.themes.List() {
		p.Themes = append(p.Themes, render.ThemeOption{
			ID:   opt.ID,
			Name: opt.Name,
			// Registry colors come from the embedded definitions.
			Swatches: []template.CSS{
				template.CSS(opt.Colors.Background),
				template.CSS(opt.Colors.Primary),
				template.CSS(opt.Colors.Accent),
			},
			Selected: opt.ID == t.ID,
			URL:      link(opt.ID, locale, category),
		})
	}

	for _, l := range i18n.Locales() {
		p.Locales = append(p.Locales, render.LocaleOption{
			Code:     l,
			Name:     l.Name(),
			Selected: l == locale,
			URL:      link(t.ID, l, category),
		})
	}

	setPageHeaders(w)
	w.Header().Set("Cache-Control", "no-cache")
	if err := h.renderer.Gallery(w, p); err != nil {
		h.logger.Error("rendering gallery", slog.Any("error", err))
		http.Error(w, "failed to render gallery", http.StatusInternalServerError)
	}
}

func (h *PageHandler) serveWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()
	env := environment.FromRequest(r, h.now)

	locale := i18n.ResolveLocale(q.Get(urlutil.ParamLang), env.AcceptLanguage())

	d, ok := h.widgets.Find(id)
	if !ok {
		h.renderNotFound(w, r, id, locale)
		return
	}

	t := h.themes.ForScheme(q.Get(urlutil.ParamTheme), env.PreferredColorScheme().IsDark())
	embedded := environment.DetectEmbedded(env)

	var (
		state     *engine.DisplayState
		eventsURL string
	)
	s, err := engine.Compute(d.Kind, environment.LocalNow(env), h.params)
	switch {
	case err == nil:
		state = &s
		eventsURL = urlutil.WidgetPath(d.ID) + "/events"
		if tz := q.Get(environment.ParamTimeZone); tz != "" {
			eventsURL += "?" + url.Values{environment.ParamTimeZone: {tz}}.Encode()
		}
	case errors.Is(err, engine.ErrUnknownKind):
	default:
		h.logger.Error("computing widget state",
			slog.String("widget", d.ID),
			slog.Any("error", err))
		http.Error(w, "failed to compute widget state", http.StatusInternalServerError)
		return
	}

	shell, err := h.renderer.Shell(h.page(t, locale), d, embedded, state, eventsURL)
	if err != nil {
		h.logger.Error("assembling widget page",
			slog.String("widget", d.ID),
			slog.Any("error", err))
		http.Error(w, "failed to render widget", http.StatusInternalServerError)
		return
	}

	setPageHeaders(w)
	// The page depends on headers as well as the URL.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Accept-CH", environment.HeaderColorScheme)
	w.Header().Set("Vary", strings.Join([]string{
		"Accept-Language",
		environment.HeaderColorScheme,
		environment.HeaderFetchDest,
	}, ", "))

	if err := h.renderer.Widget(w, shell); err != nil {
		h.logger.Error("rendering widget page",
			slog.String("widget", d.ID),
			slog.Any("error", err))
		http.Error(w, "failed to render widget", http.StatusInternalServerError)
	}
}

func (h *PageHandler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	env := environment.FromRequest(r, h.now)
	locale := i18n.ResolveLocale(r.URL.Query().Get(urlutil.ParamLang), env.AcceptLanguage())
	h.renderNotFound(w, r, "", locale)
}

func (h *PageHandler) renderNotFound(w http.ResponseWriter, r *http.Request, widgetID string, locale i18n.Locale) {
	t := h.themes.Lookup(r.URL.Query().Get(urlutil.ParamTheme))

	v := url.Values{}
	v.Set(urlutil.ParamTheme, t.ID)
	v.Set(urlutil.ParamLang, string(locale))

	setPageHeaders(w)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusNotFound)

	err := h.renderer.NotFound(w, render.NotFoundPage{
		Page:       h.page(t, locale),
		WidgetID:   widgetID,
		GalleryURL: "/?" + v.Encode(),
	})
	if err != nil {
		h.logger.Error("rendering not-found page", slog.Any("error", err))
	}
}

func setPageHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
