package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/preview"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/urlutil"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// PreviewHandler renders PNG snapshots of widgets for link unfurling.
type PreviewHandler struct {
	widgets *widget.Registry
	themes  *theme.Registry
	catalog *i18n.Catalog
	params  engine.Params
	now     func() time.Time
	logger  *slog.Logger
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(widgets *widget.Registry, themes *theme.Registry, catalog *i18n.Catalog, params engine.Params) *PreviewHandler {
	return &PreviewHandler{
		widgets: widgets,
		themes:  themes,
		catalog: catalog,
		params:  params,
		now:     time.Now,
		logger:  slog.Default(),
	}
}

// WithClock replaces time.Now (for testing).
func (h *PreviewHandler) WithClock(now func() time.Time) *PreviewHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// WithLogger sets a custom logger.
func (h *PreviewHandler) WithLogger(logger *slog.Logger) *PreviewHandler {
	h.logger = logger
	return h
}

// RegisterChiRoutes registers the preview route.
func (h *PreviewHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/widget/{id}/preview.png", h.servePreview)
}

func (h *PreviewHandler) servePreview(w http.ResponseWriter, r *http.Request) {
	d, ok := h.widgets.Find(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}
	t := h.themes.Lookup(r.URL.Query().Get(urlutil.ParamTheme))

	var state *engine.DisplayState
	env := environment.FromRequest(r, h.now)
	s, err := engine.Compute(d.Kind, environment.LocalNow(env), h.params)
	switch {
	case err == nil:
		state = &s
	case errors.Is(err, engine.ErrUnknownKind):
	default:
		http.Error(w, "failed to compute widget state", http.StatusInternalServerError)
		return
	}

	// The bitmap font only covers ASCII, so previews are always English.
	var buf bytes.Buffer
	if err := preview.Render(&buf, d, t, h.catalog.For(i18n.EN), state); err != nil {
		h.logger.Error("rendering preview",
			slog.String("widget", d.ID),
			slog.Any("error", err))
		http.Error(w, "failed to render preview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = buf.WriteTo(w)
}
