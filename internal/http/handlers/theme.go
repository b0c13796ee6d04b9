package handlers

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/widgetd/internal/theme"
)

// ThemeHandler handles theme API endpoints.
type ThemeHandler struct {
	registry *theme.Registry
	// css holds the rendered stylesheet and its ETag per theme id. Themes
	// never change at runtime, so they are rendered once.
	css map[string]themeCSS
}

type themeCSS struct {
	body string
	etag string
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(registry *theme.Registry) *ThemeHandler {
	h := &ThemeHandler{
		registry: registry,
		css:      make(map[string]themeCSS),
	}
	for _, t := range registry.List() {
		body := theme.CSS(t, ":root")
		sum := fnv.New64a()
		_, _ = sum.Write([]byte(body))
		h.css[t.ID] = themeCSS{
			body: body,
			etag: fmt.Sprintf(`"builtin-%s-%x"`, t.ID, sum.Sum64()),
		}
	}
	return h
}

// ListThemesInput is the input for listing themes.
type ListThemesInput struct{}

// ListThemesOutput is the output for listing themes.
type ListThemesOutput struct {
	Body struct {
		Themes  []ThemeResponse `json:"themes"`
		Default string          `json:"default"`
	}
}

// GetThemeInput is the input for a single theme.
type GetThemeInput struct {
	ID string `path:"id" doc:"Theme ID"`
}

// GetThemeOutput is the output for a single theme.
type GetThemeOutput struct {
	Body ThemeResponse
}

// Register registers the theme routes with the Huma API.
func (h *ThemeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listThemes",
		Method:      "GET",
		Path:        "/api/v1/themes",
		Summary:     "List all themes",
		Description: "Returns the built-in themes in registry order",
		Tags:        []string{"Themes"},
	}, h.ListThemes)

	huma.Register(api, huma.Operation{
		OperationID: "getTheme",
		Method:      "GET",
		Path:        "/api/v1/themes/{id}",
		Summary:     "Get theme",
		Tags:        []string{"Themes"},
	}, h.GetTheme)
}

// RegisterChiRoutes registers the stylesheet route. It needs its own
// content type and caching headers, so it bypasses huma.
func (h *ThemeHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/api/v1/themes/{themeId}.css", h.serveThemeCSS)
}

// ListThemes returns all available themes.
func (h *ThemeHandler) ListThemes(ctx context.Context, input *ListThemesInput) (*ListThemesOutput, error) {
	themes := h.registry.List()

	out := &ListThemesOutput{}
	out.Body.Default = h.registry.Default().ID
	out.Body.Themes = make([]ThemeResponse, 0, len(themes))
	for _, t := range themes {
		out.Body.Themes = append(out.Body.Themes, ThemeFromModel(t))
	}
	return out, nil
}

// GetTheme returns one theme. Unlike page rendering, the API does not
// substitute the default for unknown ids.
func (h *ThemeHandler) GetTheme(ctx context.Context, input *GetThemeInput) (*GetThemeOutput, error) {
	t, ok := h.registry.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("theme not found")
	}
	return &GetThemeOutput{Body: ThemeFromModel(t)}, nil
}

func (h *ThemeHandler) serveThemeCSS(w http.ResponseWriter, r *http.Request) {
	themeID := strings.TrimSuffix(chi.URLParam(r, "themeId"), ".css")
	if themeID == "" {
		http.Error(w, "theme ID required", http.StatusBadRequest)
		return
	}

	css, ok := h.css[themeID]
	if !ok {
		http.Error(w, "theme not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", css.etag)

	if match := r.Header.Get("If-None-Match"); match != "" && match == css.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(css.body)))
	_, _ = w.Write([]byte(css.body))
}
