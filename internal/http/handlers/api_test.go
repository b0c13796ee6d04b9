package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/http/handlers"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/urlutil"
	"github.com/jmylchreest/widgetd/internal/widget"
	"github.com/jmylchreest/widgetd/pkg/httpclient"
)

var fixedNow = time.Date(2024, time.April, 16, 9, 5, 7, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAPI() (*chi.Mux, huma.API) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("Test API", "1.0.0"))
	return router, api
}

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.Builtin()
	require.NoError(t, err)
	return c
}

func get(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestWidgetHandler(t *testing.T) {
	router, api := newTestAPI()
	cat := testCatalog(t)
	handlers.NewWidgetHandler(widget.Builtin(), cat, engine.DefaultParams()).
		WithClock(func() time.Time { return fixedNow }).
		Register(api)

	t.Run("lists in registry order", func(t *testing.T) {
		rec := get(router, "/api/v1/widgets")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Widgets    []handlers.WidgetResponse   `json:"widgets"`
			Categories []handlers.CategoryResponse `json:"categories"`
		}](t, rec)

		ids := make([]string, 0, len(body.Widgets))
		for _, w := range body.Widgets {
			ids = append(ids, w.ID)
		}
		assert.Equal(t, widget.Builtin().IDs(), ids)

		total := 0
		for _, c := range body.Categories {
			total += c.Count
		}
		assert.Equal(t, len(body.Widgets), total)
	})

	t.Run("filters by category", func(t *testing.T) {
		rec := get(router, "/api/v1/widgets?category=Time")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Widgets []handlers.WidgetResponse `json:"widgets"`
		}](t, rec)
		require.NotEmpty(t, body.Widgets)
		for _, w := range body.Widgets {
			assert.Equal(t, "Time", w.Category)
		}
		assert.Len(t, body.Widgets, len(widget.Builtin().InCategory(widget.CategoryTime)))
	})

	t.Run("localizes labels", func(t *testing.T) {
		rec := get(router, "/api/v1/widgets/clock?lang=ko")
		require.Equal(t, http.StatusOK, rec.Code)

		w := decode[handlers.WidgetResponse](t, rec)
		assert.Equal(t, "Clock", w.Name)
		assert.Equal(t, cat.T(i18n.KO, "widget.clock"), w.LocalizedName)
		assert.Equal(t, "/widget/clock", w.Path)
		assert.InDelta(t, 2.0, w.AspectRatio, 1e-9)
	})

	t.Run("unknown widget is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/widgets/nope").Code)
		assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/widgets/nope/state").Code)
	})

	t.Run("computes state", func(t *testing.T) {
		rec := get(router, "/api/v1/widgets/clock/state")
		require.Equal(t, http.StatusOK, rec.Code)

		s := decode[engine.DisplayState](t, rec)
		assert.Equal(t, widget.KindClock, s.Kind)
		require.NotNil(t, s.Clock)
		assert.Equal(t, "09:05:07", s.Clock.String())
	})

	t.Run("computes in the viewer's zone", func(t *testing.T) {
		rec := get(router, "/api/v1/widgets/clock/state?tz=Asia/Seoul")
		require.Equal(t, http.StatusOK, rec.Code)

		s := decode[engine.DisplayState](t, rec)
		require.NotNil(t, s.Clock)
		assert.Equal(t, "18:05:07", s.Clock.String())
	})

	t.Run("weather has no time engine", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, get(router, "/api/v1/widgets/weather/state").Code)
	})
}

func TestThemeHandler(t *testing.T) {
	router, api := newTestAPI()
	h := handlers.NewThemeHandler(theme.MustBuiltin())
	h.Register(api)
	h.RegisterChiRoutes(router)

	t.Run("lists themes", func(t *testing.T) {
		rec := get(router, "/api/v1/themes")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Themes  []handlers.ThemeResponse `json:"themes"`
			Default string                   `json:"default"`
		}](t, rec)
		assert.Equal(t, theme.DefaultID, body.Default)
		require.Len(t, body.Themes, len(theme.MustBuiltin().List()))
		assert.Equal(t, theme.DefaultID, body.Themes[0].ID)
		assert.True(t, body.Themes[0].Default)
	})

	t.Run("decorated themes carry a style", func(t *testing.T) {
		rec := get(router, "/api/v1/themes/glassmorphismDark")
		require.Equal(t, http.StatusOK, rec.Code)

		th := decode[handlers.ThemeResponse](t, rec)
		assert.Equal(t, "decorated", th.Variant)
		require.NotNil(t, th.Style)
		assert.NotEmpty(t, th.Style.BackdropFilter)
		assert.Equal(t, "/api/v1/themes/glassmorphismDark.css", th.CSSURL)
	})

	t.Run("flat themes have no style", func(t *testing.T) {
		rec := get(router, "/api/v1/themes/dark")
		require.Equal(t, http.StatusOK, rec.Code)

		th := decode[handlers.ThemeResponse](t, rec)
		assert.Equal(t, "flat", th.Variant)
		assert.Nil(t, th.Style)
		assert.True(t, th.Dark)
	})

	t.Run("unknown theme is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/themes/nope").Code)
		assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/themes/nope.css").Code)
	})

	t.Run("serves css with etag", func(t *testing.T) {
		rec := get(router, "/api/v1/themes/dark.css")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "--widget-background")

		etag := rec.Header().Get("ETag")
		require.NotEmpty(t, etag)

		rec = get(router, "/api/v1/themes/dark.css", "If-None-Match", etag)
		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestLocaleHandler(t *testing.T) {
	router, api := newTestAPI()
	handlers.NewLocaleHandler().Register(api)

	t.Run("lists locales", func(t *testing.T) {
		rec := get(router, "/api/v1/locales")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Locales []handlers.LocaleResponse `json:"locales"`
		}](t, rec)
		require.Len(t, body.Locales, len(i18n.Locales()))
		assert.Equal(t, "en", body.Locales[0].Code)
		assert.True(t, body.Locales[0].Default)
	})

	type resolved struct {
		Locale string `json:"locale"`
		Source string `json:"source"`
	}

	tests := []struct {
		name    string
		target  string
		header  string
		want    string
		wantSrc string
	}{
		{"url wins", "/api/v1/locales/resolve?lang=ko", "fr-FR", "ko", "url"},
		{"accept-language", "/api/v1/locales/resolve", "pt-BR, fr-CA;q=0.9, en;q=0.5", "fr", "browser"},
		{"browser param overrides header", "/api/v1/locales/resolve?browser=ja-JP", "de", "ja", "browser"},
		{"unsupported url lang", "/api/v1/locales/resolve?lang=xx", "de-AT", "de", "browser"},
		{"nothing matches", "/api/v1/locales/resolve?lang=xx", "pt-BR", "en", "default"},
		{"no input", "/api/v1/locales/resolve", "", "en", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{"Accept-Language", tt.header}
			}
			rec := get(router, tt.target, headers...)
			require.Equal(t, http.StatusOK, rec.Code)

			r := decode[resolved](t, rec)
			assert.Equal(t, tt.want, r.Locale)
			assert.Equal(t, tt.wantSrc, r.Source)
		})
	}
}

func TestEmbedHandler(t *testing.T) {
	router, api := newTestAPI()
	handlers.NewEmbedHandler("https://widgets.example.com/", nil).Register(api)

	t.Run("builds with configured base", func(t *testing.T) {
		rec := get(router, "/api/v1/embed-url?widget=clock&theme=dark&lang=ko")
		require.Equal(t, http.StatusOK, rec.Code)

		p := decode[handlers.EmbedParamsResponse](t, rec)
		assert.Equal(t, "https://widgets.example.com/widget/clock?theme=dark&lang=ko", p.URL)
		assert.True(t, p.Found)
		assert.True(t, p.ThemeRecognized)
		assert.True(t, p.LocaleRecognized)
	})

	t.Run("substitutes defaults", func(t *testing.T) {
		rec := get(router, "/api/v1/embed-url?widget=clock&theme=neon&lang=xx&base=example.org")
		require.Equal(t, http.StatusOK, rec.Code)

		p := decode[handlers.EmbedParamsResponse](t, rec)
		assert.Equal(t, "http://example.org/widget/clock?theme=monochrome&lang=en", p.URL)
		assert.False(t, p.ThemeRecognized)
		assert.False(t, p.LocaleRecognized)
	})

	t.Run("widget is required", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, get(router, "/api/v1/embed-url").Code)
	})

	t.Run("parses", func(t *testing.T) {
		rec := get(router, "/api/v1/embed-url/parse?url=https%3A%2F%2Fx.io%2Fwidget%2Fpomodoro%3Ftheme%3DneumorphismLight%26lang%3Dde")
		require.Equal(t, http.StatusOK, rec.Code)

		p := decode[handlers.EmbedParamsResponse](t, rec)
		assert.Equal(t, "pomodoro", p.WidgetID)
		assert.Equal(t, "neumorphismLight", p.Theme)
		assert.Equal(t, "de", p.Locale)
		assert.True(t, p.Found)
	})

	t.Run("unknown widget is not an error", func(t *testing.T) {
		rec := get(router, "/api/v1/embed-url/parse?url=%2Fwidget%2Fstocks")
		require.Equal(t, http.StatusOK, rec.Code)

		p := decode[handlers.EmbedParamsResponse](t, rec)
		assert.Equal(t, "stocks", p.WidgetID)
		assert.False(t, p.Found)
		assert.Equal(t, theme.DefaultID, p.Theme)
		assert.Equal(t, "en", p.Locale)
	})

	t.Run("malformed is 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/embed-url/parse?url=https%3A%2F%2Fx.io%2Fgallery").Code)
	})
}

func TestEmbedHandler_ConfiguredDefaultTheme(t *testing.T) {
	themes, err := theme.MustBuiltin().WithDefault("minimal")
	require.NoError(t, err)

	router, api := newTestAPI()
	handlers.NewEmbedHandler("", urlutil.NewResolver(widget.Builtin(), themes)).Register(api)

	rec := get(router, "/api/v1/embed-url?widget=clock&theme=neon")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[handlers.EmbedParamsResponse](t, rec)
	assert.Equal(t, "/widget/clock?theme=minimal&lang=en", p.URL)
	assert.False(t, p.ThemeRecognized)

	rec = get(router, "/api/v1/embed-url/parse?url=%2Fwidget%2Fclock%3Ftheme%3Dneon")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "minimal", decode[handlers.EmbedParamsResponse](t, rec).Theme)
}

func TestHealthHandler(t *testing.T) {
	router, api := newTestAPI()

	clients := httpclient.NewRegistry()
	clients.Register("weather", httpclient.NewWithDefaults())

	handlers.NewHealthHandler("1.2.3").
		WithClients(clients).
		WithRegistrySizes(7, 7).
		Register(api)

	t.Run("health", func(t *testing.T) {
		rec := get(router, "/health")
		require.Equal(t, http.StatusOK, rec.Code)

		h := decode[handlers.HealthResponse](t, rec)
		assert.Equal(t, "healthy", h.Status)
		assert.Equal(t, "1.2.3", h.Version)
		assert.Equal(t, 7, h.Widgets)
		assert.Positive(t, h.CPUInfo.Cores)
		require.Len(t, h.Upstreams, 1)
		assert.Equal(t, "weather", h.Upstreams[0].Name)
		assert.Equal(t, "closed", h.Upstreams[0].State)
	})

	t.Run("livez", func(t *testing.T) {
		rec := get(router, "/livez")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Status string `json:"status"`
		}](t, rec)
		assert.Equal(t, "ok", body.Status)
	})
}
