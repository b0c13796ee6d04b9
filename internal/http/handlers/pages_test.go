package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/http/handlers"
	"github.com/jmylchreest/widgetd/internal/render"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/widget"
)

func newPageRouter(t *testing.T) *chi.Mux {
	t.Helper()
	r, err := render.NewDefault()
	require.NoError(t, err)

	router := chi.NewRouter()
	handlers.NewPageHandler(r, widget.Builtin(), theme.MustBuiltin(), testCatalog(t), engine.DefaultParams()).
		WithClock(func() time.Time { return fixedNow }).
		WithLogger(quietLogger()).
		RegisterChiRoutes(router)
	return router
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findByAttr(n *html.Node, key, val string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if v, ok := attrOf(n, key); ok && (v == val || strings.Contains(" "+v+" ", " "+val+" ")) {
				out = append(out, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func htmlLang(doc *html.Node) string {
	var lang string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "html" {
			lang, _ = attrOf(n, "lang")
		}
		for c := n.FirstChild; c != nil && lang == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lang
}

func TestPageHandler_Gallery(t *testing.T) {
	router := newPageRouter(t)

	rec := get(router, "/?theme=dark&lang=ja")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.NotContains(t, body, "ZgotmplZ")

	doc := parseHTML(t, body)
	assert.Equal(t, "ja", htmlLang(doc))

	cards := findByAttr(doc, "class", "card")
	assert.Len(t, cards, len(widget.Builtin().List()))

	buttons := findByAttr(doc, "class", "copy-button")
	require.NotEmpty(t, buttons)
	url, _ := attrOf(buttons[0], "data-url")
	assert.Equal(t, "http://example.com/widget/clock?theme=dark&lang=ja", url)

	selected := findByAttr(doc, "class", "selected")
	var themes []string
	for _, n := range selected {
		if v, ok := attrOf(n, "data-theme"); ok {
			themes = append(themes, v)
		}
	}
	assert.Equal(t, []string{"dark"}, themes)
}

func TestPageHandler_GalleryCategory(t *testing.T) {
	router := newPageRouter(t)

	rec := get(router, "/?category=Productivity")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseHTML(t, rec.Body.String())
	cards := findByAttr(doc, "class", "card")
	assert.Len(t, cards, len(widget.Builtin().InCategory(widget.CategoryProductivity)))
}

func TestPageHandler_Widget(t *testing.T) {
	router := newPageRouter(t)

	t.Run("standalone", func(t *testing.T) {
		rec := get(router, "/widget/clock?theme=minimal&lang=ko")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		doc := parseHTML(t, rec.Body.String())
		assert.Equal(t, "ko", htmlLang(doc))

		c := findByAttr(doc, "id", "widget")
		require.Len(t, c, 1)
		mode, _ := attrOf(c[0], "data-mode")
		assert.Equal(t, "standalone", mode)
		events, _ := attrOf(c[0], "data-events")
		assert.Equal(t, "/widget/clock/events", events)

		hours := findByAttr(doc, "data-field", "clock.hours")
		require.Len(t, hours, 1)
		require.NotNil(t, hours[0].FirstChild)
		assert.Equal(t, "09", strings.TrimSpace(hours[0].FirstChild.Data))
	})

	t.Run("viewer time zone", func(t *testing.T) {
		rec := get(router, "/widget/clock?tz=Asia/Seoul")
		require.Equal(t, http.StatusOK, rec.Code)

		doc := parseHTML(t, rec.Body.String())
		c := findByAttr(doc, "id", "widget")
		require.Len(t, c, 1)
		events, _ := attrOf(c[0], "data-events")
		assert.Equal(t, "/widget/clock/events?tz=Asia%2FSeoul", events)

		hours := findByAttr(doc, "data-field", "clock.hours")
		require.Len(t, hours, 1)
		require.NotNil(t, hours[0].FirstChild)
		assert.Equal(t, "18", strings.TrimSpace(hours[0].FirstChild.Data))
	})

	t.Run("iframe fetch is embedded", func(t *testing.T) {
		rec := get(router, "/widget/quote", "Sec-Fetch-Dest", "iframe")
		require.Equal(t, http.StatusOK, rec.Code)

		doc := parseHTML(t, rec.Body.String())
		c := findByAttr(doc, "id", "widget")
		require.Len(t, c, 1)
		mode, _ := attrOf(c[0], "data-mode")
		assert.Equal(t, "embedded", mode)
	})

	t.Run("invalid embed parameter fails safe", func(t *testing.T) {
		rec := get(router, "/widget/quote?embed=maybe", "Sec-Fetch-Dest", "iframe")
		require.Equal(t, http.StatusOK, rec.Code)

		doc := parseHTML(t, rec.Body.String())
		c := findByAttr(doc, "id", "widget")
		require.Len(t, c, 1)
		mode, _ := attrOf(c[0], "data-mode")
		assert.Equal(t, "standalone", mode)
	})

	t.Run("dark preference picks dark theme", func(t *testing.T) {
		rec := get(router, "/widget/calendar", "Sec-CH-Prefers-Color-Scheme", "dark")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "--widget-background: "+theme.Lookup("dark").Colors.Background+";")
	})

	t.Run("accept-language picks locale", func(t *testing.T) {
		rec := get(router, "/widget/calendar", "Accept-Language", "es-MX,es;q=0.9")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "es", htmlLang(parseHTML(t, rec.Body.String())))
	})

	t.Run("weather has no event stream", func(t *testing.T) {
		rec := get(router, "/widget/weather")
		require.Equal(t, http.StatusOK, rec.Code)

		doc := parseHTML(t, rec.Body.String())
		c := findByAttr(doc, "id", "widget")
		require.Len(t, c, 1)
		events, _ := attrOf(c[0], "data-events")
		assert.Empty(t, events)
		assert.Empty(t, findByAttr(doc, "id", "widget-state"))
	})
}

func TestPageHandler_NotFound(t *testing.T) {
	router := newPageRouter(t)

	t.Run("unknown widget", func(t *testing.T) {
		rec := get(router, "/widget/%3Cscript%3E?lang=fr")
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := rec.Body.String()
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, "&lt;script&gt;")
		assert.Equal(t, "fr", htmlLang(parseHTML(t, body)))
	})

	t.Run("unknown page", func(t *testing.T) {
		rec := get(router, "/nowhere")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("unknown api route stays plain", func(t *testing.T) {
		rec := get(router, "/api/v1/nowhere")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "<html")
	})
}
