package handlers_test

import (
	"bytes"
	"image/png"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/http/handlers"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/widget"
)

func TestStaticHandler_Embedded(t *testing.T) {
	router := chi.NewRouter()
	handlers.NewStaticHandler().RegisterChiRoutes(router)

	for path, ctype := range map[string]string{
		"/static/widget.js":  "javascript",
		"/static/gallery.js": "javascript",
		"/static/widget.css": "text/css",
	} {
		rec := get(router, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), ctype, path)
		assert.NotEmpty(t, rec.Header().Get("Cache-Control"), path)
	}
}

func TestStaticHandler_Missing(t *testing.T) {
	router := chi.NewRouter()
	handlers.NewStaticHandlerFS(fstest.MapFS{
		"app.js":     {Data: []byte("1")},
		"dir/nested": {Data: []byte("2")},
	}).RegisterChiRoutes(router)

	assert.Equal(t, http.StatusOK, get(router, "/static/app.js").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/static/missing.js").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/static/dir").Code, "no directory listings")
	assert.Equal(t, http.StatusNotFound, get(router, "/static/").Code)
}

func TestPreviewHandler(t *testing.T) {
	router := chi.NewRouter()
	handlers.NewPreviewHandler(widget.Builtin(), theme.MustBuiltin(), testCatalog(t), engine.DefaultParams()).
		WithClock(func() time.Time { return fixedNow }).
		WithLogger(quietLogger()).
		RegisterChiRoutes(router)

	for _, d := range widget.Builtin().List() {
		rec := get(router, "/widget/"+d.ID+"/preview.png?theme=glassmorphismDark")
		require.Equal(t, http.StatusOK, rec.Code, d.ID)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err, d.ID)
		assert.Positive(t, img.Bounds().Dx())
	}

	assert.Equal(t, http.StatusNotFound, get(router, "/widget/nope/preview.png").Code)
}
