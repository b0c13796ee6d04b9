package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/widgetd/internal/assets"
)

// StaticPrefix is the URL prefix of the embedded assets.
const StaticPrefix = "/static/"

// StaticHandler serves the embedded scripts and stylesheets.
type StaticHandler struct {
	fsys       fs.FS
	fileServer http.Handler
}

// NewStaticHandler creates a handler over the embedded static tree.
func NewStaticHandler() *StaticHandler {
	return NewStaticHandlerFS(assets.StaticFS())
}

// NewStaticHandlerFS creates a handler over fsys.
func NewStaticHandlerFS(fsys fs.FS) *StaticHandler {
	return &StaticHandler{
		fsys:       fsys,
		fileServer: http.FileServer(http.FS(fsys)),
	}
}

// RegisterChiRoutes registers the static route.
func (h *StaticHandler) RegisterChiRoutes(r chi.Router) {
	r.Handle(StaticPrefix+"*", http.StripPrefix(strings.TrimSuffix(StaticPrefix, "/"), h))
}

// ServeHTTP serves one asset. Directory listings are not served.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	info, err := fs.Stat(h.fsys, filePath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", assets.GetContentType(filePath))
	// Assets are embedded in the binary, so they only change with a new build.
	w.Header().Set("Cache-Control", "public, max-age=3600")
	h.fileServer.ServeHTTP(w, r)
}
