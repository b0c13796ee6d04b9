// Package assets embeds the widgetd page templates, browser scripts and the
// static registry data (themes and translation catalogs).
//
// Layout:
//
//	static/     served verbatim under /static/
//	templates/  html/template sources for the gallery and widget pages
//	data/       themes.yaml and locales/<code>.yaml
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed templates
var templateFiles embed.FS

//go:embed data
var dataFiles embed.FS

// StaticFS returns the static asset tree rooted at "static/".
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// embed guarantees the directory exists.
		panic(err)
	}
	return sub
}

// TemplatesFS returns the page templates rooted at "templates/".
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// ThemesYAML returns the raw theme registry definition.
func ThemesYAML() ([]byte, error) {
	data, err := dataFiles.ReadFile("data/themes.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading themes.yaml: %w", err)
	}
	return data, nil
}

// LocaleYAML returns the raw translation catalog for a locale code.
func LocaleYAML(code string) ([]byte, error) {
	data, err := dataFiles.ReadFile(path.Join("data/locales", code+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", code, err)
	}
	return data, nil
}

// GetContentType returns the MIME type for a given file path based on extension.
func GetContentType(p string) string {
	ext := filepath.Ext(p)
	if ext == "" {
		return "application/octet-stream"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}

	switch strings.ToLower(ext) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	case ".woff2":
		return "font/woff2"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// ListStatic returns the paths of every embedded static file.
func ListStatic() ([]string, error) {
	var files []string
	err := fs.WalkDir(StaticFS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
