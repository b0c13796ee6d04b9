// Package urlutil builds and parses widget embed URLs.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// ErrMalformedURL is returned when an embed URL cannot be parsed or has no
// widget path segment.
var ErrMalformedURL = errors.New("malformed embed URL")

// WidgetPathPrefix precedes the widget id in every embed URL path.
const WidgetPathPrefix = "/widget/"

// Query parameter names of the embed URL contract.
const (
	ParamTheme = "theme"
	ParamLang  = "lang"
)

// NormalizeBaseURL normalizes a base URL for consistent use:
//   - Adds http:// scheme if no scheme provided
//   - Removes trailing slash for clean path joining
//
// Examples:
//
//	"www.mysite.com"         -> "http://www.mysite.com"
//	"https://mysite.com/"    -> "https://mysite.com"
//	"http://localhost:8080/" -> "http://localhost:8080"
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return ""
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return strings.TrimRight(baseURL, "/")
}

// JoinPath joins a base URL with a path, ensuring single slashes.
func JoinPath(baseURL, path string) string {
	if baseURL == "" {
		return path
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

// WidgetPath returns the site-relative path of a widget page.
func WidgetPath(widgetID string) string {
	return WidgetPathPrefix + url.PathEscape(widgetID)
}

// BuildEmbedURL produces {baseURL}/widget/{widgetID}?theme={themeID}&lang={locale}
// with each component percent-encoded. An empty baseURL yields a
// site-relative URL.
func BuildEmbedURL(baseURL, widgetID, themeID string, locale i18n.Locale) string {
	var b strings.Builder
	b.WriteString(JoinPath(NormalizeBaseURL(baseURL), WidgetPath(widgetID)))
	b.WriteString("?" + ParamTheme + "=")
	b.WriteString(url.QueryEscape(themeID))
	b.WriteString("&" + ParamLang + "=")
	b.WriteString(url.QueryEscape(string(locale)))
	return b.String()
}

// EmbedParams is the decoded form of an embed URL. ThemeID and Locale are
// always usable values; unrecognized inputs have already been replaced by
// their defaults.
type EmbedParams struct {
	WidgetID string
	ThemeID  string
	Locale   i18n.Locale
	// Found reports whether WidgetID names a registered widget.
	Found bool
	// ThemeRecognized and LocaleRecognized report whether the URL carried a
	// known value or the default was substituted.
	ThemeRecognized  bool
	LocaleRecognized bool
}

// Resolver applies the embed URL fallback rules against a widget and theme
// registry, so an unknown theme falls back to that registry's default.
type Resolver struct {
	widgets *widget.Registry
	themes  *theme.Registry
}

// NewResolver creates a resolver. Nil registries mean the builtin ones.
func NewResolver(widgets *widget.Registry, themes *theme.Registry) *Resolver {
	if widgets == nil {
		widgets = widget.Builtin()
	}
	if themes == nil {
		themes = theme.MustBuiltin()
	}
	return &Resolver{widgets: widgets, themes: themes}
}

// Parse decodes an absolute or site-relative embed URL. Unknown theme and
// lang values fall back to their defaults and an unknown widget id is
// reported through Found; only URLs without a widget segment error.
func (r *Resolver) Parse(raw string) (EmbedParams, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return EmbedParams{}, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	widgetID, err := widgetSegment(u.EscapedPath())
	if err != nil {
		return EmbedParams{}, err
	}

	return r.Resolve(widgetID, u.Query().Get(ParamTheme), u.Query().Get(ParamLang)), nil
}

// Resolve applies the fallback rules to already extracted values.
func (r *Resolver) Resolve(widgetID, themeID, lang string) EmbedParams {
	p := EmbedParams{WidgetID: widgetID}

	_, p.Found = r.widgets.Find(widgetID)

	_, p.ThemeRecognized = r.themes.Get(themeID)
	p.ThemeID = r.themes.Lookup(themeID).ID

	p.LocaleRecognized = i18n.Supported(lang)
	p.Locale = i18n.ResolveLocale(lang, "")

	return p
}

// ParseEmbedURL is Parse against the builtin registries.
func ParseEmbedURL(raw string) (EmbedParams, error) {
	return NewResolver(nil, nil).Parse(raw)
}

// ResolveParams is Resolve against the builtin registries.
func ResolveParams(widgetID, themeID, lang string) EmbedParams {
	return NewResolver(nil, nil).Resolve(widgetID, themeID, lang)
}

func widgetSegment(escapedPath string) (string, error) {
	i := strings.LastIndex(escapedPath, WidgetPathPrefix)
	if i < 0 {
		return "", fmt.Errorf("%w: no %s segment in path %q", ErrMalformedURL, WidgetPathPrefix, escapedPath)
	}

	rest := escapedPath[i+len(WidgetPathPrefix):]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	if rest == "" {
		return "", fmt.Errorf("%w: empty widget id", ErrMalformedURL)
	}

	id, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	return id, nil
}
