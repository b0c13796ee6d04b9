// Package handlers provides the HTTP handlers of widgetd. JSON endpoints are
// huma operations; pages, event streams, theme stylesheets and static assets
// are plain chi routes.
package handlers

import (
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// SizeResponse is a width/height pair.
type SizeResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WidgetResponse represents a widget descriptor in API responses.
type WidgetResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	LocalizedName string       `json:"localized_name"`
	Description   string       `json:"description"`
	Category      string       `json:"category"`
	CategoryLabel string       `json:"category_label"`
	Icon          string       `json:"icon"`
	Kind          string       `json:"kind"`
	DefaultSize   SizeResponse `json:"default_size"`
	EmbedSize     SizeResponse `json:"embed_size"`
	AspectRatio   float64      `json:"aspect_ratio"`
	Path          string       `json:"path"`
}

// WidgetFromDescriptor converts a descriptor, translating labels with tr.
func WidgetFromDescriptor(d widget.Descriptor, tr i18n.Translator) WidgetResponse {
	return WidgetResponse{
		ID:            d.ID,
		Name:          d.Name,
		LocalizedName: tr.T(d.NameKey),
		Description:   d.Description,
		Category:      string(d.Category),
		CategoryLabel: tr.T(d.Category.Key()),
		Icon:          d.Icon,
		Kind:          string(d.Kind),
		DefaultSize:   SizeResponse{Width: d.DefaultSize.Width, Height: d.DefaultSize.Height},
		EmbedSize:     SizeResponse{Width: d.EmbedSize.Width, Height: d.EmbedSize.Height},
		AspectRatio:   d.EmbedSize.AspectRatio(),
		Path:          "/widget/" + d.ID,
	}
}

// CategoryResponse is one gallery category with its widget count.
type CategoryResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// ThemeResponse represents a theme in API responses.
type ThemeResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Variant    string           `json:"variant"`
	Dark       bool             `json:"dark"`
	Default    bool             `json:"default"`
	Colors     theme.Colors     `json:"colors"`
	Typography theme.Typography `json:"typography"`
	Style      *theme.Style     `json:"style,omitempty"`
	CSSURL     string           `json:"css_url"`
}

// ThemeFromModel converts a theme.
func ThemeFromModel(t theme.Theme) ThemeResponse {
	resp := ThemeResponse{
		ID:         t.ID,
		Name:       t.Name,
		Variant:    t.Variant.Kind(),
		Dark:       t.IsDark(),
		Default:    t.ID == theme.DefaultID,
		Colors:     t.Colors,
		Typography: t.Typography,
		CSSURL:     "/api/v1/themes/" + t.ID + ".css",
	}
	switch v := t.Variant.(type) {
	case theme.Decorated:
		style := v.Style
		resp.Style = &style
	case theme.Flat:
	}
	return resp
}

// LocaleResponse represents a supported locale.
type LocaleResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// EmbedParamsResponse is the decoded form of an embed URL.
type EmbedParamsResponse struct {
	URL              string `json:"url,omitempty"`
	WidgetID         string `json:"widget_id"`
	Theme            string `json:"theme"`
	Locale           string `json:"locale"`
	Found            bool   `json:"found"`
	ThemeRecognized  bool   `json:"theme_recognized"`
	LocaleRecognized bool   `json:"locale_recognized"`
}
