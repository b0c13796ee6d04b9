package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/widgetd/internal/i18n"
)

// LocaleHandler exposes the supported locales and the resolution rule.
type LocaleHandler struct{}

// NewLocaleHandler creates a new locale handler.
func NewLocaleHandler() *LocaleHandler {
	return &LocaleHandler{}
}

// ListLocalesInput is the input for listing locales.
type ListLocalesInput struct{}

// ListLocalesOutput is the output for listing locales.
type ListLocalesOutput struct {
	Body struct {
		Locales []LocaleResponse `json:"locales"`
	}
}

// ResolveLocaleInput is the input for resolving a locale.
type ResolveLocaleInput struct {
	Lang           string `query:"lang" doc:"Explicit locale from the embed URL"`
	Browser        string `query:"browser" doc:"Navigator language; overrides Accept-Language"`
	AcceptLanguage string `header:"Accept-Language"`
}

// ResolveLocaleOutput is the output for resolving a locale.
type ResolveLocaleOutput struct {
	Body struct {
		Locale string `json:"locale"`
		Name   string `json:"name"`
		// Source is "url", "browser" or "default".
		Source string `json:"source"`
	}
}

// Register registers the locale routes with the API.
func (h *LocaleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listLocales",
		Method:      "GET",
		Path:        "/api/v1/locales",
		Summary:     "List locales",
		Tags:        []string{"Locales"},
	}, h.ListLocales)

	huma.Register(api, huma.Operation{
		OperationID: "resolveLocale",
		Method:      "GET",
		Path:        "/api/v1/locales/resolve",
		Summary:     "Resolve locale",
		Description: "Applies the url, then browser, then default rule",
		Tags:        []string{"Locales"},
	}, h.ResolveLocale)
}

// ListLocales returns the supported locales in display order.
func (h *LocaleHandler) ListLocales(ctx context.Context, input *ListLocalesInput) (*ListLocalesOutput, error) {
	out := &ListLocalesOutput{}
	for _, l := range i18n.Locales() {
		out.Body.Locales = append(out.Body.Locales, LocaleResponse{
			Code:    string(l),
			Name:    l.Name(),
			Default: l == i18n.Default,
		})
	}
	return out, nil
}

// ResolveLocale resolves the display locale for the given inputs.
func (h *LocaleHandler) ResolveLocale(ctx context.Context, input *ResolveLocaleInput) (*ResolveLocaleOutput, error) {
	browser := input.Browser
	if browser == "" {
		browser = input.AcceptLanguage
	}

	l := i18n.ResolveLocale(input.Lang, browser)

	out := &ResolveLocaleOutput{}
	out.Body.Locale = string(l)
	out.Body.Name = l.Name()
	switch _, fromBrowser := i18n.FromBrowser(browser); {
	case i18n.Supported(input.Lang):
		out.Body.Source = "url"
	case fromBrowser:
		out.Body.Source = "browser"
	default:
		out.Body.Source = "default"
	}
	return out, nil
}
