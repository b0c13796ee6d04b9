package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/widgetd/internal/urlutil"
)

// EmbedHandler builds and parses embed URLs.
type EmbedHandler struct {
	baseURL  string
	resolver *urlutil.Resolver
}

// NewEmbedHandler creates a new embed handler. baseURL is the public origin
// used when a request does not name one; empty produces site-relative URLs.
// Unknown themes fall back to the default of the resolver's registry.
func NewEmbedHandler(baseURL string, resolver *urlutil.Resolver) *EmbedHandler {
	if resolver == nil {
		resolver = urlutil.NewResolver(nil, nil)
	}
	return &EmbedHandler{baseURL: urlutil.NormalizeBaseURL(baseURL), resolver: resolver}
}

// BuildEmbedURLInput is the input for building an embed URL.
type BuildEmbedURLInput struct {
	Widget string `query:"widget" required:"true" doc:"Widget ID"`
	Theme  string `query:"theme" doc:"Theme ID"`
	Lang   string `query:"lang" doc:"Locale code"`
	Base   string `query:"base" doc:"Base URL; defaults to the configured public URL"`
}

// ParseEmbedURLInput is the input for parsing an embed URL.
type ParseEmbedURLInput struct {
	URL string `query:"url" required:"true" doc:"Embed URL to decode"`
}

// EmbedURLOutput is the output of both embed URL operations.
type EmbedURLOutput struct {
	Body EmbedParamsResponse
}

// Register registers the embed URL routes with the API.
func (h *EmbedHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "buildEmbedURL",
		Method:      "GET",
		Path:        "/api/v1/embed-url",
		Summary:     "Build embed URL",
		Description: "Builds the iframe URL for a widget, theme and locale. Unknown values fall back to their defaults.",
		Tags:        []string{"Embed"},
	}, h.BuildEmbedURL)

	huma.Register(api, huma.Operation{
		OperationID: "parseEmbedURL",
		Method:      "GET",
		Path:        "/api/v1/embed-url/parse",
		Summary:     "Parse embed URL",
		Tags:        []string{"Embed"},
	}, h.ParseEmbedURL)
}

// BuildEmbedURL builds an embed URL. The theme and locale in the URL are
// the resolved ones, so the result always round-trips.
func (h *EmbedHandler) BuildEmbedURL(ctx context.Context, input *BuildEmbedURLInput) (*EmbedURLOutput, error) {
	base := h.baseURL
	if input.Base != "" {
		base = input.Base
	}

	p := h.resolver.Resolve(input.Widget, input.Theme, input.Lang)
	resp := fromEmbedParams(p)
	resp.URL = urlutil.BuildEmbedURL(base, p.WidgetID, p.ThemeID, p.Locale)

	return &EmbedURLOutput{Body: resp}, nil
}

// ParseEmbedURL decodes an embed URL.
func (h *EmbedHandler) ParseEmbedURL(ctx context.Context, input *ParseEmbedURLInput) (*EmbedURLOutput, error) {
	p, err := h.resolver.Parse(input.URL)
	if err != nil {
		if errors.Is(err, urlutil.ErrMalformedURL) {
			return nil, huma.Error400BadRequest("malformed embed URL", err)
		}
		return nil, huma.Error500InternalServerError("failed to parse embed URL", err)
	}

	resp := fromEmbedParams(p)
	resp.URL = input.URL
	return &EmbedURLOutput{Body: resp}, nil
}

func fromEmbedParams(p urlutil.EmbedParams) EmbedParamsResponse {
	return EmbedParamsResponse{
		WidgetID:         p.WidgetID,
		Theme:            p.ThemeID,
		Locale:           string(p.Locale),
		Found:            p.Found,
		ThemeRecognized:  p.ThemeRecognized,
		LocaleRecognized: p.LocaleRecognized,
	}
}
