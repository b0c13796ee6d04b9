package handlers

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// WidgetHandler serves the widget registry and per-widget display state.
type WidgetHandler struct {
	registry *widget.Registry
	catalog  *i18n.Catalog
	params   engine.Params
	now      func() time.Time
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(registry *widget.Registry, catalog *i18n.Catalog, params engine.Params) *WidgetHandler {
	return &WidgetHandler{
		registry: registry,
		catalog:  catalog,
		params:   params,
		now:      time.Now,
	}
}

// WithClock replaces time.Now (for testing).
func (h *WidgetHandler) WithClock(now func() time.Time) *WidgetHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// ListWidgetsInput is the input for listing widgets.
type ListWidgetsInput struct {
	Category string `query:"category" doc:"Only widgets of this category"`
	Lang     string `query:"lang" doc:"Locale for translated labels"`
}

// ListWidgetsOutput is the output for listing widgets.
type ListWidgetsOutput struct {
	Body struct {
		Widgets    []WidgetResponse   `json:"widgets"`
		Categories []CategoryResponse `json:"categories"`
	}
}

// GetWidgetInput is the input for a single widget.
type GetWidgetInput struct {
	ID   string `path:"id" doc:"Widget ID"`
	Lang string `query:"lang" doc:"Locale for translated labels"`
}

// GetWidgetOutput is the output for a single widget.
type GetWidgetOutput struct {
	Body WidgetResponse
}

// GetWidgetStateInput is the input for a widget's display state.
type GetWidgetStateInput struct {
	ID string `path:"id" doc:"Widget ID"`
	TZ string `query:"tz" doc:"IANA time zone of the viewer; defaults to the server's zone" example:"Asia/Seoul"`
}

// GetWidgetStateOutput is the output for a widget's display state.
type GetWidgetStateOutput struct {
	Body engine.DisplayState
}

// Register registers the widget routes with the API.
func (h *WidgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listWidgets",
		Method:      "GET",
		Path:        "/api/v1/widgets",
		Summary:     "List widgets",
		Description: "Returns the widget registry in gallery order with category counts",
		Tags:        []string{"Widgets"},
	}, h.ListWidgets)

	huma.Register(api, huma.Operation{
		OperationID: "getWidget",
		Method:      "GET",
		Path:        "/api/v1/widgets/{id}",
		Summary:     "Get widget",
		Tags:        []string{"Widgets"},
	}, h.GetWidget)

	huma.Register(api, huma.Operation{
		OperationID: "getWidgetState",
		Method:      "GET",
		Path:        "/api/v1/widgets/{id}/state",
		Summary:     "Get widget display state",
		Description: "Computes the widget's display state for the current time",
		Tags:        []string{"Widgets"},
	}, h.GetWidgetState)
}

// ListWidgets returns all widgets, optionally filtered by category.
func (h *WidgetHandler) ListWidgets(ctx context.Context, input *ListWidgetsInput) (*ListWidgetsOutput, error) {
	tr := h.catalog.For(i18n.ResolveLocale(input.Lang, ""))

	descriptors := h.registry.List()
	if input.Category != "" {
		descriptors = h.registry.InCategory(widget.Category(input.Category))
	}

	out := &ListWidgetsOutput{}
	out.Body.Widgets = make([]WidgetResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out.Body.Widgets = append(out.Body.Widgets, WidgetFromDescriptor(d, tr))
	}

	cats := h.registry.Categories()
	out.Body.Categories = make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out.Body.Categories = append(out.Body.Categories, CategoryResponse{
			Category: string(c.Category),
			Label:    tr.T(c.Category.Key()),
			Count:    c.Count,
		})
	}

	return out, nil
}

// GetWidget returns one widget descriptor.
func (h *WidgetHandler) GetWidget(ctx context.Context, input *GetWidgetInput) (*GetWidgetOutput, error) {
	d, ok := h.registry.Find(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("widget not found")
	}
	tr := h.catalog.For(i18n.ResolveLocale(input.Lang, ""))
	return &GetWidgetOutput{Body: WidgetFromDescriptor(d, tr)}, nil
}

// GetWidgetState computes the display state of one widget.
func (h *WidgetHandler) GetWidgetState(ctx context.Context, input *GetWidgetStateInput) (*GetWidgetStateOutput, error) {
	d, ok := h.registry.Find(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("widget not found")
	}

	env := environment.FromParts(url.Values{environment.ParamTimeZone: {input.TZ}}, nil, h.now)
	state, err := engine.Compute(d.Kind, environment.LocalNow(env), h.params)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownKind) {
			return nil, huma.Error422UnprocessableEntity("widget has no time engine", err)
		}
		return nil, huma.Error500InternalServerError("failed to compute state", err)
	}

	return &GetWidgetStateOutput{Body: state}, nil
}
