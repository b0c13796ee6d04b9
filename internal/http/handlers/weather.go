package handlers

import (
	"context"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/weather"
)

// WeatherHandler serves current conditions for the weather widget.
type WeatherHandler struct {
	client *weather.Client
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(client *weather.Client) *WeatherHandler {
	return &WeatherHandler{client: client}
}

// GetWeatherInput is the input for the weather endpoint. Coordinates come
// from the browser's geolocation; without them the default location is used.
type GetWeatherInput struct {
	Lat string `query:"lat" doc:"Latitude from the browser"`
	Lon string `query:"lon" doc:"Longitude from the browser"`
}

// GetWeatherOutput is the output for the weather endpoint.
type GetWeatherOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         weather.Report
}

// Register registers the weather route with the API.
func (h *WeatherHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getWeather",
		Method:      "GET",
		Path:        "/api/v1/weather",
		Summary:     "Current weather",
		Description: "Fetches current conditions once. Upstream failures are reported in the body with status \"error\" and are not retried.",
		Tags:        []string{"Weather"},
	}, h.GetWeather)
}

// GetWeather fetches current conditions at the requested or default
// location. Upstream failures are a 200 response with an error report.
func (h *WeatherHandler) GetWeather(ctx context.Context, input *GetWeatherInput) (*GetWeatherOutput, error) {
	q := url.Values{}
	if input.Lat != "" {
		q.Set(environment.ParamLatitude, input.Lat)
	}
	if input.Lon != "" {
		q.Set(environment.ParamLongitude, input.Lon)
	}

	report := h.client.Current(ctx, environment.FromParts(q, nil, nil))
	return &GetWeatherOutput{
		CacheControl: "no-store",
		Body:         report,
	}, nil
}
