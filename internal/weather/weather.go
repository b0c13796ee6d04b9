// Package weather fetches current conditions from Open-Meteo for the
// weather widget.
package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/pkg/httpclient"
)

// ErrIncomplete is returned when the response lacks current conditions.
var ErrIncomplete = errors.New("weather response missing current conditions")

// Status is the lifecycle of a weather report. StatusError is terminal:
// a failed report is never retried automatically.
type Status string

// Report statuses.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Units selects metric or imperial values.
type Units string

// Supported units.
const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Defaults.
const (
	DefaultBaseURL      = "https://api.open-meteo.com"
	DefaultTimeout      = 10 * time.Second
	DefaultLocationName = "Seoul"
)

// DefaultLocation is used when the viewer's position is unknown.
var DefaultLocation = environment.Coordinates{Latitude: 37.5665, Longitude: 126.9780}

// Config configures a Client.
type Config struct {
	BaseURL             string
	Timeout             time.Duration
	DefaultLocation     environment.Coordinates
	DefaultLocationName string
	Units               Units
}

// DefaultConfig returns the Open-Meteo defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:             DefaultBaseURL,
		Timeout:             DefaultTimeout,
		DefaultLocation:     DefaultLocation,
		DefaultLocationName: DefaultLocationName,
		Units:               UnitsMetric,
	}
}

// Report is what the widget displays.
type Report struct {
	Status       Status                  `json:"status"`
	Location     environment.Coordinates `json:"location"`
	LocationName string                  `json:"location_name,omitempty"`
	// FromDevice is false when the default location was substituted.
	FromDevice bool `json:"from_device"`

	Temperature     float64 `json:"temperature"`
	TemperatureUnit string  `json:"temperature_unit"`
	Humidity        int     `json:"humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	WindUnit        string  `json:"wind_unit"`
	Code            int     `json:"code"`
	ConditionKey    string  `json:"condition_key"`
	Icon            string  `json:"icon"`
	ObservedAt      string  `json:"observed_at,omitempty"`

	ErrorKey string `json:"error_key,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Loading is the placeholder shown before the first fetch completes.
func Loading() Report {
	return Report{Status: StatusLoading, ConditionKey: "weather.loading"}
}

// Client fetches reports. Retries are disabled: one attempt per report.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger *slog.Logger
}

// New creates a client. Zero config fields take the defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.DefaultLocation == (environment.Coordinates{}) {
		cfg.DefaultLocation = def.DefaultLocation
		if cfg.DefaultLocationName == "" {
			cfg.DefaultLocationName = def.DefaultLocationName
		}
	}
	if cfg.Units == "" {
		cfg.Units = def.Units
	}
	if logger == nil {
		logger = slog.Default()
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.Timeout
	hc.RetryAttempts = 0
	hc.Logger = logger
	hc.MaxResponseSize = 1 << 20

	return &Client{
		cfg:    cfg,
		http:   httpclient.New(hc),
		logger: logger,
	}
}

// HTTPClient exposes the transport for health reporting.
func (c *Client) HTTPClient() *httpclient.Client {
	return c.http
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Current locates the viewer through env, falling back to the default
// location, and fetches conditions there. Failures produce an error
// report rather than an error.
func (c *Client) Current(ctx context.Context, env environment.Environment) Report {
	coords, fromDevice := environment.LocateOr(ctx, env, c.cfg.DefaultLocation)

	r, err := c.Fetch(ctx, coords)
	r.FromDevice = fromDevice
	if !fromDevice {
		r.LocationName = c.cfg.DefaultLocationName
	}
	if err != nil {
		c.logger.Warn("weather fetch failed",
			slog.Float64("latitude", coords.Latitude),
			slog.Float64("longitude", coords.Longitude),
			slog.Any("error", err))
	}
	return r
}

// forecast is the subset of the Open-Meteo /v1/forecast response we read.
type forecast struct {
	Current *struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WeatherCode *int     `json:"weather_code"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
		WindSpeed   string `json:"wind_speed_10m"`
	} `json:"current_units"`
}

// Fetch requests current conditions at coords. On failure the returned
// report is in StatusError and err says why.
func (c *Client) Fetch(ctx context.Context, coords environment.Coordinates) (Report, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	report := Report{Location: coords}

	var f forecast
	if err := c.http.GetJSON(ctx, c.forecastURL(coords), &f); err != nil {
		return failed(report, err), err
	}
	cur := f.Current
	if cur == nil || cur.Temperature == nil || cur.WeatherCode == nil {
		return failed(report, ErrIncomplete), ErrIncomplete
	}

	cond := ConditionFor(*cur.WeatherCode)
	report.Status = StatusReady
	report.Temperature = *cur.Temperature
	report.TemperatureUnit = f.CurrentUnits.Temperature
	if cur.Humidity != nil {
		report.Humidity = int(*cur.Humidity + 0.5)
	}
	if cur.WindSpeed != nil {
		report.WindSpeed = *cur.WindSpeed
	}
	report.WindUnit = f.CurrentUnits.WindSpeed
	report.Code = *cur.WeatherCode
	report.ConditionKey = cond.Key
	report.Icon = cond.Icon
	report.ObservedAt = cur.Time
	return report, nil
}

func failed(r Report, err error) Report {
	r.Status = StatusError
	r.ErrorKey = "weather.error"
	r.Error = err.Error()
	return r
}

func (c *Client) forecastURL(coords environment.Coordinates) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	q.Set("timezone", "auto")
	if c.cfg.Units == UnitsImperial {
		q.Set("temperature_unit", "fahrenheit")
		q.Set("wind_speed_unit", "mph")
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/forecast?" + q.Encode()
}
