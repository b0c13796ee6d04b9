// Package config provides configuration management for widgetd using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/weather"
)

// EnvPrefix prefixes every environment override, e.g. WIDGETD_SERVER_PORT.
const EnvPrefix = "WIDGETD"

// Default configuration values.
const (
	defaultServerPort        = 8080
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultHeartbeatInterval = 15 * time.Second
	defaultCountdownTarget   = "2025-01-01"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Weather WeatherConfig `mapstructure:"weather" yaml:"weather"`
	Widgets WidgetsConfig `mapstructure:"widgets" yaml:"widgets"`
	Stream  StreamConfig  `mapstructure:"stream" yaml:"stream"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// BaseURL is the public origin used in embed URLs. Empty means the
	// origin of the incoming request.
	BaseURL     string   `mapstructure:"base_url" yaml:"base_url"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	// FrameAncestors feeds the frame-ancestors CSP directive on widget pages.
	FrameAncestors []string `mapstructure:"frame_ancestors" yaml:"frame_ancestors"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level          string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format         string `mapstructure:"format" yaml:"format"` // json, text
	AddSource      bool   `mapstructure:"add_source" yaml:"add_source"`
	TimeFormat     string `mapstructure:"time_format" yaml:"time_format"`
	RequestLogging bool   `mapstructure:"request_logging" yaml:"request_logging"`
}

// WeatherConfig configures the Open-Meteo client.
type WeatherConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Latitude     float64       `mapstructure:"latitude" yaml:"latitude"`
	Longitude    float64       `mapstructure:"longitude" yaml:"longitude"`
	LocationName string        `mapstructure:"location_name" yaml:"location_name"`
	Units        string        `mapstructure:"units" yaml:"units"` // metric, imperial
}

// WidgetsConfig holds parameters of the time engines.
type WidgetsConfig struct {
	// CountdownTarget is an RFC 3339 timestamp or a YYYY-MM-DD date in
	// local time.
	CountdownTarget string `mapstructure:"countdown_target" yaml:"countdown_target"`
	// QuoteSchedule is a cron spec with optional seconds field.
	QuoteSchedule string `mapstructure:"quote_schedule" yaml:"quote_schedule"`
	DefaultTheme  string `mapstructure:"default_theme" yaml:"default_theme"`
}

// StreamConfig configures the server-sent event stream.
type StreamConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Example: WIDGETD_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/widgetd")
		v.AddConfigPath("$HOME/.widgetd")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.idle_timeout", defaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.frame_ancestors", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.request_logging", true)

	// Weather defaults
	v.SetDefault("weather.base_url", weather.DefaultBaseURL)
	v.SetDefault("weather.timeout", weather.DefaultTimeout)
	v.SetDefault("weather.latitude", weather.DefaultLocation.Latitude)
	v.SetDefault("weather.longitude", weather.DefaultLocation.Longitude)
	v.SetDefault("weather.location_name", weather.DefaultLocationName)
	v.SetDefault("weather.units", string(weather.UnitsMetric))

	// Widget defaults
	v.SetDefault("widgets.countdown_target", defaultCountdownTarget)
	v.SetDefault("widgets.quote_schedule", engine.DefaultQuoteSpec)
	v.SetDefault("widgets.default_theme", theme.DefaultID)

	// Stream defaults
	v.SetDefault("stream.heartbeat_interval", defaultHeartbeatInterval)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
		}
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return errors.New("logging.format must be one of: json, text")
	}

	// Weather validation
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if err := c.Weather.Location().Validate(); err != nil {
		return fmt.Errorf("weather location: %w", err)
	}
	switch weather.Units(c.Weather.Units) {
	case weather.UnitsMetric, weather.UnitsImperial:
	default:
		return errors.New("weather.units must be one of: metric, imperial")
	}

	// Widget validation
	if _, err := c.Widgets.Target(time.Local); err != nil {
		return err
	}
	if _, err := engine.ParseSchedule(c.Widgets.QuoteSchedule); err != nil {
		return fmt.Errorf("widgets.quote_schedule: %w", err)
	}
	if c.Widgets.DefaultTheme != "" && !theme.Known(c.Widgets.DefaultTheme) {
		return fmt.Errorf("widgets.default_theme %q is not a known theme", c.Widgets.DefaultTheme)
	}

	// Stream validation
	if c.Stream.HeartbeatInterval < time.Second {
		return errors.New("stream.heartbeat_interval must be at least 1s")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location returns the configured default coordinates.
func (c *WeatherConfig) Location() environment.Coordinates {
	return environment.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// ClientConfig converts to the weather client's configuration.
func (c *WeatherConfig) ClientConfig() weather.Config {
	return weather.Config{
		BaseURL:             c.BaseURL,
		Timeout:             c.Timeout,
		DefaultLocation:     c.Location(),
		DefaultLocationName: c.LocationName,
		Units:               weather.Units(c.Units),
	}
}

// Target parses CountdownTarget. Dates without a time resolve to midnight
// in loc.
func (c *WidgetsConfig) Target(loc *time.Location) (time.Time, error) {
	if c.CountdownTarget == "" {
		return engine.DefaultCountdownTarget(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, c.CountdownTarget); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, c.CountdownTarget, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("widgets.countdown_target %q is neither RFC 3339 nor YYYY-MM-DD", c.CountdownTarget)
	}
	return t, nil
}

// Params builds the engine parameters for the configured widgets.
func (c *WidgetsConfig) Params(loc *time.Location) (engine.Params, error) {
	target, err := c.Target(loc)
	if err != nil {
		return engine.Params{}, err
	}
	spec := c.QuoteSchedule
	if spec == "" {
		spec = engine.DefaultQuoteSpec
	}
	sched, err := engine.ParseSchedule(spec)
	if err != nil {
		return engine.Params{}, fmt.Errorf("widgets.quote_schedule: %w", err)
	}
	return engine.Params{
		CountdownTarget: target,
		QuoteSchedule:   sched,
		Quotes:          engine.DefaultQuotes(),
	}, nil
}
