package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/environment"
)

const sampleForecast = `{
  "latitude": 51.5,
  "longitude": -0.12,
  "current_units": {"temperature_2m": "°C", "wind_speed_10m": "km/h"},
  "current": {
    "time": "2025-03-01T12:00",
    "temperature_2m": 8.4,
    "relative_humidity_2m": 71.6,
    "weather_code": 61,
    "wind_speed_10m": 14.2
  }
}`

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_Ready(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "51.5000", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-0.1200", r.URL.Query().Get("longitude"))
		assert.Contains(t, r.URL.Query().Get("current"), "weather_code")
		assert.Empty(t, r.URL.Query().Get("temperature_unit"))
		_, _ = w.Write([]byte(sampleForecast))
	})

	c := New(Config{BaseURL: srv.URL}, nil)
	r, err := c.Fetch(context.Background(), environment.Coordinates{Latitude: 51.5, Longitude: -0.12})
	require.NoError(t, err)

	assert.Equal(t, StatusReady, r.Status)
	assert.InDelta(t, 8.4, r.Temperature, 1e-9)
	assert.Equal(t, "°C", r.TemperatureUnit)
	assert.Equal(t, 72, r.Humidity)
	assert.InDelta(t, 14.2, r.WindSpeed, 1e-9)
	assert.Equal(t, "km/h", r.WindUnit)
	assert.Equal(t, 61, r.Code)
	assert.Equal(t, "weather.rainy", r.ConditionKey)
	assert.Equal(t, "2025-03-01T12:00", r.ObservedAt)
}

func TestFetch_Imperial(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fahrenheit", r.URL.Query().Get("temperature_unit"))
		assert.Equal(t, "mph", r.URL.Query().Get("wind_speed_unit"))
		_, _ = w.Write([]byte(sampleForecast))
	})

	c := New(Config{BaseURL: srv.URL + "/", Units: UnitsImperial}, nil)
	_, err := c.Fetch(context.Background(), DefaultLocation)
	require.NoError(t, err)
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"current":`))
		}},
		{"missing current", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"latitude": 1}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newServer(t, tt.handler)
			c := New(Config{BaseURL: srv.URL}, nil)

			r, err := c.Fetch(context.Background(), DefaultLocation)
			require.Error(t, err)
			assert.Equal(t, StatusError, r.Status)
			assert.Equal(t, "weather.error", r.ErrorKey)
			assert.NotEmpty(t, r.Error)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits), "no retry")
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := New(Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond}, nil)
	r, err := c.Fetch(context.Background(), DefaultLocation)
	require.Error(t, err)
	assert.Equal(t, StatusError, r.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCurrent_FallsBackToDefaultLocation(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "37.5665", r.URL.Query().Get("latitude"))
		assert.Equal(t, "126.9780", r.URL.Query().Get("longitude"))
		_, _ = w.Write([]byte(sampleForecast))
	})
	c := New(Config{BaseURL: srv.URL}, nil)

	r := c.Current(context.Background(), &environment.Fake{LocateErr: errors.New("denied")})
	assert.Equal(t, StatusReady, r.Status)
	assert.False(t, r.FromDevice)
	assert.Equal(t, "Seoul", r.LocationName)
	assert.Equal(t, DefaultLocation, r.Location)
}

func TestCurrent_DeviceLocation(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.8566", r.URL.Query().Get("latitude"))
		_, _ = w.Write([]byte(sampleForecast))
	})
	c := New(Config{BaseURL: srv.URL}, nil)

	paris := environment.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	r := c.Current(context.Background(), &environment.Fake{Location: paris})
	assert.True(t, r.FromDevice)
	assert.Empty(t, r.LocationName)
	assert.Equal(t, paris, r.Location)
}

func TestCurrent_ErrorIsAReport(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := New(Config{BaseURL: srv.URL}, nil)

	r := c.Current(context.Background(), &environment.Fake{LocateErr: errors.New("denied")})
	assert.Equal(t, StatusError, r.Status)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{}, nil)
	cfg := c.Config()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLocation, cfg.DefaultLocation)
	assert.Equal(t, UnitsMetric, cfg.Units)
	assert.NotNil(t, c.HTTPClient())
	assert.Equal(t, StatusLoading, Loading().Status)
}

func TestConditionFor(t *testing.T) {
	for code, key := range map[int]string{
		0:  "weather.sunny",
		1:  "weather.partlyCloudy",
		2:  "weather.partlyCloudy",
		3:  "weather.cloudy",
		45: "weather.fog",
		53: "weather.rainy",
		81: "weather.rainy",
		73: "weather.snow",
		86: "weather.snow",
		95: "weather.thunderstorm",
		42: "weather.cloudy",
	} {
		assert.Equal(t, key, ConditionFor(code).Key, code)
		assert.NotEmpty(t, ConditionFor(code).Icon)
	}
}
