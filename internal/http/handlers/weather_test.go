package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/http/handlers"
	"github.com/jmylchreest/widgetd/internal/weather"
)

const forecastJSON = `{
  "current_units": {"temperature_2m": "°C", "wind_speed_10m": "km/h"},
  "current": {
    "time": "2024-04-16T09:00",
    "temperature_2m": 15.2,
    "relative_humidity_2m": 40,
    "weather_code": 0,
    "wind_speed_10m": 6.1
  }
}`

func TestWeatherHandler(t *testing.T) {
	var (
		status   atomic.Int32
		lastLat  atomic.Value
		requests atomic.Int32
	)
	status.Store(http.StatusOK)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		lastLat.Store(r.URL.Query().Get("latitude"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(forecastJSON))
	}))
	t.Cleanup(upstream.Close)

	client := weather.New(weather.Config{BaseURL: upstream.URL}, quietLogger())
	router, api := newTestAPI()
	handlers.NewWeatherHandler(client).Register(api)

	t.Run("device location", func(t *testing.T) {
		rec := get(router, "/api/v1/weather?lat=51.5&lon=-0.12")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		r := decode[weather.Report](t, rec)
		assert.Equal(t, weather.StatusReady, r.Status)
		assert.True(t, r.FromDevice)
		assert.InDelta(t, 15.2, r.Temperature, 1e-9)
		assert.Equal(t, "51.5000", lastLat.Load())
	})

	t.Run("default location without coordinates", func(t *testing.T) {
		rec := get(router, "/api/v1/weather")
		require.Equal(t, http.StatusOK, rec.Code)

		r := decode[weather.Report](t, rec)
		assert.False(t, r.FromDevice)
		assert.Equal(t, weather.DefaultLocationName, r.LocationName)
		assert.Equal(t, "37.5665", lastLat.Load())
	})

	t.Run("upstream failure is an error report", func(t *testing.T) {
		status.Store(http.StatusBadGateway)
		before := requests.Load()

		rec := get(router, "/api/v1/weather?lat=1&lon=2")
		require.Equal(t, http.StatusOK, rec.Code)

		r := decode[weather.Report](t, rec)
		assert.Equal(t, weather.StatusError, r.Status)
		assert.Equal(t, "weather.error", r.ErrorKey)
		assert.Equal(t, before+1, requests.Load(), "no retry")
	})
}
