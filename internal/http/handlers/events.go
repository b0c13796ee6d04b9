package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// EventState is the SSE event name carrying a DisplayState.
const EventState = "state"

// DefaultHeartbeatInterval is used when none is configured.
const DefaultHeartbeatInterval = 15 * time.Second

// EventsHandler streams per-widget display state over Server-Sent Events.
// Each connection owns one engine.Ticker.
type EventsHandler struct {
	widgets           *widget.Registry
	params            engine.Params
	heartbeatInterval time.Duration
	tickInterval      time.Duration
	now               func() time.Time
	logger            *slog.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(widgets *widget.Registry, params engine.Params) *EventsHandler {
	return &EventsHandler{
		widgets:           widgets,
		params:            params,
		heartbeatInterval: DefaultHeartbeatInterval,
		now:               time.Now,
		logger:            slog.Default(),
	}
}

// SetHeartbeatInterval sets the SSE heartbeat interval.
func (h *EventsHandler) SetHeartbeatInterval(interval time.Duration) {
	if interval > 0 {
		h.heartbeatInterval = interval
	}
}

// SetTickInterval overrides every widget's tick interval (for testing).
func (h *EventsHandler) SetTickInterval(interval time.Duration) {
	h.tickInterval = interval
}

// WithClock replaces time.Now (for testing).
func (h *EventsHandler) WithClock(now func() time.Time) *EventsHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// WithLogger sets a custom logger.
func (h *EventsHandler) WithLogger(logger *slog.Logger) *EventsHandler {
	h.logger = logger
	return h
}

// RegisterChiRoutes registers the SSE endpoint. Huma does not stream, so
// this is a plain chi route.
func (h *EventsHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/widget/{id}/events", h.handleEvents)
}

func (h *EventsHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, ok := h.widgets.Find(id)
	if !ok {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}

	// Only the newest state matters; a slow client skips stale ones.
	states := make(chan engine.DisplayState, 1)
	ticker, err := engine.NewTicker(d.Kind, h.params, func(s engine.DisplayState) {
		select {
		case states <- s:
		default:
			select {
			case <-states:
			default:
			}
			states <- s
		}
	})
	if err != nil {
		if errors.Is(err, engine.ErrUnknownKind) {
			http.Error(w, "widget has no event stream", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to start stream", http.StatusInternalServerError)
		return
	}
	env := environment.FromRequest(r, h.now)
	ticker.WithClock(func() time.Time { return environment.LocalNow(env) }).WithLogger(h.logger).WithInterval(h.tickInterval)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	// The server's write timeout would otherwise cut the stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("clearing SSE write deadline", slog.Any("error", err))
	}

	ctx := r.Context()
	if err := ticker.Start(ctx); err != nil {
		http.Error(w, "failed to start stream", http.StatusInternalServerError)
		return
	}
	defer ticker.Stop()

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	fmt.Fprintf(w, "retry: 3000\n:connected\n\n")
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush initial SSE connection", slog.Any("error", err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ":heartbeat %d\n\n", h.now().Unix())
			if err := rc.Flush(); err != nil {
				h.logger.Debug("heartbeat flush failed, client likely disconnected", slog.Any("error", err))
				return
			}
		case s := <-states:
			if err := writeStateEvent(w, s); err != nil {
				h.logger.Error("failed to write SSE event",
					slog.String("widget", d.ID),
					slog.Any("error", err))
				return
			}
			if err := rc.Flush(); err != nil {
				h.logger.Debug("event flush failed, client likely disconnected",
					slog.String("widget", d.ID),
					slog.Any("error", err))
				return
			}
		}
	}
}

// writeStateEvent writes one state event in a single write.
func writeStateEvent(w http.ResponseWriter, s engine.DisplayState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	message := []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", ulid.Make(), EventState, data))
	n, err := w.Write(message)
	if err != nil {
		return err
	}
	if n < len(message) {
		return fmt.Errorf("short write: wrote %d of %d bytes", n, len(message))
	}
	return nil
}
