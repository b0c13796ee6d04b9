package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/widgetd/internal/environment"
	"github.com/jmylchreest/widgetd/internal/observability"
	"github.com/jmylchreest/widgetd/internal/urlutil"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	size        int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach Flush and deadlines on the
// underlying writer; the event stream depends on it.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// requestAttrs describes what a request was for. Widget routes carry the
// widget id and whether the browser loaded the page into a frame.
func requestAttrs(r *http.Request) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if rest, ok := strings.CutPrefix(r.URL.Path, urlutil.WidgetPathPrefix); ok {
		id, _, _ := strings.Cut(rest, "/")
		attrs = append(attrs, slog.String("widget", id))
		if dest := r.Header.Get(environment.HeaderFetchDest); dest != "" {
			attrs = append(attrs, slog.String("fetch_dest", dest))
		}
	}
	return attrs
}

// levelFor maps a response to a log level. Successful asset requests are
// demoted to debug: a gallery page load fetches one preview per widget.
func levelFor(r *http.Request, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case strings.HasPrefix(r.URL.Path, "/static/"), strings.HasSuffix(r.URL.Path, "/preview.png"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewLoggingMiddleware logs one line per request. When request logging is
// disabled only 4xx and 5xx responses are logged. Event streams are logged
// when they close, with their lifetime as the duration.
func NewLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			if !observability.IsRequestLoggingEnabled() && wrapped.status < 400 {
				return
			}

			msg := "http request"
			if isEventStream(r) {
				msg = "event stream closed"
			}

			attrs := append(requestAttrs(r),
				slog.Int("status", wrapped.status),
				slog.Int("size", wrapped.size),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			logger.LogAttrs(r.Context(), levelFor(r, wrapped.status), msg, attrs...)
		})
	}
}
