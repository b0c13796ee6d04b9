package middleware

import (
	"net/http"
	"strings"
)

// EventStreamSuffix is the path suffix of widget event streams.
const EventStreamSuffix = "/events"

// SkipCompressionForSSE bypasses the wrapped compression middleware for
// event streams, which must flush every message unbuffered.
func SkipCompressionForSSE(compressionHandler func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		compressed := compressionHandler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isEventStream(r) {
				next.ServeHTTP(w, r)
				return
			}
			compressed.ServeHTTP(w, r)
		})
	}
}

func isEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
		strings.HasSuffix(r.URL.Path, EventStreamSuffix)
}
