package middleware

import (
	"net/http"
	"strings"
)

// EmbedHeaders allows widget pages to be framed by the given ancestors
// through the Content-Security-Policy frame-ancestors directive. An empty
// list means any ancestor. X-Frame-Options is never sent.
func EmbedHeaders(ancestors []string) func(http.Handler) http.Handler {
	policy := "frame-ancestors " + frameAncestors(ancestors)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", policy)
			w.Header().Del("X-Frame-Options")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}

func frameAncestors(ancestors []string) string {
	var out []string
	for _, a := range ancestors {
		a = strings.TrimSpace(a)
		if a == "" || strings.ContainsAny(a, ";,") {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, " ")
}
