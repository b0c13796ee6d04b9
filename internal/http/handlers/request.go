package handlers

import (
	"net/http"

	"github.com/jmylchreest/widgetd/internal/urlutil"
)

// requestBaseURL returns the configured public base URL, or the origin the
// request arrived on.
func requestBaseURL(r *http.Request, configured string) string {
	if configured != "" {
		return urlutil.NormalizeBaseURL(configured)
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return urlutil.NormalizeBaseURL(scheme + "://" + r.Host)
}
