// Package clientip extracts the originating client IP from proxied requests.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the best-effort client IP. Proxy headers win over the
// socket address, in priority order: CF-Connecting-IP, True-Client-IP, the
// first entry of X-Forwarded-For, then RemoteAddr.
func FromRequest(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("True-Client-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
