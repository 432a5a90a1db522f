package utils

import (
	"net/http"
	"strings"
)

// ClientIP extracts the submitting client's IP address from proxy headers.
// X-Forwarded-For wins (first hop), then X-Real-IP; nil when neither is set.
// The raw socket address is deliberately not used: behind the load balancer
// it would only ever be the proxy itself.
func ClientIP(r *http.Request) *string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if ip != "" {
			return &ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return &ip
	}
	return nil
}
