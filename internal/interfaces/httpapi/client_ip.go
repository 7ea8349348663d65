package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
)

var clientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// resolveClientIP prefers proxy headers over the socket address. For
// X-Forwarded-For only the first hop is used.
func resolveClientIP(_ context.Context, r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip := normalizeIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}
	return normalizeIP(r.RemoteAddr)
}

func normalizeIP(raw string) string {
	value, _, _ := strings.Cut(strings.TrimSpace(raw), ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	parsed := net.ParseIP(strings.Trim(value, "[]"))
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
