package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	principalKey contextKey = "principal"
)

// RequestIDFrom returns the id assigned by RequestLogging, or "".
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the peer
// address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
