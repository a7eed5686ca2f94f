package middleware

import (
	"context"
	"net/http"
	"strings"

	"bottlescan/internal/platform/logger"
	pnet "bottlescan/internal/platform/net"
	phttp "bottlescan/internal/platform/net/http"
)

// SessionHeader carries the scan session id on API calls
const SessionHeader = "X-Session-ID"

// SessionPort resolves a session id; an error (usually NotFound) rejects the request
type SessionPort interface {
	Check(ctx context.Context, id string) error
}

// SessionID reads the session id from the X-Session-ID header, falling back to
// the "session" query parameter (browsers cannot set headers on websocket
// upgrades), verifies it with p and stores it on the request and logger
// contexts. Requests without an id pass through untouched.
func SessionID(p SessionPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				id = strings.TrimSpace(r.URL.Query().Get("session"))
			}
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			if p != nil {
				if err := p.Check(r.Context(), id); err != nil {
					phttp.RespondError(w, r, err)
					return
				}
			}
			ctx := pnet.WithSession(r.Context(), id)
			ctx = logger.WithSession(logger.WithRequest(ctx, pnet.RequestID(ctx)), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
