package httpkit

import (
	"net/http"
	"time"

	"bottlescan/internal/platform/net/middleware"
)

// StackOptions tune CommonStack
type StackOptions struct {
	// Sessions verifies X-Session-ID; nil skips the check
	Sessions middleware.SessionPort
	// CORS overrides the default cross-origin policy
	CORS middleware.CORSOptions
	// SlowRequest marks slower requests as warn in the access log
	SlowRequest time.Duration
}

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	slow := o.SlowRequest
	if slow <= 0 {
		slow = 5 * time.Second
	}
	stack := middleware.Defaults()
	return append(stack,
		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slow}),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(o.CORS),

		// scan session binding
		middleware.SessionID(o.Sessions),
	)
}

// Heartbeat answers GET path with 200 "." ahead of routing; mount it on the root router
func Heartbeat(path string) func(http.Handler) http.Handler { return middleware.Heartbeat(path) }
