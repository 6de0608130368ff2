package httpkit

import (
	"net/http"
	"time"

	"linkmap/internal/platform/net/middleware"
)

// HeartbeatPath answers load balancer probes. The stack runs inside the /api/v1
// route where r.URL.Path is still the full path
const HeartbeatPath = "/api/v1/health"

// StackOptions tunes the API middleware stack
type StackOptions struct {
	CORSOrigins []string      // empty allows any origin
	Timeout     time.Duration // 0 means 30s
	Slow        time.Duration // access log warn threshold, 0 disables
}

// CommonStack is the middleware mounted on /api/v1. The root stack
// (middleware.Defaults) already set the request id and panic recovery
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Heartbeat(HeartbeatPath),
		middleware.Timeout(timeout),
	}
}
