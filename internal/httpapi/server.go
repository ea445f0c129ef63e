package httpapi

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"surfsup-server/internal/cache"
	"surfsup-server/internal/config"
)

const serverName = "surfsup"

// NewServer wraps mux in the middleware chain. A nil cache disables response
// caching.
func NewServer(config config.Config, mux *http.ServeMux, c cache.Cache) *http.Server {
	var h http.Handler = mux
	if c != nil {
		h = responseCache(c, config.CacheTTL, h)
	}
	h = requestLogger(h)
	h = requestID(h)

	return &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           otelhttp.NewHandler(h, serverName),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
