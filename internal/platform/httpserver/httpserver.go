// Package httpserver builds the hrgate HTTP server from configuration.
package httpserver

import (
	"net/http"
	"time"

	"hrgate/internal/platform/config"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultIdleTimeout       = 2 * time.Minute
)

// New builds the server for the given config. Zero timeouts fall back to
// defaults; handler timeouts are enforced per route by middleware.
func New(cfg config.Server, handler http.Handler) *http.Server {
	readHeader := cfg.ReadHeaderTimeout
	if readHeader == 0 {
		readHeader = defaultReadHeaderTimeout
	}
	idle := cfg.IdleTimeout
	if idle == 0 {
		idle = defaultIdleTimeout
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
		IdleTimeout:       idle,
	}
}
