// Package providers contains dependency injection providers for the dashboard
// server.
package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// loadTimeout bounds reading the catalogs and building the search index.
	loadTimeout = 2 * time.Minute
)
