// Package di provides dependency injection configuration for the dashboard
// server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/config"
	"github.com/streamdash/streamdash-server/internal/di/providers"
	"github.com/streamdash/streamdash-server/internal/genre"
	"github.com/streamdash/streamdash-server/internal/logger"
	"github.com/streamdash/streamdash-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Data layer
	do.Provide(injector, providers.ProvideTranslator)
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideStylesheet)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideDashboardService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap loads the catalog and starts the server. Any failure, such as a
// missing or malformed source, is returned before the server listens.
func Bootstrap(injector *do.RootScope) error {
	steps := []struct {
		name   string
		invoke func() error
	}{
		{"config", invoke[*config.Config](injector)},
		{"logger", invoke[*logger.Logger](injector)},
		{"genre map", invoke[*genre.Translator](injector)},
		{"catalog", invoke[*catalog.Catalog](injector)},
		{"stylesheet", invoke[*providers.StylesheetHandle](injector)},
		{"search index", invoke[*providers.SearchIndexHandle](injector)},
		{"search service", invoke[*service.SearchService](injector)},
		{"dashboard service", invoke[*service.DashboardService](injector)},
		{"rate limiter", invoke[*providers.RateLimiterHandle](injector)},
		{"http server", invoke[*providers.HTTPServerHandle](injector)},
	}

	for _, step := range steps {
		if err := step.invoke(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
