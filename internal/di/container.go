// Package di provides dependency injection configuration for the Modship companion server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/di/providers"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/ratelimit"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/workshop"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Event stream
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideBridge)

	// Persistence
	do.Provide(injector, providers.ProvideStore)

	// Metadata and media
	do.Provide(injector, providers.ProvideExtractor)
	do.Provide(injector, providers.ProvideCompressor)

	// Steam layer
	do.Provide(injector, providers.ProvideSteamClient)

	// Workshop sync
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideWorkshopService)

	// Workers
	do.Provide(injector, providers.ProvideArchiveWatcher)
	do.Provide(injector, providers.ProvideHistoryPruneJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*sse.Bridge](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*modmeta.Extractor](injector)
	_ = do.MustInvoke[*preview.Compressor](injector)
	_ = do.MustInvoke[*providers.SteamClientHandle](injector)
	_ = do.MustInvoke[*ratelimit.Pacer](injector)
	_ = do.MustInvoke[*workshop.Service](injector)
	_ = do.MustInvoke[*providers.ArchiveWatcherHandle](injector)
	_ = do.MustInvoke[*providers.HistoryPruneJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
