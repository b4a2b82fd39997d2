package providers

import (
	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/ratelimit"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/workshop"
)

// ProvideExtractor provides the mod archive metadata extractor.
func ProvideExtractor(i do.Injector) (*modmeta.Extractor, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return modmeta.NewExtractor(log.Logger), nil
}

// ProvideCompressor provides the preview image compressor.
func ProvideCompressor(i do.Injector) (*preview.Compressor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return preview.NewCompressor(cfg.PreviewCachePath(), log.Logger)
}

// ProvideRateLimiter provides the pacer for Workshop query calls. The
// platform throttles aggressive listing; one query per second with a
// small burst stays well under its limits.
func ProvideRateLimiter(i do.Injector) (*ratelimit.Pacer, error) {
	return ratelimit.New(1, 2), nil
}

// ProvideWorkshopService provides the Workshop sync engine.
func ProvideWorkshopService(i do.Injector) (*workshop.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	steamHandle := do.MustInvoke[*SteamClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	compressor := do.MustInvoke[*preview.Compressor](i)
	limiter := do.MustInvoke[*ratelimit.Pacer](i)
	bridge := do.MustInvoke[*sse.Bridge](i)

	return workshop.NewService(
		steamHandle.Client,
		storeHandle.Store,
		compressor,
		limiter,
		cfg.Workshop,
		log.Logger,
		bridge,
	), nil
}
