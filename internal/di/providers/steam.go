package providers

import (
	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/steam"
)

// SteamClientHandle wraps the Steam client with Shutdownable.
type SteamClientHandle struct {
	*steam.Client
}

// Shutdown implements do.Shutdownable.
func (h *SteamClientHandle) Shutdown() error {
	h.Client.Shutdown()
	return nil
}

// ProvideSteamClient provides the Steam client lifecycle manager.
//
// A missing Steamworks library is not fatal: the client is wired over an
// always-failing API and settles in the unavailable state, so extraction,
// compression, and history keep working while uploads report not connected.
func ProvideSteamClient(i do.Injector) (*SteamClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	bridge := do.MustInvoke[*sse.Bridge](i)

	api, err := steam.NewNative(cfg.Steam.LibraryPath, log.Logger)
	if err != nil {
		log.Warn("Steamworks library not loadable, uploads will be unavailable", "error", err)
		api = steam.Unavailable(err)
	}

	client := steam.NewClient(api, cfg.Steam, log.Logger)
	client.OnStatusChange(bridge.SteamStatusChanged)

	return &SteamClientHandle{Client: client}, nil
}
