package providers

import (
	"context"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/api"
	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/workshop"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	steamHandle := do.MustInvoke[*SteamClientHandle](i)
	workshopService := do.MustInvoke[*workshop.Service](i)
	extractor := do.MustInvoke[*modmeta.Extractor](i)
	compressor := do.MustInvoke[*preview.Compressor](i)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	services := &api.Services{
		Workshop: workshopService,
		Steam:    steamHandle.Client,
		Metadata: extractor,
		Preview:  compressor,
	}

	handler := api.NewServer(storeHandle.Store, services, sseHandle.Manager, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
