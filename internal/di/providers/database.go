package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/store"
	"github.com/modshipapp/modship/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// ProvideBridge provides the adapter that forwards service callbacks onto
// the event stream.
func ProvideBridge(i do.Injector) (*sse.Bridge, error) {
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	return sse.NewBridge(sseHandle.Manager), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the upload history database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := sqlite.Open(cfg.HistoryDBPath(), log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	log.Info("History database ready", "path", cfg.HistoryDBPath())

	return &StoreHandle{Store: st}, nil
}
