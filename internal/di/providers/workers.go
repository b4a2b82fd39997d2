package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/logger"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/watcher"
)

// ArchiveWatcherHandle wraps the archive watcher with Shutdownable.
// Service is nil when no archive is configured.
type ArchiveWatcherHandle struct {
	*watcher.Watcher
	cancel  context.CancelFunc
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *ArchiveWatcherHandle) Shutdown() error {
	if !h.started {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideArchiveWatcher provides the optional mod archive rebuild watcher.
func ProvideArchiveWatcher(i do.Injector) (*ArchiveWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Watch.ArchivePath == "" {
		log.Info("No mod archive configured for watching")
		return &ArchiveWatcherHandle{started: false}, nil
	}

	extractor := do.MustInvoke[*modmeta.Extractor](i)
	bridge := do.MustInvoke[*sse.Bridge](i)

	w, err := watcher.New(cfg.Watch.ArchivePath, extractor, bridge, log.Logger)
	if err != nil {
		// Non-fatal: the uploader works without live rebuild detection.
		log.Warn("Archive watcher unavailable", "path", cfg.Watch.ArchivePath, "error", err)
		return &ArchiveWatcherHandle{started: false}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	return &ArchiveWatcherHandle{Watcher: w, cancel: cancel, started: true}, nil
}

// historyRetention is how many history entries survive a prune pass.
const historyRetention = 500

// historyPruneInterval is how often old history entries are pruned.
const historyPruneInterval = 24 * time.Hour

// HistoryPruneJob periodically trims the upload history table.
type HistoryPruneJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *HistoryPruneJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideHistoryPruneJob provides the history retention worker. One pass
// runs at startup, then daily.
func ProvideHistoryPruneJob(i do.Injector) (*HistoryPruneJob, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	ctx, cancel := context.WithCancel(context.Background())

	prune := func() {
		removed, err := storeHandle.PruneHistory(ctx, historyRetention)
		if err != nil {
			log.Warn("History prune failed", "error", err)
			return
		}
		if removed > 0 {
			log.Info("Pruned upload history", "removed", removed, "kept", historyRetention)
		}
	}

	go func() {
		prune()
		ticker := time.NewTicker(historyPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune()
			case <-ctx.Done():
				return
			}
		}
	}()

	return &HistoryPruneJob{cancel: cancel}, nil
}
