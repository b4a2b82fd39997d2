// Package watcher re-extracts metadata when a watched mod archive is
// rebuilt, so the upload form refreshes without the user re-picking the
// file. Build tools replace archives with write bursts or rename-over, so
// events are debounced until the file goes quiet.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/modmeta"
)

// settleDelay is how long the archive must stay unchanged before it is
// considered fully written.
const settleDelay = 500 * time.Millisecond

// ChangeSink receives the debounced change notifications.
type ChangeSink interface {
	ArchiveChanged(path string, metadata *domain.PackageMetadata)
}

// Watcher monitors a single mod archive for rebuilds.
type Watcher struct {
	path      string
	extractor *modmeta.Extractor
	sink      ChangeSink
	logger    *slog.Logger
	fsw       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
}

// New creates a Watcher for the archive at path. The parent directory is
// watched rather than the file itself: rebuilds that rename a temp file
// over the archive would otherwise drop the watch.
func New(path string, extractor *modmeta.Extractor, sink ChangeSink, logger *slog.Logger) (*Watcher, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("watch directory unavailable: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to add watch: %w", err)
	}

	return &Watcher{
		path:      path,
		extractor: extractor,
		sink:      sink,
		logger:    logger,
		fsw:       fsw,
	}, nil
}

// Start processes events until ctx is canceled.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	w.logger.Info("watching mod archive", "path", w.path)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

// Stop closes the underlying watcher and waits for the event loop.
func (w *Watcher) Stop() error {
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	// Restart the settle timer on every touch; only the last write of a
	// burst fires the notification.
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(settleDelay, w.notify)
}

func (w *Watcher) notify() {
	if _, err := os.Stat(w.path); err != nil {
		w.logger.Debug("archive gone after change event", "path", w.path)
		return
	}

	meta, err := w.extractor.Extract(w.path)
	if err != nil {
		w.logger.Warn("failed to re-extract metadata from rebuilt archive",
			"path", w.path,
			"error", err,
		)
		// Still worth telling the shell the file changed.
	}

	w.logger.Info("mod archive rebuilt", "path", w.path, "metadata", meta != nil)
	w.sink.ArchiveChanged(w.path, meta)
}
