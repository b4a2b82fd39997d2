package watcher

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/modmeta"
)

type recordingSink struct {
	mu      sync.Mutex
	changes []struct {
		path string
		meta *domain.PackageMetadata
	}
}

func (r *recordingSink) ArchiveChanged(path string, meta *domain.PackageMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, struct {
		path string
		meta *domain.PackageMetadata
	}{path, meta})
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func buildArchive(t *testing.T, path, script string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("mod.js")
	require.NoError(t, err)
	_, err = entry.Write([]byte(script))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatcher_NotifiesOnRebuild(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "mod.zip")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &recordingSink{}

	w, err := New(archive, modmeta.NewExtractor(logger), sink, logger)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	buildArchive(t, archive, `getMetadata: () => ({ name: 'sky-lotus', version: '1.0.0' })`)

	waitFor(t, 5*time.Second, func() bool { return sink.count() >= 1 })

	sink.mu.Lock()
	defer sink.mu.Unlock()
	change := sink.changes[0]
	assert.Equal(t, archive, change.path)
	require.NotNil(t, change.meta)
	assert.Equal(t, "sky-lotus", change.meta.Name)
}

func TestWatcher_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "mod.zip")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &recordingSink{}

	w, err := New(archive, modmeta.NewExtractor(logger), sink, logger)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// A rebuild touches the file several times in quick succession.
	for i := 0; i < 5; i++ {
		buildArchive(t, archive, `getMetadata: () => ({ name: 'qi-well', version: '1.0.0' })`)
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, 5*time.Second, func() bool { return sink.count() >= 1 })

	// The burst settles into a single notification.
	time.Sleep(2 * settleDelay)
	assert.Equal(t, 1, sink.count())
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "mod.zip")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &recordingSink{}

	w, err := New(archive, modmeta.NewExtractor(logger), sink, logger)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(2 * settleDelay)
	assert.Zero(t, sink.count())
}

func TestNew_MissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New("/does/not/exist/mod.zip", modmeta.NewExtractor(logger), &recordingSink{}, logger)
	assert.Error(t, err)
}
