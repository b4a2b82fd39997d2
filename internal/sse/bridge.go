package sse

import "github.com/modshipapp/modship/internal/domain"

// Bridge adapts service callbacks onto the event stream. It exists so the
// services emitting events depend on small callback interfaces instead of
// the manager.
type Bridge struct {
	manager *Manager
}

// NewBridge creates a Bridge over the manager.
func NewBridge(manager *Manager) *Bridge {
	return &Bridge{manager: manager}
}

// UploadCompleted implements workshop.EventSink.
func (b *Bridge) UploadCompleted(entry *domain.HistoryEntry) {
	b.manager.Emit(NewUploadCompletedEvent(entry))
}

// SteamStatusChanged implements steam.StatusListener.
func (b *Bridge) SteamStatusChanged(status domain.SteamStatus) {
	b.manager.Emit(NewSteamStatusEvent(status))
}

// ArchiveChanged implements watcher.ChangeSink.
func (b *Bridge) ArchiveChanged(path string, metadata *domain.PackageMetadata) {
	b.manager.Emit(NewArchiveChangedEvent(path, metadata))
}
