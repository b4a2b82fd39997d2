// Package sse implements Server-Sent Events for pushing uploader state to
// the desktop shell.
package sse

import (
	"time"

	"github.com/modshipapp/modship/internal/domain"
)

// The shell polls nothing: connection status, upload outcomes, and archive
// rebuilds all arrive over one event stream.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventSteamStatus represents a Steam connection state transition.
	EventSteamStatus EventType = "steam.status"

	// EventUploadCompleted represents a finished workshop operation,
	// successful or not. The payload is the history entry.
	EventUploadCompleted EventType = "workshop.upload_completed"

	// EventArchiveChanged represents a rebuild of the watched mod
	// archive, with freshly extracted metadata when available.
	EventArchiveChanged EventType = "watch.archive_changed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
	}
}

// NewSteamStatusEvent creates an event for a client state transition.
func NewSteamStatusEvent(status domain.SteamStatus) Event {
	return Event{
		Type:      EventSteamStatus,
		Timestamp: time.Now(),
		Data:      status,
	}
}

// NewUploadCompletedEvent creates an event for a recorded workshop
// operation.
func NewUploadCompletedEvent(entry *domain.HistoryEntry) Event {
	return Event{
		Type:      EventUploadCompleted,
		Timestamp: time.Now(),
		Data:      entry,
	}
}

// ArchiveChangedData is the payload for EventArchiveChanged.
type ArchiveChangedData struct {
	// Path of the rebuilt archive.
	Path string `json:"path"`
	// Metadata re-extracted from the rebuilt archive, if any.
	Metadata *domain.PackageMetadata `json:"metadata,omitempty"`
}

// NewArchiveChangedEvent creates an event for a watched archive rebuild.
func NewArchiveChangedEvent(path string, metadata *domain.PackageMetadata) Event {
	return Event{
		Type:      EventArchiveChanged,
		Timestamp: time.Now(),
		Data:      ArchiveChangedData{Path: path, Metadata: metadata},
	}
}
