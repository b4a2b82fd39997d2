package domain

import "time"

// HistoryAction identifies what a history entry records.
type HistoryAction string

const (
	HistoryActionCreate HistoryAction = "create"
	HistoryActionUpdate HistoryAction = "update"
	HistoryActionDelete HistoryAction = "delete"
)

// HistoryEntry is one recorded workshop operation. Failed attempts are
// recorded too; Succeeded and Message tell them apart.
type HistoryEntry struct {
	ID          string        `json:"id"`
	Action      HistoryAction `json:"action"`
	ItemID      string        `json:"item_id,omitempty"`
	Title       string        `json:"title,omitempty"`
	Visibility  Visibility    `json:"visibility,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	ChangeNotes string        `json:"change_notes,omitempty"`
	ContentPath string        `json:"content_path,omitempty"`
	PreviewPath string        `json:"preview_path,omitempty"`
	Succeeded   bool          `json:"succeeded"`
	Message     string        `json:"message,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
