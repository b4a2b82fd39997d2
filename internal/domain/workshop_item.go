package domain

// WorkshopItem is a remote catalog entry as surfaced to callers.
// The local process never caches these — every listing re-fetches.
type WorkshopItem struct {
	// ID is the opaque stable item identifier as a decimal string.
	// 64-bit numeric IDs are kept as strings to avoid precision loss
	// once they cross into the UI shell.
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   int64      `json:"created_at"` // Unix seconds
	UpdatedAt   int64      `json:"updated_at"` // Unix seconds
	// Display counters. Narrowed from 64-bit platform integers; absent
	// values are reported as zero.
	Subscriptions int `json:"subscriptions"`
	Favorites     int `json:"favorites"`
	Views         int `json:"views"`
}

// ItemsStatus tags the outcome of a listing request.
type ItemsStatus string

// Listing outcomes. "Not connected" is an expected steady state while the
// Steam client is closed, not an error condition.
const (
	ItemsStatusSuccess      ItemsStatus = "success"
	ItemsStatusNotConnected ItemsStatus = "not_connected"
	ItemsStatusError        ItemsStatus = "error"
)

// ItemsResult is the tagged result of a listing request. Listing never
// raises an error to the caller; failures are carried in Status/Message.
type ItemsResult struct {
	Items   []WorkshopItem `json:"items"`
	Status  ItemsStatus    `json:"status"`
	Message string         `json:"message,omitempty"`
}
