package domain

// UploadRecord is the unit of work submitted to the workshop sync engine.
// ItemID distinguishes an update (present) from a create (absent).
type UploadRecord struct {
	// ContentPath is the mod archive to upload. Optional on metadata-only
	// updates; required when ItemID is absent (new items must ship content).
	ContentPath string `json:"content_path,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Tags is the raw comma-separated user input. Use ParsedTags for the
	// normalized set.
	Tags             string     `json:"tags,omitempty"`
	Visibility       Visibility `json:"visibility,omitempty"`
	PreviewImagePath string     `json:"preview_image_path,omitempty"`
	// ItemID is the existing Workshop item ID as a decimal string.
	// Represented as a string to avoid precision loss on 64-bit IDs.
	ItemID      string `json:"item_id,omitempty"`
	ChangeNotes string `json:"change_notes,omitempty"`
}

// IsUpdate reports whether the record targets an existing Workshop item.
func (r *UploadRecord) IsUpdate() bool {
	return r.ItemID != ""
}

// ParsedTags returns the tag set: trimmed, non-empty, duplicates removed,
// input order preserved.
func (r *UploadRecord) ParsedTags() []string {
	return SplitTags(r.Tags)
}

// UploadResult reports the outcome of a create-or-update operation.
type UploadResult struct {
	// ItemID is the created or updated item's ID as a decimal string.
	ItemID string `json:"item_id"`
	// Created is true when a new catalog entry was created.
	Created bool `json:"created"`
}

// DeleteResult reports the outcome of a delete operation so batch UI flows
// can report per-item outcomes without exceptional control flow.
type DeleteResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
