package domain

// PackageMetadata is the best-effort output of mod archive inspection,
// used to pre-fill the upload form. All fields are optional; extraction
// that recovers nothing at all yields a nil *PackageMetadata.
type PackageMetadata struct {
	// Name is the raw package identifier, e.g. "sky-lotus".
	Name string `json:"name,omitempty"`
	// Title is the human-formatted display name, e.g. "Sky Lotus".
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	// Tags is the union of declared tags and tags inferred from mod API
	// usage, with no duplicates.
	Tags []string `json:"tags,omitempty"`
}

// IsUsable reports whether the metadata carries anything worth pre-filling.
// A non-empty inferred tag set alone makes a result usable.
func (m *PackageMetadata) IsUsable() bool {
	if m == nil {
		return false
	}
	return m.Name != "" || m.Title != "" || m.Description != "" ||
		m.Version != "" || m.Author != "" || len(m.Tags) > 0
}
