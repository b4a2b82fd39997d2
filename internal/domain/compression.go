package domain

// CompressionResult reports the outcome of preview image compression.
type CompressionResult struct {
	OriginalSizeBytes int64 `json:"original_size_bytes"`
	// OutputPath equals the input path when the source was already under
	// the size ceiling and no re-encoding happened.
	OutputPath      string `json:"output_path"`
	OutputSizeBytes int64  `json:"output_size_bytes,omitempty"`
	// QualityUsed is the JPEG quality of the final encode (10-95).
	// Zero when no re-encoding occurred.
	QualityUsed int  `json:"quality_used,omitempty"`
	WasModified bool `json:"was_modified"`
	// BlurHash is a compact placeholder hash of the final preview for the
	// UI to render while the real image loads.
	BlurHash string `json:"blur_hash,omitempty"`
}
