// Package modmeta extracts package metadata from mod archives to pre-fill
// the upload form. Extraction is best-effort: mod.js is parsed with an
// ordered chain of strategies that degrade gracefully across authoring and
// bundler styles, and package.json is the fallback. A miss is a normal
// outcome, not an error.
package modmeta

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/modshipapp/modship/internal/domain"
)

// Archive entries the extractor looks for.
const (
	modScriptName   = "mod.js"
	packageJSONName = "package.json"
)

// Extractor inspects mod archives for embedded package metadata.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new Extractor instance.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract scans the archive for mod.js and package.json (first match of
// each by entry order) and recovers whatever metadata it can. Returns
// (nil, nil) when nothing usable was found; an error only when the archive
// itself cannot be read.
func (e *Extractor) Extract(archivePath string) (*domain.PackageMetadata, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close() //nolint:errcheck // Read-only archive

	var modScript, packageJSON *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch path.Base(f.Name) {
		case modScriptName:
			if modScript == nil {
				modScript = f
			}
		case packageJSONName:
			if packageJSON == nil {
				packageJSON = f
			}
		}
	}

	if modScript != nil {
		text, err := readEntry(modScript)
		if err != nil {
			e.logger.Warn("failed to read mod.js entry",
				"archive", archivePath,
				"error", err,
			)
		} else if meta := e.extractFromModScript(text); meta.IsUsable() {
			e.logger.Debug("extracted metadata from mod.js",
				"archive", archivePath,
				"name", meta.Name,
				"tags", len(meta.Tags),
			)
			return meta, nil
		}
	}

	if packageJSON != nil {
		data, err := readEntry(packageJSON)
		if err != nil {
			e.logger.Warn("failed to read package.json entry",
				"archive", archivePath,
				"error", err,
			)
		} else if meta := e.extractFromPackageJSON(data); meta.IsUsable() {
			e.logger.Debug("extracted metadata from package.json",
				"archive", archivePath,
				"name", meta.Name,
			)
			return meta, nil
		}
	}

	e.logger.Debug("no recoverable metadata in archive", "archive", archivePath)
	return nil, nil
}

// extractFromModScript runs the strategy chain over mod.js text and merges
// in tags inferred from mod API usage. The API scan runs unconditionally:
// a non-empty inferred tag set alone makes the result usable even when
// every structural strategy missed.
func (e *Extractor) extractFromModScript(text string) *domain.PackageMetadata {
	var meta *domain.PackageMetadata
	for _, s := range scriptStrategies {
		if m := s.fn(text); m.IsUsable() {
			e.logger.Debug("mod.js strategy matched", "strategy", s.name)
			meta = m
			break
		}
	}

	inferred := InferTags(text)
	if meta == nil {
		if len(inferred) == 0 {
			return nil
		}
		return &domain.PackageMetadata{Tags: inferred}
	}

	meta.Tags = domain.MergeTags(meta.Tags, inferred)
	return meta
}

// readEntry decodes a single archive entry into memory without extracting
// to disk.
func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close() //nolint:errcheck // Read-only stream

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	return string(data), nil
}
