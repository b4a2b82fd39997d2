package modmeta

import (
	"encoding/json"

	"github.com/modshipapp/modship/internal/domain"
)

// extractFromPackageJSON decodes an npm-style manifest. Unlike mod.js this
// is strict JSON, so one decode either works or the archive has nothing
// for us. A manifest without a name is treated as a miss.
func (e *Extractor) extractFromPackageJSON(data string) *domain.PackageMetadata {
	var raw rawMeta
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		e.logger.Debug("package.json is not valid JSON", "error", err)
		return nil
	}
	if raw.Name == "" {
		return nil
	}
	return raw.toDomain()
}
