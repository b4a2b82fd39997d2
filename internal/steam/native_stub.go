//go:build !unix

package steam

import (
	"fmt"
	"log/slog"
)

// NewNative is unavailable on platforms without dlopen support.
func NewNative(libraryPath string, logger *slog.Logger) (API, error) {
	return nil, fmt.Errorf("native steamworks bindings are not supported on this platform")
}
