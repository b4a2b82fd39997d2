// Package preview prepares workshop preview images for upload. The remote
// service rejects previews over a hard byte ceiling, so oversized images
// are re-encoded as JPEG down a quality ladder, with a secondary downscale
// pass before giving up.
package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/errors"
	"github.com/modshipapp/modship/internal/id"
)

// Compression limits. MaxBytes mirrors the remote preview ceiling; the
// quality ladder and downscale passes exist only to get under it.
const (
	MaxBytes     = 1 << 20
	MaxDimension = 1920

	initialQuality   = 95
	downscaleQuality = 85
	minQuality       = 10
	qualityStep      = 5

	// Applied once, before the second ladder pass.
	downscaleFactor = 0.7
)

// Compressor re-encodes oversized preview images into the cache directory.
type Compressor struct {
	cacheDir string
	logger   *slog.Logger
}

// NewCompressor creates a new Compressor writing into cacheDir.
func NewCompressor(cacheDir string, logger *slog.Logger) (*Compressor, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory cannot be empty")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create preview cache directory: %w", err)
	}
	return &Compressor{cacheDir: cacheDir, logger: logger}, nil
}

// Compress returns a preview no larger than MaxBytes. Images already under
// the ceiling pass through untouched, decodable or not; re-running over an
// earlier output is therefore a no-op. Oversized images are scaled to
// MaxDimension on the longest side and walked down the JPEG quality
// ladder, with one 70% downscale and a second ladder pass before the image
// is declared infeasible.
func (c *Compressor) Compress(imagePath string) (*domain.CompressionResult, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, errors.Validationf("preview image not readable: %v", err)
	}
	originalSize := info.Size()

	if originalSize <= MaxBytes {
		// The file is forwarded untouched, so it does not need to decode
		// here. The BlurHash is cosmetic and computed only when it can be.
		var hash string
		if _, h, err := c.decode(imagePath); err == nil {
			hash = h
		}
		c.logger.Debug("preview already under size ceiling",
			"path", imagePath,
			"size", originalSize,
		)
		return &domain.CompressionResult{
			OriginalSizeBytes: originalSize,
			OutputPath:        imagePath,
			OutputSizeBytes:   originalSize,
			WasModified:       false,
			BlurHash:          hash,
		}, nil
	}

	img, hash, err := c.decode(imagePath)
	if err != nil {
		return nil, errors.Validationf("preview image not decodable: %v", err)
	}

	img = scaleToFit(img, MaxDimension)

	data, quality, _, ok := encodeLadder(img, initialQuality)
	if !ok {
		img = scaleByFactor(img, downscaleFactor)
		var bestSize int
		data, quality, bestSize, ok = encodeLadder(img, downscaleQuality)
		if !ok {
			return nil, errors.CompressionInfeasiblef(
				"preview cannot be reduced below %s even at quality %d; best achieved %s",
				formatBytes(MaxBytes), minQuality, formatBytes(bestSize))
		}
	}

	outputPath, err := c.writeOutput(data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("compressed preview image",
		"path", imagePath,
		"output", outputPath,
		"original_size", originalSize,
		"output_size", len(data),
		"quality", quality,
	)

	return &domain.CompressionResult{
		OriginalSizeBytes: originalSize,
		OutputPath:        outputPath,
		OutputSizeBytes:   int64(len(data)),
		QualityUsed:       quality,
		WasModified:       true,
		BlurHash:          hash,
	}, nil
}

// decode reads the image and computes its BlurHash placeholder in one
// pass. A BlurHash failure is logged and swallowed; the placeholder is
// cosmetic.
func (c *Compressor) decode(imagePath string) (image.Image, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		c.logger.Warn("failed to compute preview blurhash",
			"path", imagePath,
			"error", err,
		)
		hash = ""
	}
	return img, hash, nil
}

// encodeLadder tries descending JPEG qualities until the output fits.
// On failure the smallest size reached is returned for error reporting.
func encodeLadder(img image.Image, startQuality int) ([]byte, int, int, bool) {
	var buf bytes.Buffer
	bestSize := 0
	for q := startQuality; q >= minQuality; q -= qualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, 0, bestSize, false
		}
		if buf.Len() <= MaxBytes {
			return append([]byte(nil), buf.Bytes()...), q, buf.Len(), true
		}
		bestSize = buf.Len()
	}
	return nil, 0, bestSize, false
}

// formatBytes renders a byte count in human units for error messages.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (c *Compressor) writeOutput(data []byte) (string, error) {
	name, err := id.Generate("prev")
	if err != nil {
		return "", errors.Internalf("generate preview id: %v", err)
	}
	outputPath := filepath.Join(c.cacheDir, name+".jpg")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", errors.Internalf("write compressed preview: %v", err)
	}
	return outputPath, nil
}

// scaleToFit shrinks img so its longest side is at most maxSide. Images
// already within bounds are returned as-is.
func scaleToFit(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	var dw, dh int
	if w > h {
		dw = maxSide
		dh = max(h*maxSide/w, 1)
	} else {
		dh = maxSide
		dw = max(w*maxSide/h, 1)
	}
	return scale(img, dw, dh)
}

// scaleByFactor shrinks both dimensions by factor, never below one pixel.
func scaleByFactor(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	dw := max(int(float64(bounds.Dx())*factor), 1)
	dh := max(int(float64(bounds.Dy())*factor), 1)
	return scale(img, dw, dh)
}

func scale(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
