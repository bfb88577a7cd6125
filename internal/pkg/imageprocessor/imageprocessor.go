// Package imageprocessor prepares uploaded gallery and branding images:
// validation, downscaling, and thumbnail variants.
package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/internal/pkg/storage"
)

const (
	// MaxDimension caps stored originals; anything larger is downscaled.
	MaxDimension = 2400
	// ThumbWidth is the grid thumbnail width.
	ThumbWidth = 480
	// JpegQuality for re-encoded variants.
	JpegQuality = 85
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": false, // decode-only formats are rejected on upload
	".gif":  false,
	".ico":  true,
	".svg":  false,
}

// AllowedUpload reports whether the file extension is accepted for
// image uploads.
func AllowedUpload(filename string) bool {
	return allowedExtensions[strings.ToLower(path.Ext(filename))]
}

// ThumbName derives the thumbnail storage name from the original
// ("plans/images/a.jpg" -> "plans/images/a_thumb.jpg").
func ThumbName(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_thumb" + ext
}

// Process validates and stores an uploaded image plus its thumbnail.
// The original is downscaled to MaxDimension when needed. Returns the
// decoded bounds of the stored original.
func Process(store storage.Storage, name string, r io.Reader) (image.Rectangle, error) {
	if !AllowedUpload(name) {
		return image.Rectangle{}, fmt.Errorf("unsupported image type: %s", path.Ext(name))
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	if err := encodeAndSave(store, name, img); err != nil {
		return image.Rectangle{}, err
	}

	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	if err := encodeAndSave(store, ThumbName(name), thumb); err != nil {
		// thumbnail failure is not fatal, the original is stored
		log.Warnf("[ImageProcessor] failed to store thumbnail for %s: %v", name, err)
	}

	return bounds, nil
}

func encodeAndSave(store storage.Storage, name string, img image.Image) error {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(JpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := store.Save(name, &buf); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}
