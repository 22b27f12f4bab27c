// Package image sanitizes uploaded overlay images before storage.
package image

import (
	"fmt"

	"github.com/h2non/bimg"
)

// SanitizerConfig holds configuration for upload sanitization.
type SanitizerConfig struct {
	// Quality for JPEG/WebP re-encoding (1-100).
	Quality int
	// StripMetadata removes EXIF (GPS, camera details, timestamps).
	StripMetadata bool
	// MaxWidth limits image width (0 = no limit).
	MaxWidth int
	// MaxHeight limits image height (0 = no limit).
	MaxHeight int
}

// DefaultSanitizerConfig returns the defaults used for overlay uploads:
// strip metadata, keep the original format, cap nothing.
func DefaultSanitizerConfig() SanitizerConfig {
	return SanitizerConfig{
		Quality:       85,
		StripMetadata: true,
	}
}

// Sanitizer re-encodes uploads, stripping metadata and applying size caps.
type Sanitizer struct {
	config SanitizerConfig
}

// NewSanitizer creates a sanitizer with the given config.
func NewSanitizer(config SanitizerConfig) *Sanitizer {
	return &Sanitizer{config: config}
}

// Sanitize validates and re-encodes one image. The output keeps the input's
// format; EXIF orientation is applied before metadata is stripped so images
// still display upright.
func (s *Sanitizer) Sanitize(input []byte) ([]byte, error) {
	img := bimg.NewImage(input)
	metadata, err := img.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read image metadata: %w", err)
	}

	options := bimg.Options{
		Quality:       s.config.Quality,
		StripMetadata: s.config.StripMetadata,
		Type:          imageType(metadata.Type),
	}

	if s.config.MaxWidth > 0 && metadata.Size.Width > s.config.MaxWidth {
		options.Width = s.config.MaxWidth
	}
	if s.config.MaxHeight > 0 && metadata.Size.Height > s.config.MaxHeight {
		options.Height = s.config.MaxHeight
	}

	output, err := img.Process(options)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}
	return output, nil
}

func imageType(name string) bimg.ImageType {
	switch name {
	case "jpeg":
		return bimg.JPEG
	case "png":
		return bimg.PNG
	case "webp":
		return bimg.WEBP
	case "gif":
		return bimg.GIF
	default:
		return bimg.JPEG
	}
}
