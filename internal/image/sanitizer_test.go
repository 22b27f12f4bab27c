package image

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"

	"github.com/h2non/bimg"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSanitize_KeepsFormat(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())

	out, err := s.Sanitize(testPNG(t, 64, 48))
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if got := bimg.DetermineImageTypeName(out); got != "png" {
		t.Errorf("output type = %q, want png", got)
	}
}

func TestSanitize_AppliesWidthCap(t *testing.T) {
	cfg := DefaultSanitizerConfig()
	cfg.MaxWidth = 32
	s := NewSanitizer(cfg)

	out, err := s.Sanitize(testPNG(t, 64, 48))
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	size, err := bimg.NewImage(out).Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size.Width > 32 {
		t.Errorf("width = %d, want <= 32", size.Width)
	}
}

func TestSanitize_RejectsGarbage(t *testing.T) {
	s := NewSanitizer(DefaultSanitizerConfig())
	if _, err := s.Sanitize([]byte("definitely not an image")); err == nil {
		t.Error("garbage input accepted")
	}
}
