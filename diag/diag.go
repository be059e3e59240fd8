// Package diag captures desktop screenshots when a run fails, so the state
// the application was left in can be inspected afterwards.
package diag

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
)

// CaptureError saves a PNG of the full desktop (all displays) into dir,
// named prefix_YYYYMMDD_HHMMSS.png, and returns the file path. Failures are
// logged but never fatal.
func CaptureError(dir, prefix string) (string, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return "", fmt.Errorf("no active displays")
	}

	// Union of every display so secondary monitors are included.
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return "", fmt.Errorf("capture desktop: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.png", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := writePNG(path, img); err != nil {
		return "", err
	}
	log.Printf("Diag: saved error screenshot %s", path)
	return path, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return nil
}
