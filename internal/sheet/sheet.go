package sheet

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/ivlev/spritecast/internal/anim"
)

// Sheet is a decoded sprite sheet. The pixels are read-only after load.
type Sheet struct {
	Path  string
	Image image.Image
}

// Load decodes a sprite sheet from disk.
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &anim.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &anim.LoadError{Path: path, Err: err}
	}
	return &Sheet{Path: path, Image: img}, nil
}

// Bounds returns the pixel bounds of the sheet.
func (s *Sheet) Bounds() image.Rectangle {
	return s.Image.Bounds()
}
