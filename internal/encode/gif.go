package encode

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"time"
)

// GIFSink accumulates quantized frames and writes an animated GIF when
// closed. Frame delays come from the per-frame delta, in the GIF's
// centisecond units.
type GIFSink struct {
	path   string
	frames []*image.Paletted
	delays []int
}

// NewGIFSink creates a sink writing to path on Close.
func NewGIFSink(path string) *GIFSink {
	return &GIFSink{path: path}
}

// WriteFrame quantizes and stores one frame.
func (s *GIFSink) WriteFrame(img *image.RGBA, delta time.Duration) error {
	paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})

	delay := int(delta / (10 * time.Millisecond))
	if delay < 2 {
		delay = 2 // browsers clamp shorter GIF delays
	}
	s.frames = append(s.frames, paletted)
	s.delays = append(s.delays, delay)
	return nil
}

// Close encodes the accumulated frames.
func (s *GIFSink) Close() error {
	if len(s.frames) == 0 {
		return fmt.Errorf("gif %s: no frames written", s.path)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	g := &gif.GIF{Image: s.frames, Delay: s.delays, LoopCount: 0}
	if err := gif.EncodeAll(f, g); err != nil {
		return fmt.Errorf("gif encode error: %w", err)
	}
	return nil
}
