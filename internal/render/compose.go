package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/spritecast/internal/anim"
	"github.com/ivlev/spritecast/internal/system"
)

// Compositor draws sheet frames onto fixed-size RGBA surfaces. Scaling is
// nearest-neighbour so pixel art stays crisp, and every draw starts from a
// cleared background.
type Compositor struct {
	width      int
	height     int
	background color.RGBA
}

// NewCompositor creates a compositor for a surface of the given pixel size.
// background is a hex color ("#1a1a2e"); empty means opaque black.
func NewCompositor(width, height int, background string) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface size must be positive, got %dx%d", width, height)
	}
	bg := color.RGBA{A: 0xff}
	if background != "" {
		c, err := colorful.Hex(background)
		if err != nil {
			return nil, fmt.Errorf("background color: %w", err)
		}
		r, g, b := c.RGB255()
		bg = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return &Compositor{width: width, height: height, background: bg}, nil
}

// Bounds returns the surface bounds.
func (c *Compositor) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Acquire returns a pooled surface of the compositor's size.
func (c *Compositor) Acquire() *image.RGBA {
	return system.GetImage(c.Bounds())
}

// Release returns a surface to the pool.
func (c *Compositor) Release(img *image.RGBA) {
	system.PutImage(img)
}

// Compose clears dst and draws one sheet frame, scaled by scale and
// centered. The target rectangle may exceed the surface; the drawing
// primitive clips to the surface bounds.
func (c *Compositor) Compose(dst *image.RGBA, sheet image.Image, frame anim.Rect, scale float64) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)

	targetW := int(math.Round(frame.W * scale))
	targetH := int(math.Round(frame.H * scale))
	if targetW <= 0 || targetH <= 0 {
		return
	}
	targetX := (c.width - targetW) / 2
	targetY := (c.height - targetH) / 2

	src := image.Rect(
		int(math.Round(frame.X)),
		int(math.Round(frame.Y)),
		int(math.Round(frame.X+frame.W)),
		int(math.Round(frame.Y+frame.H)),
	)
	dr := image.Rect(targetX, targetY, targetX+targetW, targetY+targetH)

	xdraw.NearestNeighbor.Scale(dst, dr, sheet, src, xdraw.Over, nil)
}

// Blend mixes two equally sized surfaces into dst. alpha 0 keeps from,
// alpha 1 keeps to.
func Blend(dst, from, to *image.RGBA, alpha float64) {
	if alpha <= 0 {
		copy(dst.Pix, from.Pix)
		return
	}
	if alpha >= 1 {
		copy(dst.Pix, to.Pix)
		return
	}
	a := int(math.Round(alpha * 255))
	for i := range dst.Pix {
		dst.Pix[i] = uint8((int(from.Pix[i])*(255-a) + int(to.Pix[i])*a) / 255)
	}
}
