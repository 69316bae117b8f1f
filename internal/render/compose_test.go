package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/spritecast/internal/anim"
)

// testSheet builds a sheet with one solid red 4x4 frame at (8, 0).
func testSheet() *image.RGBA {
	sheet := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 4; y++ {
		for x := 8; x < 12; x++ {
			sheet.SetRGBA(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}
	return sheet
}

func TestComposeCentersAndScales(t *testing.T) {
	comp, err := NewCompositor(64, 64, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}

	dst := image.NewRGBA(comp.Bounds())
	frame := anim.Rect{X: 8, Y: 0, W: 4, H: 4}
	comp.Compose(dst, testSheet(), frame, 4)

	// 4x4 frame at scale 4 is a 16x16 sprite centered on 64x64: [24, 40).
	red := color.RGBA{R: 0xff, A: 0xff}
	black := color.RGBA{A: 0xff}

	checks := []struct {
		x, y     int
		expected color.RGBA
		what     string
	}{
		{24, 24, red, "sprite top-left"},
		{39, 39, red, "sprite bottom-right"},
		{32, 32, red, "sprite center"},
		{23, 32, black, "background left of sprite"},
		{40, 32, black, "background right of sprite"},
		{0, 0, black, "surface corner"},
	}
	for _, c := range checks {
		if got := dst.RGBAAt(c.x, c.y); got != c.expected {
			t.Errorf("%s (%d,%d): expected %v, got %v", c.what, c.x, c.y, c.expected, got)
		}
	}
}

func TestComposeNearestNeighborKeepsEdges(t *testing.T) {
	// A 2x1 frame with two distinct pixels scaled 8x must stay two solid
	// blocks with a hard edge between them.
	sheet := image.NewRGBA(image.Rect(0, 0, 2, 1))
	sheet.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	sheet.SetRGBA(1, 0, color.RGBA{B: 0xff, A: 0xff})

	comp, err := NewCompositor(16, 8, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	dst := image.NewRGBA(comp.Bounds())
	comp.Compose(dst, sheet, anim.Rect{X: 0, Y: 0, W: 2, H: 1}, 8)

	if got := dst.RGBAAt(7, 4); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Left of the edge: expected pure red, got %v", got)
	}
	if got := dst.RGBAAt(8, 4); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("Right of the edge: expected pure blue, got %v", got)
	}
}

func TestComposeClearsPreviousFrame(t *testing.T) {
	comp, err := NewCompositor(64, 64, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	dst := image.NewRGBA(comp.Bounds())
	sheet := testSheet()

	comp.Compose(dst, sheet, anim.Rect{X: 8, Y: 0, W: 4, H: 4}, 8) // big sprite
	comp.Compose(dst, sheet, anim.Rect{X: 8, Y: 0, W: 4, H: 4}, 2) // small sprite

	// A pixel covered only by the big sprite must be background again.
	if got := dst.RGBAAt(18, 32); got != (color.RGBA{A: 0xff}) {
		t.Errorf("Stale pixel from the previous frame: %v", got)
	}
}

func TestComposeBackgroundColor(t *testing.T) {
	comp, err := NewCompositor(8, 8, "#1a1a2e")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	dst := image.NewRGBA(comp.Bounds())
	comp.Compose(dst, testSheet(), anim.Rect{X: 8, Y: 0, W: 4, H: 4}, 0.1)

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}) {
		t.Errorf("Expected configured background, got %v", got)
	}
}

func TestNewCompositorRejections(t *testing.T) {
	if _, err := NewCompositor(0, 64, ""); err == nil {
		t.Error("Expected an error for zero width")
	}
	if _, err := NewCompositor(64, -1, ""); err == nil {
		t.Error("Expected an error for negative height")
	}
	if _, err := NewCompositor(64, 64, "not-a-color"); err == nil {
		t.Error("Expected an error for a bad background color")
	}
}

func TestBlend(t *testing.T) {
	bounds := image.Rect(0, 0, 2, 2)
	from := image.NewRGBA(bounds)
	to := image.NewRGBA(bounds)
	dst := image.NewRGBA(bounds)
	for i := range from.Pix {
		from.Pix[i] = 0
		to.Pix[i] = 200
	}

	Blend(dst, from, to, 0)
	if dst.Pix[0] != 0 {
		t.Errorf("Alpha 0: expected from image, got %d", dst.Pix[0])
	}

	Blend(dst, from, to, 1)
	if dst.Pix[0] != 200 {
		t.Errorf("Alpha 1: expected to image, got %d", dst.Pix[0])
	}

	Blend(dst, from, to, 0.5)
	if dst.Pix[0] < 95 || dst.Pix[0] > 105 {
		t.Errorf("Alpha 0.5: expected roughly 100, got %d", dst.Pix[0])
	}
}

func TestAcquireRelease(t *testing.T) {
	comp, err := NewCompositor(32, 32, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}

	img := comp.Acquire()
	if img.Bounds() != comp.Bounds() {
		t.Errorf("Expected pooled surface bounds %v, got %v", comp.Bounds(), img.Bounds())
	}
	comp.Release(img)

	again := comp.Acquire()
	if again.Bounds() != comp.Bounds() {
		t.Errorf("Expected reused surface bounds %v, got %v", comp.Bounds(), again.Bounds())
	}
	comp.Release(again)
}
