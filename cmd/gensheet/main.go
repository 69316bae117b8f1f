package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/spritecast/internal/anim"
)

// gensheet produces a synthetic labeled sprite sheet plus the matching
// animation document, for smoke-testing the player without real art.
// Each sheet row is one animation; cells get a hue per row, a brightness
// ramp per column and a progress bar marking the frame index. An extra
// bottom row carries a QR tile describing the sheet.
func main() {
	outPtr := flag.String("out", "input/sheets/test_sheet.png", "Sheet image path")
	docPtr := flag.String("doc", "input/anim/test_sheet.json", "Animation document path")
	rowsPtr := flag.Int("rows", 4, "Animation rows")
	colsPtr := flag.Int("cols", 6, "Frames per row")
	cellPtr := flag.Int("cell", 32, "Cell size in pixels")

	flag.Parse()

	rows, cols, cell := *rowsPtr, *colsPtr, *cellPtr
	if rows < 1 || cols < 1 || cell < 8 {
		log.Fatalf("[-] Need rows >= 1, cols >= 1, cell >= 8")
	}

	img := buildSheet(rows, cols, cell)

	f, err := os.Create(*outPtr)
	if err != nil {
		log.Fatalf("[-] Create sheet: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("[-] Encode sheet: %v", err)
	}
	f.Close()
	fmt.Printf("[*] Sheet written: %s (%dx%d)\n", *outPtr, cols*cell, (rows+1)*cell)

	doc := buildDocument(rows, cols, cell)
	if err := anim.WriteDocument(doc, *docPtr); err != nil {
		log.Fatalf("[-] Write document: %v", err)
	}
	fmt.Printf("[+++] Done! Document: %s\n", *docPtr)
}

func buildSheet(rows, cols, cell int) *image.RGBA {
	width := cols * cell
	height := (rows + 1) * cell // last row is the metadata tile
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for r := 0; r < rows; r++ {
		hue := float64(r) / float64(rows) * 360.0
		for c := 0; c < cols; c++ {
			value := 0.5 + 0.5*float64(c+1)/float64(cols)
			fill := colorful.Hsv(hue, 0.65, value)
			drawCell(img, c*cell, r*cell, cell, fill, c, cols)
		}
	}

	meta := fmt.Sprintf("spritecast test sheet: %d rows x %d cols, cell %dpx", rows, cols, cell)
	if qr, err := qrcode.New(meta, qrcode.Medium); err == nil {
		tile := qr.Image(cell)
		draw.Draw(img, image.Rect(0, rows*cell, cell, (rows+1)*cell), tile, tile.Bounds().Min, draw.Src)
	}

	return img
}

// drawCell fills a cell inset by a one-pixel transparent gutter so grid
// detection has boundaries to find, and marks the frame index with a
// progress bar along the bottom edge.
func drawCell(img *image.RGBA, x, y, cell int, fill colorful.Color, index, total int) {
	fr, fg, fb := fill.RGB255()
	body := color.RGBA{R: fr, G: fg, B: fb, A: 0xff}

	inset := image.Rect(x+1, y+1, x+cell-1, y+cell-1)
	draw.Draw(img, inset, image.NewUniform(body), image.Point{}, draw.Src)

	barWidth := (cell - 2) * (index + 1) / total
	bar := image.Rect(x+1, y+cell-4, x+1+barWidth, y+cell-1)
	draw.Draw(img, bar, image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
}

func buildDocument(rows, cols, cell int) *anim.Document {
	doc := &anim.Document{
		Defaults: &anim.DefaultsSpec{
			FrameDurationMs: floatPtr(120),
			Scale:           floatPtr(4),
			FrameWidth:      floatPtr(float64(cell)),
			FrameHeight:     floatPtr(float64(cell)),
		},
		Animations: make(map[string]anim.Spec, rows),
	}

	for r := 0; r < rows; r++ {
		key := fmt.Sprintf("row%d", r)
		doc.Order = append(doc.Order, key)
		doc.Animations[key] = anim.Spec{
			Label:      strPtr(fmt.Sprintf("Row %d", r+1)),
			Row:        floatPtr(float64(r)),
			FrameCount: floatPtr(float64(cols)),
		}
	}
	doc.DefaultAnimation = doc.Order[0]
	return doc
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
