package analyzer

import (
	"fmt"
	"image"
	"image/color"
)

// GridGuess is the inferred cell geometry of a sprite sheet.
type GridGuess struct {
	FrameWidth  int
	FrameHeight int
	Columns     int
	Rows        int
}

// GridDetector infers a sheet's frame grid from fully transparent gutters
// between cells. Sheets without gutters come back as a single cell spanning
// the occupied area; those need explicit grid parameters in the document.
type GridDetector struct {
	AlphaThreshold uint8 // pixels at or below count as empty
}

// NewGridDetector creates a detector with the default sensitivity.
func NewGridDetector() *GridDetector {
	return &GridDetector{AlphaThreshold: 8}
}

// Detect scans the sheet's column and row occupancy and derives a cell
// size from the spacing between occupied runs.
func (d *GridDetector) Detect(img image.Image) (GridGuess, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return GridGuess{}, fmt.Errorf("sheet has no pixels")
	}

	colOccupied := make([]bool, bounds.Dx())
	rowOccupied := make([]bool, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if d.opaque(img.At(x, y)) {
				colOccupied[x-bounds.Min.X] = true
				rowOccupied[y-bounds.Min.Y] = true
			}
		}
	}

	frameW, cols, err := cellSize(colOccupied)
	if err != nil {
		return GridGuess{}, err
	}
	frameH, rows, err := cellSize(rowOccupied)
	if err != nil {
		return GridGuess{}, err
	}

	return GridGuess{FrameWidth: frameW, FrameHeight: frameH, Columns: cols, Rows: rows}, nil
}

func (d *GridDetector) opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return uint8(a>>8) > d.AlphaThreshold
}

// cellSize derives a cell length from an occupancy profile: the most
// common spacing between starts of consecutive occupied runs. A single run
// means no gutters along this axis; the run itself is the cell.
func cellSize(occupied []bool) (int, int, error) {
	var starts []int
	var lastEnd int
	inRun := false
	for i, occ := range occupied {
		if occ && !inRun {
			starts = append(starts, i)
			inRun = true
		}
		if occ {
			lastEnd = i + 1
		}
		if !occ {
			inRun = false
		}
	}

	if len(starts) == 0 {
		return 0, 0, fmt.Errorf("sheet is fully transparent")
	}
	if len(starts) == 1 {
		return lastEnd - starts[0], 1, nil
	}

	spacing := make(map[int]int)
	for i := 1; i < len(starts); i++ {
		spacing[starts[i]-starts[i-1]]++
	}
	best, bestCount := 0, 0
	for size, count := range spacing {
		if count > bestCount || (count == bestCount && size > best) {
			best, bestCount = size, count
		}
	}
	return best, len(starts), nil
}
