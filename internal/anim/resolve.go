package anim

import "math"

// ResolveFrames converts a raw animation spec into its ordered source
// rectangles. An explicit non-empty frame list wins as-is (geometry is
// validated by the normalizer); otherwise the spec is treated as a grid
// declaration and sliced along one sheet row, column by column. A nil
// result means the spec is unresolvable and the animation must be rejected.
func ResolveFrames(spec Spec, def Defaults) []Rect {
	if len(spec.Frames) > 0 {
		return spec.Frames
	}

	if spec.Row == nil || spec.FrameCount == nil {
		return nil
	}
	row := *spec.Row
	frameCount := *spec.FrameCount
	if !isInteger(row) || !isInteger(frameCount) || frameCount < 1 {
		return nil
	}

	startCol := 0.0
	if spec.StartCol != nil {
		startCol = *spec.StartCol
		if !isInteger(startCol) {
			return nil
		}
	}

	frameW := def.FrameWidth
	if spec.FrameWidth != nil {
		frameW = *spec.FrameWidth
	}
	frameH := def.FrameHeight
	if spec.FrameHeight != nil {
		frameH = *spec.FrameHeight
	}
	if !isFinite(frameW) || frameW <= 0 || !isFinite(frameH) || frameH <= 0 {
		return nil
	}

	offX := def.SheetOffsetX
	if spec.SheetOffsetX != nil {
		offX = *spec.SheetOffsetX
	}
	offY := def.SheetOffsetY
	if spec.SheetOffsetY != nil {
		offY = *spec.SheetOffsetY
	}

	frames := make([]Rect, int(frameCount))
	for i := range frames {
		frames[i] = Rect{
			X: offX + (startCol+float64(i))*frameW,
			Y: offY + row*frameH,
			W: frameW,
			H: frameH,
		}
	}
	return frames
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isInteger(v float64) bool {
	return isFinite(v) && v == math.Trunc(v)
}
