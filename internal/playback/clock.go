package playback

import "github.com/ivlev/spritecast/internal/anim"

// Advance accumulates elapsed time and steps the frame index, subtracting
// one frame duration per step so a stalled tick catches up without losing
// elapsed time. Negative elapsed values are clamped to zero. Entries come
// from a normalized table, so FrameDurationMs > 0 is already guaranteed;
// the guard keeps the loop finite for hand-built entries.
func Advance(state *State, entry anim.Entry, elapsedMs float64) {
	if len(entry.Frames) == 0 || entry.FrameDurationMs <= 0 {
		return
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	state.FrameTimerMs += elapsedMs
	for state.FrameTimerMs >= entry.FrameDurationMs {
		state.FrameTimerMs -= entry.FrameDurationMs
		state.FrameIndex = (state.FrameIndex + 1) % len(entry.Frames)
	}
}

// CurrentFrame returns the source rectangle to draw. ok is false when the
// entry has no frames, in which case the draw step is skipped.
func CurrentFrame(state *State, entry anim.Entry) (anim.Rect, bool) {
	if len(entry.Frames) == 0 {
		return anim.Rect{}, false
	}
	return entry.Frames[state.FrameIndex%len(entry.Frames)], true
}
