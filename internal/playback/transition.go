package playback

import (
	"github.com/fogleman/ease"

	"github.com/ivlev/spritecast/internal/anim"
)

// Transition is a crossfade from the frozen frame that was on screen when
// the animation switched into the newly selected animation.
type Transition struct {
	From       anim.Rect
	FromScale  float64
	ElapsedMs  float64
	DurationMs float64
}

// Advance moves the transition clock forward.
func (t *Transition) Advance(elapsedMs float64) {
	if elapsedMs > 0 {
		t.ElapsedMs += elapsedMs
	}
}

// Done reports whether the crossfade has completed.
func (t *Transition) Done() bool {
	return t.ElapsedMs >= t.DurationMs
}

// Alpha is the eased blend weight of the incoming animation, in [0, 1].
func (t *Transition) Alpha() float64 {
	if t.DurationMs <= 0 {
		return 1
	}
	x := t.ElapsedMs / t.DurationMs
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return ease.InOutQuad(x)
}
