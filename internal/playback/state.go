package playback

import (
	"time"

	"github.com/ivlev/spritecast/internal/anim"
)

// State is the mutable playback cursor. It has exactly one writer: the
// loop that owns it. Selection resets the cursor; ticks advance it.
type State struct {
	ActiveKey    string
	FrameIndex   int
	FrameTimerMs float64
	LastTick     time.Time
}

// Select switches the active animation and resets the cursor. Unknown keys
// leave the state untouched and report false.
func (s *State) Select(table *anim.Table, key string) bool {
	if _, ok := table.Animations[key]; !ok {
		return false
	}
	s.ActiveKey = key
	s.FrameIndex = 0
	s.FrameTimerMs = 0
	return true
}

// InitialKey resolves the starting animation for a table: defaultAnimation
// when it names an existing entry, else the first declared key. An empty
// table fails startup.
func InitialKey(table *anim.Table) (string, error) {
	if len(table.Order) == 0 {
		return "", anim.ErrNoAnimations
	}
	if table.DefaultAnimation != "" {
		if _, ok := table.Animations[table.DefaultAnimation]; ok {
			return table.DefaultAnimation, nil
		}
	}
	return table.Order[0], nil
}
