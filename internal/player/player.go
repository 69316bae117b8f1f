package player

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync/atomic"
	"time"

	"github.com/ivlev/spritecast/internal/anim"
	"github.com/ivlev/spritecast/internal/playback"
	"github.com/ivlev/spritecast/internal/render"
)

// Sink receives every composed surface. delta is the elapsed time the
// frame accounts for; sinks that keep their own clock may ignore it.
// Surfaces are pooled and reused after WriteFrame returns, so sinks must
// copy what they keep.
type Sink interface {
	WriteFrame(img *image.RGBA, delta time.Duration) error
	Close() error
}

// Control is one selectable animation for the UI surface.
type Control struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Status is a read-only view of playback for the control surface.
type Status struct {
	ActiveKey  string `json:"activeKey"`
	Label      string `json:"label"`
	FrameIndex int    `json:"frameIndex"`
	FrameCount int    `json:"frameCount"`
}

type command struct {
	selectKey string
	snapshot  chan *image.RGBA
}

// Player owns the playback state and drives the tick loop. All mutation
// happens on the loop goroutine; selection requests and frame snapshots
// arrive over a command channel so the state keeps a single writer.
type Player struct {
	table        *anim.Table
	sheet        image.Image
	comp         *render.Compositor
	transitionMs float64
	sinks        []Sink

	state      playback.State
	transition *playback.Transition

	commands chan command
	status   atomic.Pointer[Status]
}

// New builds a player and selects the initial animation: the document's
// defaultAnimation when valid, else the first declared key.
func New(table *anim.Table, sheetImg image.Image, comp *render.Compositor, transitionMs float64, sinks ...Sink) (*Player, error) {
	key, err := playback.InitialKey(table)
	if err != nil {
		return nil, err
	}

	p := &Player{
		table:        table,
		sheet:        sheetImg,
		comp:         comp,
		transitionMs: transitionMs,
		sinks:        sinks,
		commands:     make(chan command, 16),
	}
	p.state.Select(table, key)
	p.publishStatus()
	return p, nil
}

// Animations lists the selectable controls in declaration order.
func (p *Player) Animations() []Control {
	controls := make([]Control, 0, len(p.table.Order))
	for _, key := range p.table.Order {
		controls = append(controls, Control{Key: key, Label: p.table.Animations[key].Label})
	}
	return controls
}

// Has reports whether the table declares key.
func (p *Player) Has(key string) bool {
	_, ok := p.table.Animations[key]
	return ok
}

// Status returns the snapshot published by the last tick.
func (p *Player) Status() Status {
	return *p.status.Load()
}

// SetActive switches the animation synchronously. Only safe before the
// loop starts; running players take switches through Select.
func (p *Player) SetActive(key string) bool {
	if !p.state.Select(p.table, key) {
		return false
	}
	p.publishStatus()
	return true
}

// Select queues an animation switch for the loop goroutine. Unknown keys
// are reported and never reach the playback state.
func (p *Player) Select(key string) bool {
	if !p.Has(key) {
		return false
	}
	select {
	case p.commands <- command{selectKey: key}:
	default:
		log.Printf("[!] Command queue full, dropping switch to %q", key)
	}
	return true
}

// Frame asks the loop goroutine for a copy of the current composed surface.
func (p *Player) Frame() (*image.RGBA, error) {
	reply := make(chan *image.RGBA, 1)
	select {
	case p.commands <- command{snapshot: reply}:
	case <-time.After(time.Second):
		return nil, fmt.Errorf("player is not accepting commands")
	}
	select {
	case img := <-reply:
		return img, nil
	case <-time.After(time.Second):
		return nil, fmt.Errorf("player did not produce a frame")
	}
}

// Run drives live playback at fps until ctx is done.
func (p *Player) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	p.state.LastTick = time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-p.commands:
			p.apply(cmd)
		case now := <-ticker.C:
			elapsed := now.Sub(p.state.LastTick)
			p.state.LastTick = now
			if err := p.tick(elapsed); err != nil {
				return err
			}
		}
	}
}

// RenderSequence renders with synthetic fixed timesteps (1000/fps ms per
// frame) for offline encoding. Returns the number of frames composed.
func (p *Player) RenderSequence(ctx context.Context, duration time.Duration, fps int) (int, error) {
	if fps <= 0 {
		fps = 30
	}
	step := time.Second / time.Duration(fps)
	total := int(duration / step)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		elapsed := step
		if i == 0 {
			elapsed = 0 // first frame shows the initial state
		}
		if err := p.tick(elapsed); err != nil {
			return i, err
		}
	}
	return total, nil
}

func (p *Player) apply(cmd command) {
	if cmd.snapshot != nil {
		cmd.snapshot <- p.snapshotFrame()
		return
	}

	prevFrame, prevScale, prevOK := p.currentFrame()
	if !p.state.Select(p.table, cmd.selectKey) {
		return
	}
	entry := p.table.Animations[p.state.ActiveKey]
	log.Printf("[*] Now playing: %s", entry.Label)

	if p.transitionMs > 0 && prevOK {
		p.transition = &playback.Transition{
			From:       prevFrame,
			FromScale:  prevScale,
			DurationMs: p.transitionMs,
		}
	}
	p.publishStatus()
}

func (p *Player) tick(elapsed time.Duration) error {
	entry, ok := p.table.Lookup(p.state.ActiveKey)
	if !ok {
		return nil
	}

	elapsedMs := float64(elapsed) / float64(time.Millisecond)
	playback.Advance(&p.state, entry, elapsedMs)
	if p.transition != nil {
		p.transition.Advance(elapsedMs)
		if p.transition.Done() {
			p.transition = nil
		}
	}

	frame, ok := playback.CurrentFrame(&p.state, entry)
	if !ok {
		return nil
	}

	dst := p.comp.Acquire()
	defer p.comp.Release(dst)

	if t := p.transition; t != nil {
		from := p.comp.Acquire()
		to := p.comp.Acquire()
		p.comp.Compose(from, p.sheet, t.From, t.FromScale)
		p.comp.Compose(to, p.sheet, frame, entry.Scale)
		render.Blend(dst, from, to, t.Alpha())
		p.comp.Release(from)
		p.comp.Release(to)
	} else {
		p.comp.Compose(dst, p.sheet, frame, entry.Scale)
	}

	for _, sink := range p.sinks {
		if err := sink.WriteFrame(dst, elapsed); err != nil {
			return fmt.Errorf("sink: %w", err)
		}
	}

	p.publishStatus()
	return nil
}

func (p *Player) currentFrame() (anim.Rect, float64, bool) {
	entry, ok := p.table.Lookup(p.state.ActiveKey)
	if !ok {
		return anim.Rect{}, 0, false
	}
	frame, ok := playback.CurrentFrame(&p.state, entry)
	return frame, entry.Scale, ok
}

// snapshotFrame composes the current frame into a fresh, unpooled surface.
func (p *Player) snapshotFrame() *image.RGBA {
	img := image.NewRGBA(p.comp.Bounds())
	frame, scale, ok := p.currentFrame()
	if !ok {
		return img
	}
	p.comp.Compose(img, p.sheet, frame, scale)
	return img
}

func (p *Player) publishStatus() {
	status := &Status{ActiveKey: p.state.ActiveKey, FrameIndex: p.state.FrameIndex}
	if entry, ok := p.table.Lookup(p.state.ActiveKey); ok {
		status.Label = entry.Label
		status.FrameCount = len(entry.Frames)
	}
	p.status.Store(status)
}
