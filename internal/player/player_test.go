package player

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ivlev/spritecast/internal/anim"
	"github.com/ivlev/spritecast/internal/render"
)

// countingSink records how many frames it saw and the total delta.
type countingSink struct {
	frames int
	total  time.Duration
	closed bool
}

func (s *countingSink) WriteFrame(img *image.RGBA, delta time.Duration) error {
	s.frames++
	s.total += delta
	return nil
}

func (s *countingSink) Close() error {
	s.closed = true
	return nil
}

func testTable(defaultKey string) *anim.Table {
	frames := func(row, n int) []anim.Rect {
		out := make([]anim.Rect, n)
		for i := range out {
			out[i] = anim.Rect{X: float64(i * 8), Y: float64(row * 8), W: 8, H: 8}
		}
		return out
	}
	return &anim.Table{
		DefaultAnimation: defaultKey,
		Order:            []string{"idle", "walk"},
		Animations: map[string]anim.Entry{
			"idle": {Label: "Idle", FrameDurationMs: 100, Scale: 2, Frames: frames(0, 4)},
			"walk": {Label: "Walk", FrameDurationMs: 50, Scale: 2, Frames: frames(1, 6)},
		},
	}
}

func testSheetImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 48, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 48; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 16), A: 0xff})
		}
	}
	return img
}

func newTestPlayer(t *testing.T, defaultKey string, transitionMs float64, sinks ...Sink) *Player {
	t.Helper()
	comp, err := render.NewCompositor(32, 32, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	p, err := New(testTable(defaultKey), testSheetImage(), comp, transitionMs, sinks...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNewPicksDefaultAnimation(t *testing.T) {
	p := newTestPlayer(t, "walk", 0)
	if status := p.Status(); status.ActiveKey != "walk" {
		t.Errorf("Expected initial animation 'walk', got %q", status.ActiveKey)
	}
}

func TestNewFallsBackToFirstDeclared(t *testing.T) {
	p := newTestPlayer(t, "", 0)
	status := p.Status()
	if status.ActiveKey != "idle" {
		t.Errorf("Expected first declared animation 'idle', got %q", status.ActiveKey)
	}
	if status.Label != "Idle" || status.FrameCount != 4 {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestNewEmptyTable(t *testing.T) {
	comp, err := render.NewCompositor(32, 32, "")
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	table := &anim.Table{Animations: map[string]anim.Entry{}}
	if _, err := New(table, testSheetImage(), comp, 0); err == nil {
		t.Error("Expected an error for an empty table")
	}
}

func TestAnimationsDeclarationOrder(t *testing.T) {
	p := newTestPlayer(t, "", 0)
	controls := p.Animations()
	if len(controls) != 2 {
		t.Fatalf("Expected 2 controls, got %d", len(controls))
	}
	if controls[0].Key != "idle" || controls[1].Key != "walk" {
		t.Errorf("Controls out of order: %+v", controls)
	}
	if controls[1].Label != "Walk" {
		t.Errorf("Expected label 'Walk', got %q", controls[1].Label)
	}
}

func TestSetActive(t *testing.T) {
	p := newTestPlayer(t, "", 0)

	if p.SetActive("fly") {
		t.Error("Expected false for an unknown key")
	}
	if status := p.Status(); status.ActiveKey != "idle" {
		t.Errorf("Unknown key changed the animation to %q", status.ActiveKey)
	}

	if !p.SetActive("walk") {
		t.Fatal("Expected SetActive to succeed")
	}
	if status := p.Status(); status.ActiveKey != "walk" || status.FrameIndex != 0 {
		t.Errorf("Unexpected status after switch: %+v", status)
	}
}

func TestSelectRejectsUnknownKey(t *testing.T) {
	p := newTestPlayer(t, "", 0)
	if p.Select("fly") {
		t.Error("Expected false for an unknown key")
	}
	if p.Has("fly") {
		t.Error("Has reported an unknown key")
	}
	if !p.Has("walk") {
		t.Error("Has missed a declared key")
	}
}

func TestRenderSequenceFrameCount(t *testing.T) {
	sink := &countingSink{}
	p := newTestPlayer(t, "", 0, sink)

	frames, err := p.RenderSequence(context.Background(), 2*time.Second, 30)
	if err != nil {
		t.Fatalf("RenderSequence failed: %v", err)
	}
	if frames != 60 {
		t.Errorf("Expected 60 frames for 2s at 30fps, got %d", frames)
	}
	if sink.frames != 60 {
		t.Errorf("Sink saw %d frames, expected 60", sink.frames)
	}
}

func TestRenderSequenceAdvancesPlayback(t *testing.T) {
	p := newTestPlayer(t, "", 0, &countingSink{})

	// 1s at 20fps is 20 steps of 50ms; the first carries no elapsed time, so
	// 950ms advance the 100ms/frame idle animation by 9 steps through 4
	// frames: index 1.
	if _, err := p.RenderSequence(context.Background(), time.Second, 20); err != nil {
		t.Fatalf("RenderSequence failed: %v", err)
	}
	status := p.Status()
	if status.FrameIndex != 1 {
		t.Errorf("Expected frame index 1, got %d", status.FrameIndex)
	}
}

func TestRenderSequenceHonorsContext(t *testing.T) {
	p := newTestPlayer(t, "", 0, &countingSink{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := p.RenderSequence(ctx, time.Second, 30)
	if err == nil {
		t.Error("Expected a context error")
	}
	if frames != 0 {
		t.Errorf("Expected 0 frames after cancellation, got %d", frames)
	}
}

func TestRunSelectAndStop(t *testing.T) {
	sink := &countingSink{}
	p := newTestPlayer(t, "", 100, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 120) }()

	if !p.Select("walk") {
		t.Error("Expected Select to succeed")
	}

	deadline := time.After(2 * time.Second)
	for {
		status := p.Status()
		if status.ActiveKey == "walk" && sink.frames > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Switch never took effect: %+v after %d frames", status, sink.frames)
		case <-time.After(10 * time.Millisecond):
		}
	}

	img, err := p.Frame()
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("Expected a 32x32 snapshot, got %v", img.Bounds())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned an error: %v", err)
	}
}
