package anim

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Defaults are the fully resolved global defaults of a document: the base
// values overlaid by the document's defaults object.
type Defaults struct {
	FrameDurationMs float64
	Scale           float64
	FrameWidth      float64
	FrameHeight     float64
	SheetOffsetX    float64
	SheetOffsetY    float64
}

// BaseDefaults returns the hardcoded bottom layer of the defaults merge.
func BaseDefaults() Defaults {
	return Defaults{
		FrameDurationMs: 120,
		Scale:           4,
		FrameWidth:      32,
		FrameHeight:     32,
		SheetOffsetX:    0,
		SheetOffsetY:    0,
	}
}

// MergeDefaults overlays a document's defaults object on a base layer.
// Precedence is explicit and applied exactly once, at normalization time:
// animation-level values > document defaults > base defaults.
func MergeDefaults(base Defaults, spec *DefaultsSpec) Defaults {
	if spec == nil {
		return base
	}
	merged := base
	if spec.FrameDurationMs != nil {
		merged.FrameDurationMs = *spec.FrameDurationMs
	}
	if spec.Scale != nil {
		merged.Scale = *spec.Scale
	}
	if spec.FrameWidth != nil {
		merged.FrameWidth = *spec.FrameWidth
	}
	if spec.FrameHeight != nil {
		merged.FrameHeight = *spec.FrameHeight
	}
	if spec.SheetOffsetX != nil {
		merged.SheetOffsetX = *spec.SheetOffsetX
	}
	if spec.SheetOffsetY != nil {
		merged.SheetOffsetY = *spec.SheetOffsetY
	}
	return merged
}

// Entry is a normalized, ready-to-play animation.
type Entry struct {
	Label           string
	FrameDurationMs float64
	Scale           float64
	Frames          []Rect
}

// Table is the immutable animation table built once at startup. Order holds
// the declaration order of the keys.
type Table struct {
	Defaults         Defaults
	DefaultAnimation string
	Order            []string
	Animations       map[string]Entry
}

// Lookup returns the entry for key.
func (t *Table) Lookup(key string) (Entry, bool) {
	e, ok := t.Animations[key]
	return e, ok
}

// Normalize turns a parsed document into an animation table. Every
// animation is resolved and validated here so playback and rendering never
// re-check geometry or timing. Rejections carry the offending animation
// name as a *DefinitionError.
func Normalize(doc *Document) (*Table, error) {
	defaults := MergeDefaults(BaseDefaults(), doc.Defaults)

	if len(doc.Order) == 0 {
		return nil, ErrNoAnimations
	}

	table := &Table{
		Defaults:         defaults,
		DefaultAnimation: doc.DefaultAnimation,
		Order:            append([]string(nil), doc.Order...),
		Animations:       make(map[string]Entry, len(doc.Order)),
	}

	for _, name := range doc.Order {
		spec := doc.Animations[name]

		frames := ResolveFrames(spec, defaults)
		if len(frames) == 0 {
			return nil, &DefinitionError{
				Name:   name,
				Reason: "requires a non-empty frames list or valid grid parameters (row and frameCount)",
			}
		}
		for i, frame := range frames {
			if !frame.Valid() {
				return nil, &DefinitionError{
					Name:   name,
					Reason: fmt.Sprintf("frame %d has invalid geometry", i),
				}
			}
		}

		duration := defaults.FrameDurationMs
		if spec.FrameDurationMs != nil {
			duration = *spec.FrameDurationMs
		}
		if !isFinite(duration) || duration <= 0 {
			return nil, &DefinitionError{Name: name, Reason: "frameDurationMs must be a positive number"}
		}

		scale := defaults.Scale
		if spec.Scale != nil {
			scale = *spec.Scale
		}
		if !isFinite(scale) || scale <= 0 {
			return nil, &DefinitionError{Name: name, Reason: "scale must be a positive number"}
		}

		label := displayLabel(name)
		if spec.Label != nil {
			label = *spec.Label
		}

		table.Animations[name] = Entry{
			Label:           label,
			FrameDurationMs: duration,
			Scale:           scale,
			Frames:          frames,
		}
	}

	return table, nil
}

// displayLabel upper-cases the first rune of an animation key.
func displayLabel(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError && size <= 1 {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
