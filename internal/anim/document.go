package anim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Rect identifies a rectangular region of the sprite sheet.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Valid reports whether the rectangle has finite coordinates and a
// positive size.
func (r Rect) Valid() bool {
	return isFinite(r.X) && isFinite(r.Y) &&
		isFinite(r.W) && r.W > 0 &&
		isFinite(r.H) && r.H > 0
}

// DefaultsSpec is the raw "defaults" object of an animation document.
// Nil fields were omitted and fall back to the base defaults.
type DefaultsSpec struct {
	FrameDurationMs *float64 `json:"frameDurationMs,omitempty"`
	Scale           *float64 `json:"scale,omitempty"`
	FrameWidth      *float64 `json:"frameWidth,omitempty"`
	FrameHeight     *float64 `json:"frameHeight,omitempty"`
	SheetOffsetX    *float64 `json:"sheetOffsetX,omitempty"`
	SheetOffsetY    *float64 `json:"sheetOffsetY,omitempty"`
}

// Spec is one raw animation declaration: either an explicit frame list or
// grid parameters (row + frameCount, laid out along one sheet row).
type Spec struct {
	Label           *string  `json:"label,omitempty"`
	FrameDurationMs *float64 `json:"frameDurationMs,omitempty"`
	Scale           *float64 `json:"scale,omitempty"`
	Frames          []Rect   `json:"frames,omitempty"`
	Row             *float64 `json:"row,omitempty"`
	FrameCount      *float64 `json:"frameCount,omitempty"`
	StartCol        *float64 `json:"startCol,omitempty"`
	FrameWidth      *float64 `json:"frameWidth,omitempty"`
	FrameHeight     *float64 `json:"frameHeight,omitempty"`
	SheetOffsetX    *float64 `json:"sheetOffsetX,omitempty"`
	SheetOffsetY    *float64 `json:"sheetOffsetY,omitempty"`
}

// Document is a parsed animation document. Order holds the keys of the
// animations object in declaration order; the initial animation falls back
// to Order[0] when no defaultAnimation is given.
type Document struct {
	Defaults         *DefaultsSpec
	DefaultAnimation string
	Animations       map[string]Spec
	Order            []string
}

// ParseDocument validates the top-level shape of a JSON animation document
// and parses it. Shape violations come back as *SchemaError.
func ParseDocument(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &SchemaError{Reason: "document must be a JSON object"}
	}

	doc := &Document{}

	if raw, ok := top["defaults"]; ok {
		var d DefaultsSpec
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, &SchemaError{Reason: "defaults must be an object of numbers"}
		}
		doc.Defaults = &d
	}

	if raw, ok := top["defaultAnimation"]; ok {
		if err := json.Unmarshal(raw, &doc.DefaultAnimation); err != nil {
			return nil, &SchemaError{Reason: "defaultAnimation must be a string"}
		}
	}

	raw, ok := top["animations"]
	if !ok {
		return nil, &SchemaError{Reason: "animations object is required"}
	}
	if err := json.Unmarshal(raw, &doc.Animations); err != nil {
		return nil, &SchemaError{Reason: "animations must be an object mapping names to specs"}
	}
	order, err := animationOrder(raw)
	if err != nil {
		return nil, &SchemaError{Reason: "animations must be an object mapping names to specs"}
	}
	doc.Order = order

	return doc, nil
}

// ReadDocument reads and parses an animation document from disk.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ParseDocument(data)
}

// WriteDocument writes a document as JSON, keeping animation order.
func WriteDocument(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalJSON emits the animations object in declaration order.
func (d *Document) MarshalJSON() ([]byte, error) {
	parts := make([]string, 0, 3)

	if d.Defaults != nil {
		b, err := json.Marshal(d.Defaults)
		if err != nil {
			return nil, err
		}
		parts = append(parts, `"defaults":`+string(b))
	}
	if d.DefaultAnimation != "" {
		b, err := json.Marshal(d.DefaultAnimation)
		if err != nil {
			return nil, err
		}
		parts = append(parts, `"defaultAnimation":`+string(b))
	}

	order := d.Order
	if len(order) == 0 {
		for name := range d.Animations {
			order = append(order, name)
		}
	}
	animParts := make([]string, 0, len(order))
	for _, name := range order {
		spec, ok := d.Animations[name]
		if !ok {
			return nil, fmt.Errorf("document order names unknown animation %q", name)
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(spec)
		if err != nil {
			return nil, err
		}
		animParts = append(animParts, string(key)+":"+string(val))
	}
	parts = append(parts, `"animations":{`+strings.Join(animParts, ",")+`}`)

	return []byte("{" + strings.Join(parts, ",") + "}"), nil
}

// animationOrder walks the raw animations object and records its keys in
// declaration order, which encoding/json maps discard.
func animationOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("animations is not an object")
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}
		order = append(order, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return order, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
