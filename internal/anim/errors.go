package anim

import (
	"errors"
	"fmt"
)

// ErrNoAnimations is returned when a document normalizes to an empty table.
var ErrNoAnimations = errors.New("animation document declares no animations")

// LoadError reports a failed asset read (sheet image or animation document).
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SchemaError reports an animation document whose top-level shape is invalid.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "animation document: " + e.Reason
}

// DefinitionError reports a named animation that cannot be normalized.
type DefinitionError struct {
	Name   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("animation %q: %s", e.Name, e.Reason)
}
