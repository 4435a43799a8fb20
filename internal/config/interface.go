package config

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Loader is the interface for a format-specific table loader.
type Loader interface {
	// Load reads the built-in tables, then every given profile path in
	// order, and returns the merged model. A section defined in a later
	// source replaces the same section from an earlier one.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// ErrUnknownTarget is returned when a target profile does not exist.
var ErrUnknownTarget = errors.New("unknown target")

// Target returns the named target profile.
func (m *Model) Target(name string) (*Target, error) {
	t, ok := m.Targets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTarget, name)
	}
	return t, nil
}

// Conditions returns the target's condition sets with the named variants
// applied. With no names the target's default variants are used.
func (t *Target) Conditions(variants ...string) (trueSet, falseSet, removeLines []string, err error) {
	if len(variants) == 0 {
		variants = t.DefaultVariants
	}
	trueSet = slices.Clone(t.TrueConditions)
	falseSet = slices.Clone(t.FalseConditions)
	removeLines = slices.Clone(t.RemoveLines)
	for _, name := range variants {
		v, ok := t.Variants[name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("target %q has no variant %q", t.Name, name)
		}
		trueSet = append(trueSet, v.TrueConditions...)
		falseSet = append(falseSet, v.FalseConditions...)
		removeLines = append(removeLines, v.RemoveLines...)
	}
	return trueSet, falseSet, removeLines, nil
}
