package models

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Patch is an optional field of a PATCH body that tells an absent field apart from an
// explicit null: {"description": null} clears a goal description, {} leaves it alone.
type Patch[T any] struct {
	Set   bool // the field was present
	Null  bool // the field was present as null
	Value T
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	var zero T
	p.Set, p.Value = true, zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Null = true
		return nil
	}
	p.Null = false
	return sonic.Unmarshal(data, &p.Value)
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Set || p.Null {
		return []byte("null"), nil
	}
	return sonic.Marshal(p.Value)
}

// Resolve returns the value a nullable field takes after the patch: current when the
// field was absent, nil when it was null, and the new value otherwise.
func (p Patch[T]) Resolve(current *T) *T {
	switch {
	case !p.Set:
		return current
	case p.Null:
		return nil
	}
	v := p.Value
	return &v
}
