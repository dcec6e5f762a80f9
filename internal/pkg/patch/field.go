// Package patch models partial-update inputs where every field is either
// absent or Set(value).
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is an optional update value. The zero value is absent.
// A JSON null, or a value of the wrong JSON type, decodes to absent so the
// remaining fields of the body still apply.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// FromPtr lifts a nullable form value into a Field.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Field[T]{}
	}
	return Set(*p)
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		*f = Field[T]{}
		return nil
	}
	*f = Set(v)
	return nil
}
