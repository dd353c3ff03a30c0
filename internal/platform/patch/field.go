// Package patch models JSON merge-patch fields with explicit presence:
// a field can be absent, null, or carry a value, and only present fields
// overwrite the stored record.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state JSON value used in PATCH request bodies.
// The zero value means "absent".
type Field[T any] struct {
	set   bool
	null  bool
	value T
}

// Of builds a present field, mainly for tests.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Null builds an explicit-null field.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the field appeared in the request body at all.
func (f Field[T]) IsSet() bool { return f.set }

// Get returns the value and whether a non-null value is present.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(data, []byte("null")) {
		f.null = true
		return nil
	}
	return json.Unmarshal(data, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
