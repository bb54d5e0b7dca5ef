package model

import "encoding/json"

// Field is an optional update value that distinguishes "not provided"
// from "provided". For nullable columns use a pointer type, so that
// Set(nil) means "clear" while the zero Field means "leave alone".
type Field[T any] struct {
	set   bool
	value T
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Unset returns an empty Field.
func Unset[T any]() Field[T] {
	return Field[T]{}
}

// IsSet reports whether a value was provided.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Get returns the provided value and whether one was provided.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// MarshalJSON encodes the carried value; an unset Field encodes as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON marks the field as provided. encoding/json only calls it
// when the key is present, so an absent key keeps the field unset while
// an explicit null sets it to T's zero value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var v T
	if string(data) != "null" {
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
	}
	f.set = true
	f.value = v
	return nil
}
