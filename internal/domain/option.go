package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option is a value that is either present (Some) or absent (None).
// It keeps "confirmed absent" distinct from "not loaded yet", which is
// tracked separately by the query layer.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns the absent variant
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome returns true if a value is present
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone returns true if no value is present
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse returns the value, or def when absent
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Wire form used by the actor: {"__kind__":"Some","value":...} / {"__kind__":"None"}
const (
	kindSome = "Some"
	kindNone = "None"
)

type optionWire struct {
	Kind  string          `json:"__kind__"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the option in its tagged wire form
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return json.Marshal(optionWire{Kind: kindNone})
	}
	raw, err := json.Marshal(o.value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(optionWire{Kind: kindSome, Value: raw})
}

// UnmarshalJSON decodes the tagged wire form. A JSON null decodes to None.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}

	var w optionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Kind {
	case kindNone:
		*o = None[T]()
		return nil
	case kindSome:
		var v T
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return fmt.Errorf("decoding option value: %w", err)
		}
		*o = Some(v)
		return nil
	default:
		return fmt.Errorf("unknown option kind %q", w.Kind)
	}
}
