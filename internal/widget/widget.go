// Package widget implements the entries shown on the status line.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
)

// Widget is one entry of the status line. Update recomputes the widget's
// state and Value serializes the current state. Both are called from a
// single goroutine owned by the bar, but Value may observe the result of
// any earlier Update.
type Widget interface {
	Name() string
	Update(ctx context.Context) error
	Value() (json.RawMessage, error)
}

// Block is the JSON object the bar host renders for one widget.
type Block struct {
	Name     string `json:"name"`
	FullText string `json:"full_text"`
	Color    string `json:"color,omitempty"`
	TZOffset *int64 `json:"tz_offset,omitempty"`
}

// SerializationError is returned by Value when the current state cannot be
// encoded.
type SerializationError struct {
	Widget string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize widget %s: %v", e.Widget, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// marshal is swapped in tests to exercise SerializationError.
var marshal = json.Marshal

func encode(b Block) (json.RawMessage, error) {
	raw, err := marshal(b)
	if err != nil {
		return nil, &SerializationError{Widget: b.Name, Err: err}
	}
	return raw, nil
}
