package subsonic

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ParseLenientUint parses the text of a numeric wire value into a uint64.
//
// Servers send identifiers and counts as JSON numbers or as numeric strings; both
// reach this function as the same text. Anything that is not a non-negative base-10
// integer fails with a [*MalformedError] naming field.
func ParseLenientUint(field, text string) (uint64, error) {
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, &MalformedError{Field: field, Raw: text}
	}
	return v, nil
}

// number holds a numeric wire value as received, quoted or not.
type number struct {
	text string
	set  bool
}

func num(v uint64) number {
	return number{text: strconv.FormatUint(v, 10), set: true}
}

// optNum returns nil for zero so that unset optional fields stay absent on the wire.
func optNum(v uint64) *number {
	if v == 0 {
		return nil
	}
	n := num(v)
	return &n
}

func (n *number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.text = s
	} else {
		n.text = string(b)
	}
	n.set = true
	return nil
}

func (n number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return []byte(n.text), nil
}

// coercer applies [ParseLenientUint] to the numeric fields of one wire struct and keeps the first failure.
type coercer struct {
	err error
}

func (c *coercer) required(field string, n number) uint64 {
	if c.err != nil {
		return 0
	}
	if !n.set {
		c.err = &MalformedError{Field: field}
		return 0
	}
	v, err := ParseLenientUint(field, n.text)
	if err != nil {
		c.err = err
	}
	return v
}

func (c *coercer) optional(field string, n *number) uint64 {
	if c.err != nil || n == nil || !n.set {
		return 0
	}
	v, err := ParseLenientUint(field, n.text)
	if err != nil {
		c.err = err
	}
	return v
}

// list decodes a wire collection sent either as an array or as a single object.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case len(b) > 0 && b[0] == '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		var item T
		if err := json.Unmarshal(b, &item); err != nil {
			return err
		}
		*l = list[T]{item}
		return nil
	}
}

// items returns the decoded elements, or nil when there are none.
func (l list[T]) items() []T {
	if len(l) == 0 {
		return nil
	}
	return []T(l)
}
