package subsonic

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the outcome reported by a response envelope.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch Status(v) {
	case StatusOK, StatusFailed:
		*s = Status(v)
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDocument, v)
	}
}

// Envelope is the content of a "subsonic-response" document.
//
// At most one payload is expected when Status is ok; Error is expected iff Status is failed.
type Envelope struct {
	Status  Status
	Version string
	Error   *APIError

	payloads [numPayloadKinds]json.RawMessage
}

// Response is the top-level JSON document returned by every endpoint.
type Response struct {
	Envelope Envelope `json:"subsonic-response"`
}

// Payload is the opaque value of the single populated payload field of an envelope.
type Payload struct {
	Kind PayloadKind
	Raw  json.RawMessage
}

// Decode parses a raw response body into its envelope.
func Decode(body []byte) (*Envelope, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if resp.Envelope.Status == "" {
		return nil, fmt.Errorf("%w: missing subsonic-response status", ErrInvalidDocument)
	}
	return &resp.Envelope, nil
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var head struct {
		Status  Status    `json:"status"`
		Version string    `json:"version"`
		Error   *APIError `json:"error"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	env := Envelope{Status: head.Status, Version: head.Version, Error: head.Error}
	for k := range numPayloadKinds {
		raw, ok := fields[payloadKeys[k]]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		env.payloads[k] = raw
	}
	*e = env
	return nil
}

// MarshalJSON writes the envelope back in its wire shape.
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"status":  e.Status,
		"version": e.Version,
	}
	if e.Error != nil {
		out["error"] = map[string]any{"code": int(e.Error.Code), "message": e.Error.Message}
	}
	for k, raw := range e.payloads {
		if raw != nil {
			out[payloadKeys[k]] = raw
		}
	}
	return json.Marshal(out)
}

// Set populates the payload field for kind. A nil raw clears it.
func (e *Envelope) Set(kind PayloadKind, raw json.RawMessage) {
	if kind < 0 || kind >= numPayloadKinds {
		return
	}
	e.payloads[kind] = raw
}

// Payload returns the raw value of the field for kind, if populated.
func (e *Envelope) Payload(kind PayloadKind) (json.RawMessage, bool) {
	if kind < 0 || kind >= numPayloadKinds || e.payloads[kind] == nil {
		return nil, false
	}
	return e.payloads[kind], true
}

// Err returns the server error of a failed envelope and nil otherwise.
// Payload fields are never inspected.
func (e *Envelope) Err() error {
	if e.Status != StatusFailed {
		return nil
	}
	if e.Error == nil {
		return &APIError{Code: CodeGeneric}
	}
	return e.Error
}

// Resolve yields the single payload of the envelope.
//
// A failed envelope resolves to its [*APIError]. An ok envelope resolves to the first
// populated field in [PayloadKind] order, or [ErrUnrecognized] when none is populated.
func (e *Envelope) Resolve() (Payload, error) {
	if err := e.Err(); err != nil {
		return Payload{}, err
	}
	for k := range numPayloadKinds {
		if raw := e.payloads[k]; raw != nil {
			return Payload{Kind: k, Raw: raw}, nil
		}
	}
	return Payload{}, ErrUnrecognized
}
