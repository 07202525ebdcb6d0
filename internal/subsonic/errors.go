package subsonic

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnrecognized is returned when an "ok" envelope carries none of the known payload fields.
	ErrUnrecognized = errors.New("no known payload present")

	// ErrInvalidDocument is returned when a response body is not a subsonic-response document.
	ErrInvalidDocument = errors.New("invalid subsonic document")

	// ErrNotFound matches every [*NotFoundError] through errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrNoCoverArt is returned by cover accessors on entities without a cover reference.
	ErrNoCoverArt = errors.New("no cover art found")
)

// ErrorCode is a Subsonic API error code.
type ErrorCode int

const (
	CodeGeneric              ErrorCode = 0
	CodeMissingParameter     ErrorCode = 10
	CodeClientTooOld         ErrorCode = 20
	CodeServerTooOld         ErrorCode = 30
	CodeWrongCredentials     ErrorCode = 40
	CodeTokenAuthUnsupported ErrorCode = 41
	CodeNotAuthorized        ErrorCode = 50
	CodeTrialExpired         ErrorCode = 60
	CodeNotFound             ErrorCode = 70
)

func (c ErrorCode) String() string {
	switch c {
	case CodeGeneric:
		return "generic error"
	case CodeMissingParameter:
		return "required parameter is missing"
	case CodeClientTooOld:
		return "incompatible client version"
	case CodeServerTooOld:
		return "incompatible server version"
	case CodeWrongCredentials:
		return "wrong username or password"
	case CodeTokenAuthUnsupported:
		return "token authentication not supported"
	case CodeNotAuthorized:
		return "user is not authorized"
	case CodeTrialExpired:
		return "trial period is over"
	case CodeNotFound:
		return "requested data not found"
	default:
		return fmt.Sprintf("code %d", int(c))
	}
}

// APIError is a business-level failure reported by the server in a "failed" envelope.
type APIError struct {
	Code    ErrorCode
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("subsonic error %d: %s", int(e.Code), e.Code)
	}
	return fmt.Sprintf("subsonic error %d: %s", int(e.Code), e.Message)
}

// UnmarshalJSON accepts the error code as a number or a numeric string.
func (e *APIError) UnmarshalJSON(b []byte) error {
	var w struct {
		Code    number `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	code := c.required("code", w.Code)
	if c.err != nil {
		return c.err
	}

	*e = APIError{Code: ErrorCode(code), Message: w.Message}
	return nil
}

// MalformedError reports a numeric wire field that could not be coerced to a non-negative integer.
//
// Field is the wire name. Raw is the text received; it is empty when a required field was absent.
type MalformedError struct {
	Field string
	Raw   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed field %q: %q is not a non-negative integer", e.Field, e.Raw)
}

// NotFoundError reports an identity-based fetch that matched nothing on the server.
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransportError wraps a failure raised by the [Client] collaborator.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// transportErr wraps err unless the transport already surfaced a server API error.
func transportErr(op string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// notFound converts a code 70 API error into a [*NotFoundError] for the given identity.
func notFound(entity, id string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == CodeNotFound {
		return &NotFoundError{Entity: entity, ID: id, Err: apiErr}
	}
	return err
}
