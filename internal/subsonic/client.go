package subsonic

import (
	"context"
	"encoding/json"
)

// Client performs named remote operations against a Subsonic server.
//
// Implementations own the HTTP transport, URL building and authentication.
// Invoke returns the full response document; the envelope is resolved by this package.
type Client interface {
	Invoke(ctx context.Context, op string, q Query) (json.RawMessage, error)
	InvokeBytes(ctx context.Context, op string, q Query) ([]byte, error)
	BuildURL(op string, q Query) (string, error)
}

// Call performs op and resolves the response envelope to its payload.
func Call(ctx context.Context, c Client, op string, q Query) (Payload, error) {
	body, err := c.Invoke(ctx, op, q)
	if err != nil {
		return Payload{}, transportErr(op, err)
	}

	env, err := Decode(body)
	if err != nil {
		return Payload{}, err
	}
	return env.Resolve()
}

// Normalize decodes a resolved payload into the entity type T.
func Normalize[T any](p Payload) (T, error) {
	var out T
	if err := json.Unmarshal(p.Raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func fetch[T any](ctx context.Context, c Client, op string, q Query) (*T, error) {
	p, err := Call(ctx, c, op, q)
	if err != nil {
		return nil, err
	}

	out, err := Normalize[T](p)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks connectivity and credentials. Ping responses carry no payload,
// so only the envelope status is inspected.
func Ping(ctx context.Context, c Client) error {
	body, err := c.Invoke(ctx, "ping", Query{})
	if err != nil {
		return transportErr("ping", err)
	}

	env, err := Decode(body)
	if err != nil {
		return err
	}
	return env.Err()
}
