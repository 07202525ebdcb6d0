// package services implements HTTP transports for the Subsonic API
package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/sonix/internal/subsonic"
)

// Service is a [subsonic.Client] that can also expose undecoded responses.
type Service interface {
	subsonic.Client

	// Raw performs op and returns the response as received, without resolving the envelope.
	Raw(ctx context.Context, op string, q subsonic.Query) (*RawResponse, error)

	// Name returns a human readable name for the server (e.g. "Navidrome at music.local")
	Name() string
}

// RawResponse represents an undecoded API response with status and body.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

var _ Service = (*SubsonicService)(nil)
