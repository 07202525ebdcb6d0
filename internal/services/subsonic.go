// Subsonic REST API [Service] implementation
//
// Every operation is a GET on /rest/<op> carrying the authentication parameters
// u, t, s, v, c and f=json. The envelope is left to package subsonic.
package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
)

const (
	DefaultAPIVersion = "1.16.1"
	DefaultClientName = "sonix"
)

// SubsonicOpts configures a [SubsonicService].
type SubsonicOpts struct {
	BaseURL    string
	Username   string
	Password   string
	ClientName string
	APIVersion string

	// LegacyAuth sends the hex encoded password instead of a salted token,
	// for servers that answer with error 41.
	LegacyAuth bool

	HTTPClient *http.Client
	Logger     *log.Logger
}

// SubsonicService implements [subsonic.Client] over HTTP.
type SubsonicService struct {
	baseURL    *url.URL
	username   string
	password   string
	clientName string
	apiVersion string
	legacyAuth bool
	httpClient *http.Client
	logger     *log.Logger

	salt func() string
}

// NewSubsonicService validates opts and creates a new Subsonic transport.
func NewSubsonicService(opts SubsonicOpts) (*SubsonicService, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: server url is required", shared.ErrMissingConfig)
	}

	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: server url: %v", shared.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: server url must be http or https, got %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	if opts.Username == "" || opts.Password == "" {
		return nil, shared.ErrMissingCredentials
	}

	if opts.ClientName == "" {
		opts.ClientName = DefaultClientName
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &SubsonicService{
		baseURL:    u,
		username:   opts.Username,
		password:   opts.Password,
		clientName: opts.ClientName,
		apiVersion: opts.APIVersion,
		legacyAuth: opts.LegacyAuth,
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "service", "subsonic"),
		salt:       newSalt,
	}, nil
}

func newSalt() string {
	return strings.ReplaceAll(shared.GenerateID(), "-", "")[:16]
}

// Name returns the service name.
func (s *SubsonicService) Name() string {
	return "Subsonic at " + s.baseURL.Host
}

// auth builds the credential parameters appended to every request.
func (s *SubsonicService) auth() subsonic.Query {
	q := subsonic.With("u", s.username)
	if s.legacyAuth {
		q = q.Arg("p", "enc:"+hex.EncodeToString([]byte(s.password)))
	} else {
		salt := s.salt()
		sum := md5.Sum([]byte(s.password + salt))
		q = q.Arg("t", hex.EncodeToString(sum[:])).Arg("s", salt)
	}
	return q.Arg("v", s.apiVersion).
		Arg("c", s.clientName).
		Arg("f", "json")
}

// BuildURL returns an authenticated, addressable URL for op.
func (s *SubsonicService) BuildURL(op string, q subsonic.Query) (string, error) {
	if op == "" || strings.ContainsAny(op, "/?#") {
		return "", fmt.Errorf("%w: operation %q", shared.ErrInvalidArgument, op)
	}

	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/rest/" + op
	u.RawQuery = q.Merge(s.auth()).Encode()
	return u.String(), nil
}

func (s *SubsonicService) doRequest(ctx context.Context, op string, q subsonic.Query) (*http.Response, []byte, error) {
	apiURL, err := s.BuildURL(op, q)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	s.logger.Debug("invoked", "op", op, "status", resp.StatusCode, "bytes", len(body))
	return resp, body, nil
}

// Invoke performs op and returns the full response document.
func (s *SubsonicService) Invoke(ctx context.Context, op string, q subsonic.Query) (json.RawMessage, error) {
	resp, body, err := s.doRequest(ctx, op, q)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, op, resp.StatusCode)
	}
	return json.RawMessage(body), nil
}

// InvokeBytes performs op and returns a binary body such as an image or a media file.
//
// Servers report failures of binary operations as a JSON document. That document is
// resolved and its error returned instead of the bytes.
func (s *SubsonicService) InvokeBytes(ctx context.Context, op string, q subsonic.Query) ([]byte, error) {
	resp, body, err := s.doRequest(ctx, op, q)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, op, resp.StatusCode)
	}

	if !isJSON(resp.Header) {
		return body, nil
	}

	env, err := subsonic.Decode(body)
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s returned a document instead of binary data", shared.ErrAPIRequest, op)
}

// Raw performs op and returns the response untouched, whatever its status.
func (s *SubsonicService) Raw(ctx context.Context, op string, q subsonic.Query) (*RawResponse, error) {
	resp, body, err := s.doRequest(ctx, op, q)
	if err != nil {
		return nil, err
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		raw.IsJSON = true
		raw.JSONData = jsonData
	}
	return raw, nil
}

func isJSON(h http.Header) bool {
	mt, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/json" || mt == "text/json"
}
