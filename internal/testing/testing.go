// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/sonix/internal/subsonic"
)

// Call records a single operation issued against a [FakeClient].
type Call struct {
	Op    string
	Query subsonic.Query
}

// FakeClient is a test double for [subsonic.Client] serving canned response documents per operation.
type FakeClient struct {
	mu sync.Mutex

	Responses map[string]string // op -> full response document
	Bytes     map[string][]byte // op -> binary payload
	Err       error             // returned by every call when set
	BaseURL   string
	calls     []Call

	// Route, when set, is consulted before Responses and may answer per query.
	Route func(op string, q subsonic.Query) (string, bool)
}

// NewFakeClient creates a FakeClient with empty response tables.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Responses: map[string]string{},
		Bytes:     map[string][]byte{},
		BaseURL:   "http://fake.local",
	}
}

func (f *FakeClient) record(op string, q subsonic.Query) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Query: q})
}

func (f *FakeClient) Invoke(ctx context.Context, op string, q subsonic.Query) (json.RawMessage, error) {
	f.record(op, q)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Route != nil {
		if body, ok := f.Route(op, q); ok {
			return json.RawMessage(body), nil
		}
	}
	body, ok := f.Responses[op]
	if !ok {
		return nil, fmt.Errorf("no canned response for %s", op)
	}
	return json.RawMessage(body), nil
}

func (f *FakeClient) InvokeBytes(ctx context.Context, op string, q subsonic.Query) ([]byte, error) {
	f.record(op, q)
	if f.Err != nil {
		return nil, f.Err
	}
	b, ok := f.Bytes[op]
	if !ok {
		return nil, fmt.Errorf("no canned bytes for %s", op)
	}
	return b, nil
}

func (f *FakeClient) BuildURL(op string, q subsonic.Query) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	u := f.BaseURL + "/rest/" + op
	if q.Len() > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

// Calls returns a copy of all recorded calls.
func (f *FakeClient) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times op was invoked.
func (f *FakeClient) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// OKEnvelope builds an ok response document with payload stored under key.
func OKEnvelope(key, payload string) string {
	if key == "" {
		return `{"subsonic-response":{"status":"ok","version":"1.16.1"}}`
	}
	return fmt.Sprintf(`{"subsonic-response":{"status":"ok","version":"1.16.1","%s":%s}}`, key, payload)
}

// FailedEnvelope builds a failed response document.
func FailedEnvelope(code int, message string) string {
	return fmt.Sprintf(`{"subsonic-response":{"status":"failed","version":"1.16.1","error":{"code":%d,"message":%q}}}`, code, message)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
