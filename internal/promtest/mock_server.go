// Package promtest provides a mock Prometheus HTTP API server and canned
// response fixtures for testing the client.
package promtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockServer is a mock Prometheus HTTP server for testing the API client.
// It serves configured responses per endpoint path and records incoming
// requests so tests can assert on methods, parameters, and headers.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	sequences map[string][]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// RecordedRequest captures an incoming request for later assertions.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Header http.Header
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
		sequences: make(map[string][]MockResponse),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))

	return ms
}

// NewTLSMockServer creates a mock server listening on a TLS endpoint with
// a self-signed certificate. Clients need InsecureSkipVerify or the
// httptest CA to talk to it.
func NewTLSMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
		sequences: make(map[string][]MockResponse),
	}

	ms.server = httptest.NewTLSServer(http.HandlerFunc(ms.handler))

	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific endpoint path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// SetResponseSequence serves the given responses in order for a path.
// The final response repeats once the sequence is exhausted. Useful for
// exercising retry behavior (fail, fail, succeed).
func (ms *MockServer) SetResponseSequence(path string, responses ...MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sequences[path] = responses
}

// RequestCount returns the number of requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// LastRequest returns the most recent recorded request, or nil if none.
func (ms *MockServer) LastRequest() *RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return nil
	}

	req := ms.requests[len(ms.requests)-1]
	return &req
}

// Requests returns a copy of all recorded requests.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// Reset clears recorded requests and configured responses.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requests = nil
	ms.responses = make(map[string]MockResponse)
	ms.sequences = make(map[string][]MockResponse)
}

// handler handles incoming HTTP requests.
func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	// ParseForm reads the body for form-encoded POSTs so both query and
	// body parameters are available to assertions.
	_ = r.ParseForm()

	recorded := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
		Header: r.Header.Clone(),
	}

	ms.mu.Lock()
	ms.requests = append(ms.requests, recorded)
	response, ok := ms.responses[r.URL.Path]
	if seq, hasSeq := ms.sequences[r.URL.Path]; hasSeq && len(seq) > 0 {
		response, ok = seq[0], true
		if len(seq) > 1 {
			ms.sequences[r.URL.Path] = seq[1:]
		}
	}
	ms.mu.Unlock()

	if !ok {
		// Default 404 with a Prometheus-style error envelope
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ErrorEnvelope("not_found", "unknown endpoint"))
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}
