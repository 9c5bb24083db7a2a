package courier

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"
)

// ErrNoStub is returned by MockTransport when no stub matches a request.
// The executor maps it to a KindInvalidURL failure, so an unstubbed call
// fails deterministically instead of hanging or panicking.
var ErrNoStub = errors.New("courier: no stub registered for request")

// RecordedCall is one observed call through a MockTransport, in the shape
// test authors assert against.
type RecordedCall struct {
	Method      Method
	Path        string
	Headers     map[string]string
	Query       map[string]string
	Fragment    string
	CachePolicy CachePolicy
	HadBody     bool
}

// MockTransport is a Transport test double. It records every call and
// serves stubbed responses keyed by the literal (method, path) pair; query,
// fragment and headers never participate in matching.
//
// The stub table and the call log are shared mutable state read and written
// from concurrent calls, so both sit behind a mutex. This is deliberately
// the only synchronized component in the package.
type MockTransport struct {
	mu    sync.RWMutex
	stubs map[stubKey]stubEntry
	calls []RecordedCall
}

type stubKey struct {
	method Method
	path   string
}

type stubEntry struct {
	resp  *TransportResponse
	err   error
	delay time.Duration
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{stubs: make(map[stubKey]stubEntry)}
}

// Stub registers a response for (method, path). Re-stubbing the same pair
// replaces the previous entry. delay, if non-zero, is applied before the
// response is returned and respects context cancellation.
func (m *MockTransport) Stub(method Method, path string, body string, statusCode int, headers map[string]string, delay time.Duration) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs[stubKey{method, path}] = stubEntry{
		resp: &TransportResponse{
			StatusCode: statusCode,
			Headers:    headers,
			Body:       []byte(body),
		},
		delay: delay,
	}
	return m
}

// StubFailure registers a transport-level error for (method, path).
func (m *MockTransport) StubFailure(method Method, path string, err error, delay time.Duration) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs[stubKey{method, path}] = stubEntry{err: err, delay: delay}
	return m
}

// Send implements Transport.
func (m *MockTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	call := recordCall(req)

	m.mu.Lock()
	m.calls = append(m.calls, call)
	entry, ok := m.stubs[stubKey{req.Method, call.Path}]
	m.mu.Unlock()

	if !ok {
		return nil, ErrNoStub
	}

	if entry.delay > 0 {
		timer := time.NewTimer(entry.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if entry.err != nil {
		return nil, entry.err
	}
	return cloneTransportResponse(entry.resp), nil
}

// Calls returns a copy of the ordered call log.
func (m *MockTransport) Calls() []RecordedCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedCall(nil), m.calls...)
}

// CallCount returns how many calls matched (method, path).
func (m *MockTransport) CallCount(method Method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Reset clears both the stub table and the call log.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = make(map[stubKey]stubEntry)
	m.calls = nil
}

// recordCall projects a TransportRequest back into path/query/fragment
// terms for the call log.
func recordCall(req *TransportRequest) RecordedCall {
	call := RecordedCall{
		Method:      req.Method,
		Headers:     req.Headers,
		CachePolicy: req.CachePolicy,
		HadBody:     len(req.Body) > 0,
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		call.Path = req.URL
		return call
	}

	call.Path = u.Path
	call.Fragment = u.Fragment
	if q := u.Query(); len(q) > 0 {
		call.Query = make(map[string]string, len(q))
		for k, vs := range q {
			if len(vs) > 0 {
				call.Query[k] = vs[0]
			}
		}
	}
	return call
}

func cloneTransportResponse(resp *TransportResponse) *TransportResponse {
	if resp == nil {
		return nil
	}
	clone := &TransportResponse{
		StatusCode: resp.StatusCode,
		Body:       append([]byte(nil), resp.Body...),
	}
	if resp.Headers != nil {
		clone.Headers = make(map[string]string, len(resp.Headers))
		for k, v := range resp.Headers {
			clone.Headers[k] = v
		}
	}
	return clone
}
