package courier

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// Transport is the byte-level send capability consumed by the executor.
// Connection handling, TLS, redirects, retries and pooling all live behind
// this interface; the core never reaches around it.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportRequest is the fully-resolved outgoing request handed to a
// Transport. The cache policy rides along so providers that understand
// caching can honor it.
type TransportRequest struct {
	Method      Method
	URL         string
	Headers     map[string]string
	Body        []byte
	CachePolicy CachePolicy
}

// TransportResponse is the raw outcome of a transport send.
type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Config holds the tunables for the default net/http-backed transport.
// Use DefaultConfig and adjust fields as needed.
type Config struct {
	// Timeout bounds the entire request including body read. Zero means
	// no timeout.
	Timeout time.Duration

	// DialTimeout bounds TCP connection establishment.
	DialTimeout time.Duration

	// KeepAlive is the TCP keep-alive probe interval.
	KeepAlive time.Duration

	// MaxIdleConns caps idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections per host. Often the most
	// important knob when the client talks to a single downstream.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection stays pooled.
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake.
	TLSHandshakeTimeout time.Duration

	// DisableCompression disables transparent gzip. On by default because
	// not every downstream negotiates it correctly.
	DisableCompression bool
}

// DefaultConfig returns a balanced configuration for typical API traffic.
func DefaultConfig() Config {
	return Config{
		Timeout:             15 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true,
	}
}

// LowLatencyConfig returns a configuration tuned to fail fast, for
// latency-sensitive callers.
func LowLatencyConfig() Config {
	return Config{
		Timeout:             5 * time.Second,
		DialTimeout:         2 * time.Second,
		KeepAlive:           15 * time.Second,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 25,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		DisableCompression:  true,
	}
}

// HTTPTransport is the default Transport, backed by a net/http client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds an HTTPTransport from cfg.
func NewHTTPTransport(cfg Config) *HTTPTransport {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		DisableCompression:  cfg.DisableCompression,
	}
	return &HTTPTransport{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// NewHTTPTransportFromClient wraps an existing *http.Client. Use this when
// the caller needs full control over the underlying transport chain.
func NewHTTPTransportFromClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.CachePolicy == CacheBypass {
		httpReq.Header.Set("Cache-Control", "no-cache")
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &TransportResponse{
		StatusCode: httpResp.StatusCode,
		Headers:    flattenHeader(httpResp.Header),
		Body:       respBody,
	}, nil
}

// flattenHeader keeps the first value per key; the convenience layer does
// not model multi-valued headers.
func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			flat[k] = vs[0]
		}
	}
	return flat
}
