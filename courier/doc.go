// Package courier is a convenience layer over a pluggable HTTP transport:
// it builds requests from a base-host configuration plus per-call
// overrides, executes them through an injected transport provider, and
// maps raw outcomes into typed success/failure results.
//
// Every executed call is canonicalized into a deterministic string and
// signed with a stable content hash, so identical requests always produce
// identical signatures regardless of header or query insertion order. The
// signature doubles as a cache, deduplication and debugging key.
//
// # Quick Start
//
//	client := courier.New("https://api.example.com/v1",
//	    courier.WithDefaultHeader("Accept", "application/json"),
//	)
//
//	type User struct {
//	    ID   int    `json:"id" validate:"required"`
//	    Name string `json:"name" validate:"required"`
//	}
//
//	res, err := courier.Get[User](ctx, client, "/users/42")
//	if err != nil {
//	    var cerr *courier.Error
//	    if errors.As(err, &cerr) {
//	        log.Printf("%s failed: %s (sig %s)", cerr.Kind, cerr.FieldPath, cerr.Signature)
//	    }
//	    return err
//	}
//	fmt.Println(res.Value.Name, res.Signature)
//
// # Failure Model
//
// Failures are returned as data, never panics: every error out of the
// executor is a *Error whose Kind classifies it (invalid URL, server,
// invalid response, transport, encoding, decoding, cancelled). Decoding
// failures additionally carry the target type name and the dotted field
// path at which parsing failed.
//
// The canonical string and signature ride along on both success and
// failure whenever a request descriptor was actually built; they are empty
// strings when construction failed first. That distinction is part of the
// contract.
//
// # Testing
//
// MockTransport is a drop-in Transport double with a (method, path) stub
// table and an ordered call log:
//
//	mock := courier.NewMockTransport()
//	mock.Stub(courier.MethodGet, "/users/42", `{"id":42,"name":"ada"}`, 200, nil, 0)
//
//	client := courier.New("https://api.example.com",
//	    courier.WithTransport(mock),
//	)
//
// # Extras
//
// Optional, all off by default: signature-keyed in-flight coalescing
// (WithCoalescing), a Redis-backed response cache (WithCache), client-side
// rate limiting (WithRateLimit), a circuit breaker around the transport
// (WithCircuitBreaker), OpenTelemetry tracing and metrics (provider
// injection), and zerolog debug output with cURL rendering (WithDebug,
// WithGenerateCurl).
//
// Retries, redirects, cookies, connection pooling beyond net/http
// defaults, and streaming bodies are deliberately out of scope; they
// belong to the transport provider.
package courier
