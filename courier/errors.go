package courier

import (
	"errors"
	"fmt"
)

// Kind classifies request failures. Callers branch on the kind rather than
// on error message text.
type Kind int

const (
	// KindInvalidURL means the base host was unusable or URL composition
	// failed; no request was sent.
	KindInvalidURL Kind = iota
	// KindServer means the server answered outside the 2xx range.
	KindServer
	// KindInvalidResponse means the transport returned something that is
	// not classifiable as an HTTP response.
	KindInvalidResponse
	// KindTransport means a connection-level failure (DNS, timeout,
	// refused, circuit open, rate limited) from the transport provider.
	KindTransport
	// KindEncoding means the request body failed to serialize.
	KindEncoding
	// KindDecoding means the response body failed to parse into the
	// requested type; FieldPath locates the failure.
	KindDecoding
	// KindCancelled means the enclosing context was cancelled while the
	// call was in flight.
	KindCancelled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindServer:
		return "server"
	case KindInvalidResponse:
		return "invalid_response"
	case KindTransport:
		return "transport"
	case KindEncoding:
		return "encoding"
	case KindDecoding:
		return "decoding"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the single failure type produced by the executor. Every failure
// is returned as data; nothing panics across the Do boundary.
//
// CanonicalString and Signature are populated whenever a descriptor was
// successfully built before the failure, and are empty strings when
// construction never got that far. The distinction is deliberate and
// testable: an empty signature means "no request existed".
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status (0 when no response was received).
	StatusCode int

	// Body is the raw response body for server failures, when available.
	Body []byte

	// TypeName names the decode target for KindDecoding failures.
	TypeName string

	// FieldPath is the dotted location of a decode failure, or "root".
	FieldPath string

	// CanonicalString is the canonical form of the request that failed.
	CanonicalString string

	// Signature is the content signature of the failed request.
	Signature string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindDecoding:
		return fmt.Sprintf("courier: %s %s at %q: %v", e.Kind, e.TypeName, e.FieldPath, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("courier: %s (HTTP %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("courier: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("courier: %s", e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// withRequest attaches the canonical string and signature of the built
// descriptor to the error and returns it.
func (e *Error) withRequest(canonical, signature string) *Error {
	e.CanonicalString = canonical
	e.Signature = signature
	return e
}

// IsInvalidURL reports whether err is a courier invalid-URL failure.
func IsInvalidURL(err error) bool { return hasKind(err, KindInvalidURL) }

// IsServer reports whether err is a non-2xx server failure.
func IsServer(err error) bool { return hasKind(err, KindServer) }

// IsInvalidResponse reports whether err is an unclassifiable-response failure.
func IsInvalidResponse(err error) bool { return hasKind(err, KindInvalidResponse) }

// IsTransport reports whether err is a connection-level failure.
func IsTransport(err error) bool { return hasKind(err, KindTransport) }

// IsEncoding reports whether err is a request-body encoding failure.
func IsEncoding(err error) bool { return hasKind(err, KindEncoding) }

// IsDecoding reports whether err is a response-body decoding failure.
func IsDecoding(err error) bool { return hasKind(err, KindDecoding) }

// IsCancelled reports whether err is a cancellation outcome.
func IsCancelled(err error) bool { return hasKind(err, KindCancelled) }

func hasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
