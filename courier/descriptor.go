package courier

import (
	"net/http"
	"strconv"
	"strings"
)

// Method is an HTTP request method.
type Method string

// Supported request methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// CachePolicy selects how a call interacts with the response cache. The
// client core does not implement storage or eviction itself; the policy is
// forwarded to the transport and, when a CacheProvider is configured,
// controls lookup and store around the transport call.
type CachePolicy int

const (
	// CacheDefault defers to the client-level policy.
	CacheDefault CachePolicy = iota

	// CacheBypass skips cache lookup and store for this call.
	CacheBypass

	// CachePrefer serves from the configured CacheProvider when possible
	// and stores successful responses back.
	CachePrefer
)

// String returns the policy name.
func (p CachePolicy) String() string {
	switch p {
	case CacheBypass:
		return "bypass"
	case CachePrefer:
		return "prefer"
	default:
		return "default"
	}
}

// Descriptor is the fully-resolved, immutable representation of one HTTP
// call before it is sent: the pre-image for canonicalization and signing.
//
// A Descriptor is built fresh per call by the executor, never shared across
// calls, and discarded once the call completes. All fields are set at
// construction and must not be mutated afterwards.
type Descriptor struct {
	Method  Method
	Scheme  string
	Host    string
	Port    int
	HasPort bool

	// Path is the already-joined request path ("" or "/"-prefixed).
	Path string

	// Headers are the merged request headers, unique per case-insensitive
	// key with case-preserving storage.
	Headers map[string]string

	// Query holds the call's query pairs. Iteration order is irrelevant:
	// canonicalization sorts by key.
	Query map[string]string

	Fragment string
	Body     []byte

	CachePolicy CachePolicy
}

// URL renders the descriptor's target URL with query pairs in map order.
func (d *Descriptor) URL() string {
	var b strings.Builder
	d.writeBaseURL(&b)
	if len(d.Query) > 0 {
		b.WriteByte('?')
		first := true
		for k, v := range d.Query {
			if !first {
				b.WriteByte('&')
			}
			first = false
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	if d.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(d.Fragment)
	}
	return b.String()
}

// writeBaseURL writes scheme://host[:port]path without query or fragment.
func (d *Descriptor) writeBaseURL(b *strings.Builder) {
	b.WriteString(d.Scheme)
	b.WriteString("://")
	b.WriteString(d.Host)
	if d.HasPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(d.Port))
	}
	b.WriteString(d.Path)
}
