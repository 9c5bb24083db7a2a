package courier

// Request is the per-call input to the executor. It is consumed by Do and
// never retained; concurrent calls must not share one Request value.
type Request struct {
	// Method defaults to GET when empty.
	Method Method

	// Path is joined onto the client's base path.
	Path string

	// Headers override client defaults on a case-insensitive key match;
	// the override's casing wins in the outgoing request.
	Headers map[string]string

	// Query holds the call's query pairs.
	Query map[string]string

	// Fragment, if non-empty, is appended verbatim after "#".
	Fragment string

	// Body is the request payload: []byte passes through raw, string is
	// sent as its UTF-8 bytes, anything else is encoded by the codec.
	Body any

	// CachePolicy overrides the client-level policy; CacheDefault defers.
	CachePolicy CachePolicy
}

// RequestOption configures a single call made through the verb helpers.
type RequestOption func(*Request)

// WithHeader adds one per-call header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders adds per-call headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithQuery adds one query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithQueryParams adds query parameters.
func WithQueryParams(params map[string]string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string, len(params))
		}
		for k, v := range params {
			r.Query[k] = v
		}
	}
}

// WithFragment sets the URL fragment.
func WithFragment(fragment string) RequestOption {
	return func(r *Request) { r.Fragment = fragment }
}

// WithCallCachePolicy overrides the cache policy for this call only.
func WithCallCachePolicy(p CachePolicy) RequestOption {
	return func(r *Request) { r.CachePolicy = p }
}

func newRequest(method Method, path string, body any, opts []RequestOption) *Request {
	req := &Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(req)
	}
	return req
}
