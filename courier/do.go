package courier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// RawResult is the undecoded success outcome of one executed call.
//
// CanonicalString and Signature identify the request that produced the
// response; they are attached to failures as well (on *Error) so both
// outcomes are equally observable.
type RawResult struct {
	StatusCode      int
	Headers         map[string]string
	Body            []byte
	CanonicalString string
	Signature       string
}

// Do executes one call through the full pipeline: compose URL, encode
// body, merge headers, canonicalize and sign, send, classify. The returned
// error, when non-nil, is always a *Error; no failure escapes as a panic
// or an untyped error.
//
// The pipeline is fail-fast. Failures before a descriptor exists (invalid
// host, body encode) carry empty canonical string and signature; failures
// after (transport, server, invalid response) carry the real ones.
func (c *Client) Do(ctx context.Context, req *Request) (*RawResult, error) {
	ctx, span := startCallSpan(ctx, c.tracer, req.method())

	start := time.Now()
	raw, cerr := c.execute(ctx, span, req)
	if cerr != nil {
		c.metrics.recordError(ctx, req.method(), cerr.Kind)
		finishSpan(span, cerr.StatusCode, cerr)
		return nil, cerr
	}

	c.metrics.recordDuration(ctx, req.method(), raw.StatusCode, time.Since(start).Seconds())
	finishSpan(span, raw.StatusCode, nil)
	return raw, nil
}

func (req *Request) method() Method {
	if req.Method == "" {
		return MethodGet
	}
	return req.Method
}

func (c *Client) execute(ctx context.Context, span trace.Span, req *Request) (*RawResult, *Error) {
	if c.limiter != nil {
		if err := c.limiter.allow(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, &Error{Kind: KindCancelled, Err: ctx.Err()}
			}
			return nil, &Error{Kind: KindTransport, Err: err}
		}
	}

	method := req.method()
	policy := req.CachePolicy
	if policy == CacheDefault {
		policy = c.cachePolicy
	}

	// Nothing has been built yet: these failures deliberately carry an
	// empty canonical string and an empty signature.
	targetURL, err := ComposeURL(c.host, req.Path, req.Query, req.Fragment)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, Err: err}
	}

	body, err := c.encodeBody(req.Body)
	if err != nil {
		return nil, &Error{Kind: KindEncoding, Err: err}
	}

	headers := MergeHeaders(c.defaultHeaders, req.Headers)

	desc := &Descriptor{
		Method:      method,
		Scheme:      c.host.Scheme,
		Host:        c.host.Host,
		Port:        c.host.Port,
		HasPort:     c.host.HasPort,
		Path:        JoinPath(c.host.BasePath, req.Path),
		Headers:     headers,
		Query:       req.Query,
		Fragment:    req.Fragment,
		Body:        body,
		CachePolicy: policy,
	}
	canonical := Canonicalize(desc)
	signature := Sign(CanonicalizeSigned(desc))
	annotateSpan(span, targetURL, signature)

	outHeaders := headers
	if c.requestID {
		// Added after canonicalization on purpose: a fresh ID per call
		// must not perturb the deterministic signature.
		outHeaders = make(map[string]string, len(headers)+1)
		for k, v := range headers {
			outHeaders[k] = v
		}
		outHeaders["X-Request-Id"] = uuid.NewString()
	}

	treq := &TransportRequest{
		Method:      method,
		URL:         targetURL,
		Headers:     outHeaders,
		Body:        body,
		CachePolicy: policy,
	}

	if c.debug {
		logRequest(c.logger, treq, signature)
	}
	if c.generateCurl {
		c.logger.Debug().Str("curl", curlCommand(treq)).Msg("courier curl")
	}

	if c.cache != nil && policy == CachePrefer {
		cached, hit, cacheErr := c.cache.Get(ctx, signature)
		if cacheErr == nil {
			c.metrics.recordCacheEvent(ctx, hit)
			if hit {
				// Bypass on classify so the hit is not re-stored.
				return c.classify(ctx, cached, CacheBypass, signature, canonical)
			}
		}
	}

	send := func() (*TransportResponse, error) {
		return c.transport.Send(ctx, treq)
	}

	sendStart := time.Now()
	var tresp *TransportResponse
	var sendErr error
	if c.coalesce != nil {
		tresp, sendErr = c.coalesce.do(signature, send)
	} else {
		tresp, sendErr = send()
	}
	if c.debug {
		logResponse(c.logger, tresp, sendErr, time.Since(sendStart))
	}

	if sendErr != nil {
		switch {
		case errors.Is(sendErr, context.Canceled),
			errors.Is(sendErr, context.DeadlineExceeded):
			// Cancellation is its own terminal outcome, distinct from
			// transport and server failures; decode never runs. The error
			// itself must wrap a cancellation sentinel: an unrelated
			// transport failure stays a transport failure even when the
			// context happens to have expired concurrently.
			return nil, (&Error{Kind: KindCancelled, Err: sendErr}).withRequest(canonical, signature)
		case errors.Is(sendErr, ErrNoStub):
			return nil, (&Error{Kind: KindInvalidURL, Err: sendErr}).withRequest(canonical, signature)
		default:
			return nil, (&Error{Kind: KindTransport, Err: sendErr}).withRequest(canonical, signature)
		}
	}

	return c.classify(ctx, tresp, policy, signature, canonical)
}

// classify turns a transport response into the terminal outcome: 2xx is
// success, anything else a server failure, and a response the transport
// could not shape at all is invalid.
func (c *Client) classify(ctx context.Context, tresp *TransportResponse, policy CachePolicy, signature, canonical string) (*RawResult, *Error) {
	if tresp == nil {
		return nil, (&Error{Kind: KindInvalidResponse}).withRequest(canonical, signature)
	}

	if tresp.StatusCode < 200 || tresp.StatusCode > 299 {
		return nil, (&Error{
			Kind:       KindServer,
			StatusCode: tresp.StatusCode,
			Body:       tresp.Body,
		}).withRequest(canonical, signature)
	}

	if c.cache != nil && policy == CachePrefer {
		// Best effort; a failing cache store never fails the call.
		_ = c.cache.Set(ctx, signature, tresp)
	}

	return &RawResult{
		StatusCode:      tresp.StatusCode,
		Headers:         tresp.Headers,
		Body:            tresp.Body,
		CanonicalString: canonical,
		Signature:       signature,
	}, nil
}

// encodeBody serializes the request payload. Raw bytes and strings pass
// through untouched; everything else goes through the codec.
func (c *Client) encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return c.codec.Encode(b)
	}
}
