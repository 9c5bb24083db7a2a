package courier

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Client is the convenience layer over a transport provider: it turns a
// base-host configuration plus per-call overrides into executed, classified
// requests.
//
// A Client is immutable after New returns. The parsed host, default
// headers and default cache policy are read-only configuration; per-call
// state (descriptor, canonical string, signature) is created fresh inside
// each call and never shared, so any number of calls may run concurrently
// against one Client without synchronization.
type Client struct {
	host           ParsedHost
	defaultHeaders map[string]string
	cachePolicy    CachePolicy

	transport Transport
	codec     Codec
	cache     CacheProvider
	coalesce  *coalescer
	limiter   *rateLimiter

	tracer  trace.Tracer
	metrics *metrics

	logger       zerolog.Logger
	debug        bool
	generateCurl bool
	requestID    bool
}

// New creates a Client for the given base host.
//
//	client := courier.New("https://api.example.com/v1",
//	    courier.WithDefaultHeader("Accept", "application/json"),
//	)
//
// The host string is parsed leniently (see ParseHost); a host that parses
// to nothing does not fail here but makes every call return a
// KindInvalidURL failure.
func New(host string, opts ...Option) *Client {
	cfg := newClientConfig(opts...)

	transport := cfg.transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.httpConfig)
	}
	if cfg.breaker != nil {
		name := cfg.breakerName
		if name == "" {
			name = "courier"
		}
		transport = NewBreakerTransport(transport, name, *cfg.breaker)
	}

	codec := cfg.codec
	if codec == nil {
		codec = NewJSONCodec()
	}

	c := &Client{
		host:           ParseHost(host),
		defaultHeaders: cfg.defaultHeaders,
		cachePolicy:    cfg.cachePolicy,
		transport:      transport,
		codec:          codec,
		cache:          cfg.cache,
		tracer:         cfg.tracerProvider.Tracer(scope),
		logger:         cfg.logger,
		debug:          cfg.debug,
		generateCurl:   cfg.generateCurl,
		requestID:      cfg.requestID,
	}

	if cfg.coalesce {
		c.coalesce = newCoalescer()
	}
	if cfg.rateLimit != nil {
		c.limiter = newRateLimiter(*cfg.rateLimit)
	}

	// Instrument failures leave metrics nil; recording is then a no-op.
	c.metrics, _ = newMetrics(cfg.meterProvider.Meter(scope))

	return c
}

// Host returns the parsed base-host configuration.
func (c *Client) Host() ParsedHost {
	return c.host
}
