package courier

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Client at construction time. After New returns, the
// client is immutable; there is no way to reconfigure a live client, which
// is what makes concurrent calls safe without locking.
type Option func(*clientConfig)

// clientConfig collects everything options can set before the Client is
// frozen.
type clientConfig struct {
	transport      Transport
	httpConfig     Config
	codec          Codec
	defaultHeaders map[string]string
	cachePolicy    CachePolicy
	cache          CacheProvider
	coalesce       bool
	rateLimit      *RateLimitConfig
	breaker        *BreakerConfig
	breakerName    string
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	logger         zerolog.Logger
	debug          bool
	generateCurl   bool
	requestID      bool
}

func newClientConfig(opts ...Option) *clientConfig {
	cfg := &clientConfig{
		httpConfig:     DefaultConfig(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		logger:         defaultLogger,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTransport injects a custom transport provider. The default is an
// HTTPTransport built from the configured Config.
func WithTransport(t Transport) Option {
	return func(cfg *clientConfig) { cfg.transport = t }
}

// WithHTTPConfig tunes the default HTTP transport. Ignored when a custom
// transport is injected via WithTransport.
func WithHTTPConfig(c Config) Option {
	return func(cfg *clientConfig) { cfg.httpConfig = c }
}

// WithCodec injects a custom payload codec. The default is NewJSONCodec().
func WithCodec(c Codec) Option {
	return func(cfg *clientConfig) { cfg.codec = c }
}

// WithDefaultHeader adds one client-level default header. Per-call headers
// override on a case-insensitive key match.
func WithDefaultHeader(key, value string) Option {
	return func(cfg *clientConfig) {
		if cfg.defaultHeaders == nil {
			cfg.defaultHeaders = make(map[string]string)
		}
		cfg.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders adds client-level default headers.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(cfg *clientConfig) {
		if cfg.defaultHeaders == nil {
			cfg.defaultHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.defaultHeaders[k] = v
		}
	}
}

// WithCachePolicy sets the client-level cache policy applied to calls that
// do not override it.
func WithCachePolicy(p CachePolicy) Option {
	return func(cfg *clientConfig) { cfg.cachePolicy = p }
}

// WithCache attaches a response cache keyed by request signature.
func WithCache(c CacheProvider) Option {
	return func(cfg *clientConfig) { cfg.cache = c }
}

// WithCoalescing collapses identical concurrent calls (same signature) into
// a single transport send whose result is shared.
func WithCoalescing() Option {
	return func(cfg *clientConfig) { cfg.coalesce = true }
}

// WithRateLimit enables client-side rate limiting.
func WithRateLimit(c RateLimitConfig) Option {
	return func(cfg *clientConfig) { cfg.rateLimit = &c }
}

// WithCircuitBreaker wraps the transport in a circuit breaker. name
// identifies the breaker in state-change callbacks and shared stores.
func WithCircuitBreaker(name string, c BreakerConfig) Option {
	return func(cfg *clientConfig) {
		cfg.breaker = &c
		cfg.breakerName = name
	}
}

// WithTracerProvider overrides the OpenTelemetry tracer provider. The
// global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *clientConfig) { cfg.tracerProvider = tp }
}

// WithMeterProvider overrides the OpenTelemetry meter provider. The global
// provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *clientConfig) { cfg.meterProvider = mp }
}

// WithLogger overrides the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = l }
}

// WithDebug enables request/response debug logging.
func WithDebug(enabled bool) Option {
	return func(cfg *clientConfig) { cfg.debug = enabled }
}

// WithGenerateCurl logs a cURL equivalent of each outgoing request at debug
// level. Implies nothing about WithDebug; both are independent.
func WithGenerateCurl(enabled bool) Option {
	return func(cfg *clientConfig) { cfg.generateCurl = enabled }
}

// WithRequestID stamps each outgoing request with a fresh X-Request-Id.
// The header is added after canonicalization, so it never perturbs the
// signature.
func WithRequestID(enabled bool) Option {
	return func(cfg *clientConfig) { cfg.requestID = enabled }
}
