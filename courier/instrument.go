package courier

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/meridian-labs/courier-go/courier"

// metrics holds the metric instruments for executed calls.
type metrics struct {
	// requestDuration measures the whole pipeline, composition through
	// decode, in seconds.
	requestDuration metric.Float64Histogram

	// requestErrors counts failures by error kind.
	requestErrors metric.Int64Counter

	// cacheEvents counts cache provider hits and misses.
	cacheEvents metric.Int64Counter
}

// newMetrics creates and registers the metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"courier.request.duration",
		metric.WithDescription("Duration of executed requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	m.requestErrors, err = meter.Int64Counter(
		"courier.request.errors",
		metric.WithDescription("Request failures by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.cacheEvents, err = meter.Int64Counter(
		"courier.cache.events",
		metric.WithDescription("Cache provider lookups by outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) recordDuration(ctx context.Context, method Method, statusCode int, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.Record(ctx, seconds,
		metric.WithAttributes(
			attribute.String("http.request.method", string(method)),
			attribute.Int("http.response.status_code", statusCode),
		),
	)
}

func (m *metrics) recordError(ctx context.Context, method Method, kind Kind) {
	if m == nil {
		return
	}
	m.requestErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("http.request.method", string(method)),
			attribute.String("error.kind", kind.String()),
		),
	)
}

func (m *metrics) recordCacheEvent(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheEvents.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// startCallSpan opens the span covering one executed call. The signature is
// attached once the descriptor exists, via annotateSpan.
func startCallSpan(ctx context.Context, tracer trace.Tracer, method Method) (context.Context, trace.Span) {
	return tracer.Start(ctx, "HTTP "+string(method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", string(method))),
	)
}

// annotateSpan records the built request's identity on the span.
func annotateSpan(span trace.Span, url, signature string) {
	span.SetAttributes(
		attribute.String("url.full", url),
		attribute.String("courier.signature", signature),
	)
}

// finishSpan records the terminal outcome and ends the span.
func finishSpan(span trace.Span, statusCode int, err *Error) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", err.Kind.String()))
		span.SetStatus(codes.Error, err.Kind.String())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
