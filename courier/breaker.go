package courier

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	gobreakerredis "github.com/sony/gobreaker/v2/redis"
)

// BreakerClassifier decides whether a transport outcome counts as a failure
// for circuit-tripping purposes.
type BreakerClassifier func(resp *TransportResponse, err error) bool

// BreakerConfig configures the optional circuit breaker wrapped around the
// transport by WithCircuitBreaker.
type BreakerConfig struct {
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period over which closed-state counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the minimum request count before the failure
	// ratio can trip the circuit.
	FailureThreshold uint32

	// FailureRatio trips the circuit when reached (0.0 - 1.0).
	FailureRatio float64

	// ConsecutiveFailures trips the circuit immediately when reached.
	// Zero disables the rule.
	ConsecutiveFailures uint32

	// Store enables distributed breaking when set; nil keeps the breaker
	// local to this process.
	Store gobreaker.SharedDataStore

	// Classifier decides which outcomes count as failures.
	// Defaults to DefaultBreakerClassifier.
	Classifier BreakerClassifier

	// OnStateChange is invoked on every breaker state transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns conservative local-breaker defaults: trip on
// five consecutive failures or a 50% failure ratio over at least twenty
// requests, stay open for ten seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             10 * time.Second,
		FailureThreshold:    20,
		FailureRatio:        0.5,
		ConsecutiveFailures: 5,
		Classifier:          DefaultBreakerClassifier,
	}
}

// NewRedisStore creates a gobreaker shared store backed by Redis so that
// multiple client instances trip and recover together.
func NewRedisStore(client redis.UniversalClient) gobreaker.SharedDataStore {
	return gobreakerredis.NewStoreFromClient(client)
}

// DefaultBreakerClassifier counts 5xx responses and network-level errors as
// failures. 4xx responses never trip the circuit: the request was at fault,
// not the downstream.
func DefaultBreakerClassifier(resp *TransportResponse, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return true
		}
		return errors.Is(err, syscall.ECONNREFUSED) ||
			errors.Is(err, syscall.ECONNRESET) ||
			errors.Is(err, syscall.ETIMEDOUT)
	}
	return resp != nil && resp.StatusCode >= 500
}

// errBreakerSynthetic signals the breaker that a send counted as a failure
// even though the transport returned a response. It is unwrapped before the
// outcome reaches the caller.
var errBreakerSynthetic = errors.New("courier: breaker synthetic failure")

// transportBreaker is the slice of the gobreaker API the transport needs;
// both the local and the distributed breaker satisfy it.
type transportBreaker interface {
	Execute(func() (*TransportResponse, error)) (*TransportResponse, error)
}

// breakerTransport wraps a Transport in a circuit breaker.
type breakerTransport struct {
	next       Transport
	breaker    transportBreaker
	classifier BreakerClassifier
}

// NewBreakerTransport wraps next in a circuit breaker named name. Open
// circuits reject sends with gobreaker.ErrOpenState, which the executor
// reports as a transport failure.
func NewBreakerTransport(next Transport, name string, cfg BreakerConfig) Transport {
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = DefaultBreakerClassifier
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.FailureThreshold > 0 && counts.Requests < cfg.FailureThreshold {
				return false
			}
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if cfg.FailureRatio > 0 && counts.TotalFailures > 0 {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
			}
			return false
		},
		OnStateChange: cfg.OnStateChange,
	}

	var breaker transportBreaker
	if cfg.Store != nil {
		if dcb, err := gobreaker.NewDistributedCircuitBreaker[*TransportResponse](cfg.Store, settings); err == nil {
			breaker = dcb
		}
	}
	if breaker == nil {
		// Local breaker, also the fallback when the shared store cannot
		// be initialized: process-level protection beats none.
		breaker = gobreaker.NewCircuitBreaker[*TransportResponse](settings)
	}

	return &breakerTransport{next: next, breaker: breaker, classifier: classifier}
}

// Send implements Transport.
func (t *breakerTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	resp, err := t.breaker.Execute(func() (*TransportResponse, error) {
		resp, err := t.next.Send(ctx, req)
		if t.classifier(resp, err) && err == nil {
			return resp, errBreakerSynthetic
		}
		return resp, err
	})
	if errors.Is(err, errBreakerSynthetic) {
		return resp, nil
	}
	return resp, err
}
