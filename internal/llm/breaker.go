package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"go.uber.org/zap"
)

// BreakerProvider stops calling a backend that keeps failing and lets a
// single trial request through once OpenTimeout has passed. It also caps the
// number of requests in flight.
type BreakerProvider struct {
	inner Provider
	cb    circuitbreaker.CircuitBreaker[*Response]
	bh    bulkhead.Bulkhead[*Response]
}

// WithBreaker wraps p. With both the breaker and the limit disabled it
// returns p unchanged.
func WithBreaker(p Provider, cfg BreakerConfig, logger *zap.Logger) Provider {
	if cfg.FailureThreshold <= 0 && cfg.MaxConcurrent <= 0 {
		return p
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &BreakerProvider{inner: p}
	if cfg.FailureThreshold > 0 {
		threshold := uint64(cfg.FailureThreshold)
		b.cb = circuitbreaker.New[*Response](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return uint64(counts.ConsecutiveFailures) >= threshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("llm circuit breaker state change",
					zap.String("provider", p.Name()),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}
	if cfg.MaxConcurrent > 0 {
		b.bh = bulkhead.New[*Response](bulkhead.Config{
			MaxConcurrent: cfg.MaxConcurrent,
			MaxQueue:      cfg.MaxConcurrent * 2,
			QueueTimeout:  30 * time.Second,
		})
	}
	return b
}

func (b *BreakerProvider) Name() string    { return b.inner.Name() }
func (b *BreakerProvider) ModelID() string { return b.inner.ModelID() }

func (b *BreakerProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	called := false
	op := func(ctx context.Context) (*Response, error) {
		called = true
		return b.inner.Generate(ctx, req)
	}
	if b.bh != nil {
		limited := op
		op = func(ctx context.Context) (*Response, error) {
			return b.bh.Execute(ctx, limited)
		}
	}

	var resp *Response
	var err error
	if b.cb != nil {
		resp, err = b.cb.Execute(ctx, op)
	} else {
		resp, err = op(ctx)
	}
	if err != nil && !called {
		return nil, &Error{Kind: KindUnavailable, Provider: b.inner.Name(),
			Err: fmt.Errorf("rejected before reaching provider (circuit open or concurrency limit): %w", err)}
	}
	return resp, err
}
