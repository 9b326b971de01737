package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without invoking the wrapped call while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a slow or failing upstream (the payment
// gateway) so a dead endpoint cannot pile up blocked request goroutines.
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	failureRatio float64

	mutex  sync.Mutex
	state  State
	counts Counts
	expiry time.Time
}

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

type Counts struct {
	Requests       uint32
	TotalSuccesses uint32
	TotalFailures  uint32
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		maxRequests:  20,
		interval:     60 * time.Second,
		timeout:      30 * time.Second,
		failureRatio: 0.6,
		state:        StateClosed,
	}
}

// Execute runs req unless the breaker is open. The wrapped call runs
// without the breaker's lock held.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func() (any, error)) (any, error) {
	if err := cb.beforeRequest(); err != nil {
		return nil, err
	}

	result, err := req()
	cb.afterRequest(err == nil && ctx.Err() == nil)
	return result, err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := time.Now()
	cb.advance(now)

	switch cb.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.counts.Requests >= cb.maxRequests {
			return errors.New("too many requests while circuit breaker is half open")
		}
	}

	cb.counts.Requests++
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if success {
		cb.counts.TotalSuccesses++
		if cb.state == StateHalfOpen {
			cb.state = StateClosed
			cb.counts = Counts{}
			cb.expiry = time.Now().Add(cb.interval)
		}
		return
	}

	cb.counts.TotalFailures++
	if cb.state == StateHalfOpen || cb.readyToTrip() {
		cb.trip(time.Now())
	}
}

func (cb *CircuitBreaker) readyToTrip() bool {
	return cb.counts.Requests >= cb.maxRequests &&
		float64(cb.counts.TotalFailures)/float64(cb.counts.Requests) >= cb.failureRatio
}

func (cb *CircuitBreaker) trip(now time.Time) {
	cb.state = StateOpen
	cb.counts = Counts{}
	cb.expiry = now.Add(cb.timeout)
}

// advance moves the breaker between states based on elapsed time: closed
// counts reset every interval, an open breaker transitions to half-open
// once its timeout passes.
func (cb *CircuitBreaker) advance(now time.Time) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts = Counts{}
			cb.expiry = now.Add(cb.interval)
		} else if cb.expiry.IsZero() {
			cb.expiry = now.Add(cb.interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.state = StateHalfOpen
			cb.counts = Counts{}
			cb.expiry = time.Time{}
		}
	}
}
