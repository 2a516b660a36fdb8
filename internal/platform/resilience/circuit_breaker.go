package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateObserver is told about every state transition, outside the breaker lock.
type StateObserver func(from, to CircuitState)

// CircuitBreaker guards calls to an upstream that may be flaky. Closed counts
// consecutive failures; open rejects until OpenTimeout elapses; half-open
// admits up to HalfOpenMaxReq probes and closes once they all succeed.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state    CircuitState
	failures int
	openedAt time.Time
	probes   int // admitted in half-open and not yet settled
	passed   int

	now      func() time.Time
	observer StateObserver
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	return NewCircuitBreakerFromConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	})
}

// NewCircuitBreakerFromConfig builds a breaker from cfg after filling defaults.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// OnStateChange registers fn for state transitions. It replaces any earlier observer.
func (b *CircuitBreaker) OnStateChange(fn StateObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observer = fn
}

// Allow reserves a call. Every nil return must be followed by exactly one
// Record, RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	var err error
	b.transition(func() {
		if b.state == CircuitStateOpen {
			if b.cooling() {
				err = ErrCircuitOpen
				return
			}
			b.enter(CircuitStateHalfOpen)
		}
		if b.state == CircuitStateHalfOpen {
			if b.probes >= b.cfg.HalfOpenMaxReq {
				err = ErrCircuitOpen
				return
			}
			b.probes++
		}
	})
	return err
}

func (b *CircuitBreaker) RecordSuccess() { b.settle(false) }
func (b *CircuitBreaker) RecordFailure() { b.settle(true) }

// Record feeds the outcome of one guarded call back into the breaker. Errors
// for which isFailure returns false count as successes.
func (b *CircuitBreaker) Record(err error, isFailure func(error) bool) {
	b.settle(err != nil && (isFailure == nil || isFailure(err)))
}

// State reports half-open for an open breaker whose timeout has elapsed, even
// before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && !b.cooling() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) settle(failed bool) {
	b.transition(func() {
		switch b.state {
		case CircuitStateClosed:
			if !failed {
				b.failures = 0
				return
			}
			b.failures++
			if b.failures >= b.cfg.FailureThreshold {
				b.enter(CircuitStateOpen)
			}
		case CircuitStateHalfOpen:
			if b.probes > 0 {
				b.probes--
			}
			if failed {
				b.enter(CircuitStateOpen)
				return
			}
			b.passed++
			if b.passed >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
				b.enter(CircuitStateClosed)
			}
		case CircuitStateOpen:
			// A late failure from a call admitted before opening extends the wait.
			if failed {
				b.openedAt = b.now()
			}
		}
	})
}

func (b *CircuitBreaker) cooling() bool {
	return b.now().Sub(b.openedAt) < b.cfg.OpenTimeout
}

// enter switches state and resets every counter. Callers hold mu.
func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.failures = 0
	b.probes = 0
	b.passed = 0
	b.openedAt = time.Time{}
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}

// transition runs mutate under the lock and reports a state change afterwards.
func (b *CircuitBreaker) transition(mutate func()) {
	b.mu.Lock()
	from := b.state
	mutate()
	to := b.state
	observer := b.observer
	b.mu.Unlock()

	if observer != nil && from != to {
		observer(from, to)
	}
}
