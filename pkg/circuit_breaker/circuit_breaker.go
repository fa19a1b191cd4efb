package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type state uint8

const (
	closed state = iota + 1
	open
	halfOpen
)

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(service func() error) error
	Reset()
}

// New builds a breaker that opens after failureThreshold consecutive
// failures, stays open for timeout, then lets probes through until
// recoveryRequests of them succeed in a row.
func New(failureThreshold int, timeout time.Duration, recoveryRequests int) CircuitBreaker {
	return &circuitBreaker{
		state:            closed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
		recoveryRequests: recoveryRequests,
	}
}

type circuitBreaker struct {
	mu sync.Mutex

	state            state
	failureThreshold int
	timeout          time.Duration
	recoveryRequests int

	failures     int
	successCount int
	openedAt     time.Time
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == open {
		if time.Since(cb.openedAt) < cb.timeout {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = halfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.successCount = 0
		if cb.state == halfOpen || cb.failures >= cb.failureThreshold {
			cb.state = open
			cb.openedAt = time.Now()
		}
		return err
	}

	cb.failures = 0
	if cb.state == halfOpen {
		cb.successCount++
		if cb.successCount >= cb.recoveryRequests {
			cb.reset()
		}
	}
	return nil
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) reset() {
	cb.state = closed
	cb.failures = 0
	cb.successCount = 0
}
