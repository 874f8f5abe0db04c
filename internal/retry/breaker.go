package retry

import (
	"sync"
	"time"

	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// State is a circuit breaker state.
type State int

// Breaker states.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	// FailureThreshold is the number of failures that opens a closed breaker.
	FailureThreshold int
	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration
	// HalfOpenMaxCalls caps probe calls while half-open; that many
	// successes close the breaker again.
	HalfOpenMaxCalls int
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: constants.BreakerFailureThreshold,
		ResetTimeout:     constants.BreakerResetTimeout,
		HalfOpenMaxCalls: constants.BreakerHalfOpenMaxCalls,
	}
}

// Breaker stops calling a failing dependency until it has had time to recover.
// Safe for concurrent use.
type Breaker struct {
	cfg   BreakerConfig
	clock clock.Clock

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	halfOpenCalls int
	lastFailure   time.Time
}

// NewBreaker creates a closed Breaker. A nil clk uses the real clock.
func NewBreaker(cfg BreakerConfig, clk clock.Clock) *Breaker {
	if clk == nil {
		clk = clock.RealClock{}
	}
	cfg.FailureThreshold = max(cfg.FailureThreshold, 1)
	cfg.HalfOpenMaxCalls = max(cfg.HalfOpenMaxCalls, 1)
	return &Breaker{cfg: cfg, clock: clk}
}

// Call runs fn unless the breaker rejects it. A rejection returns a
// CIRCUIT_OPEN error without calling fn; otherwise fn's own error is
// returned unchanged after being counted.
func (b *Breaker) Call(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.clock.Now().Sub(b.lastFailure) < b.cfg.ResetTimeout {
			return svperrors.NewError(svperrors.ErrCircuitOpen, "Circuit breaker is open").
				WithContext("reason", "circuit_open")
		}
		b.state = StateHalfOpen
		b.halfOpenCalls = 0
		b.failures = 0
		b.successes = 0
	}

	if b.state == StateHalfOpen {
		if b.halfOpenCalls >= b.cfg.HalfOpenMaxCalls {
			return svperrors.NewError(svperrors.ErrCircuitOpen, "Circuit breaker half-open limit reached").
				WithContext("reason", "half_open_limit")
		}
		b.halfOpenCalls++
	}
	return nil
}

func (b *Breaker) onSuccess() {
	if b.state != StateHalfOpen {
		return
	}
	b.successes++
	if b.successes >= b.cfg.HalfOpenMaxCalls {
		b.state = StateClosed
		b.failures = 0
		b.successes = 0
	}
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailure = b.clock.Now()

	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.state = StateOpen
	}
}

// State returns the current state without transitioning.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset returns the breaker to closed and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.halfOpenCalls = 0
	b.lastFailure = time.Time{}
}
