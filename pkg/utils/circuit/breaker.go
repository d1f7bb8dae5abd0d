package circuit

import (
	"errors"
	"sync"
	"time"

	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// State is the breaker position.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateHalfOpen:
		return "HALF_OPEN"
	case StateOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit breaker is open")

// Config tunes a breaker.
type Config struct {
	// MaxFailures is the consecutive failure count that opens the
	// breaker.
	MaxFailures int
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultConfig suits slow external sinks like a message broker.
func DefaultConfig() Config {
	return Config{
		MaxFailures: 5,
		Timeout:     30 * time.Second,
	}
}

// Breaker is a consecutive-failure circuit breaker. After MaxFailures
// failed calls it rejects everything with ErrOpen until Timeout passes,
// then lets a single probe through.
type Breaker struct {
	name        string
	config      Config
	state       State
	failures    int
	lastFailure time.Time
	mu          sync.Mutex
	log         *logger.Logger
}

// New creates a closed breaker.
func New(name string, config Config) *Breaker {
	if config.MaxFailures < 1 {
		config.MaxFailures = 1
	}
	return &Breaker{
		name:   name,
		config: config,
		log:    logger.GetLogger("circuit." + name),
	}
}

// Do runs fn under the breaker.
func (b *Breaker) Do(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err == nil)
	return err
}

// State returns the current breaker position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Since(b.lastFailure) < b.config.Timeout {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.failures = 0
		if b.state != StateClosed {
			b.transition(StateClosed)
		}
		return
	}

	b.failures++
	b.lastFailure = time.Now()
	if b.state == StateHalfOpen || b.failures >= b.config.MaxFailures {
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if to == StateOpen {
		b.log.Warnf("breaker %s: %s -> %s after %d failures", b.name, b.state, to, b.failures)
	} else {
		b.log.Infof("breaker %s: %s -> %s", b.name, b.state, to)
	}
	b.state = to
}
