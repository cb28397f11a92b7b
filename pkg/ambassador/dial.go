package ambassador

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/transport"
)

// Dial retry defaults.
const (
	InitialBackoff    = 250 * time.Millisecond
	MaxBackoff        = 10 * time.Second
	BackoffMultiplier = 2.0
	JitterFactor      = 0.25
)

// BackoffConfig shapes the delays between dial attempts.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Backoff produces exponentially growing delays with jitter.
type Backoff struct {
	mu sync.Mutex

	current    time.Duration
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	attempts   int

	rng *rand.Rand
}

// NewBackoff creates a backoff with the default delays and jitter.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(BackoffConfig{Jitter: JitterFactor})
}

// NewBackoffWithConfig creates a backoff. Zero durations and multiplier take
// the defaults; zero jitter means none.
func NewBackoffWithConfig(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxBackoff
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = BackoffMultiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return &Backoff{
		current:    cfg.Initial,
		initial:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay, jitter included, and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.current
	if b.jitter > 0 {
		delay += time.Duration(float64(delay) * b.jitter * b.rng.Float64())
	}

	b.attempts++
	b.current = min(time.Duration(float64(b.current)*b.multiplier), b.max)
	return delay
}

// Reset returns to the initial delay.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Current returns the next base delay, without jitter.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// DialConfig configures Dial.
type DialConfig struct {
	// Client configures the transport.
	Client transport.ClientConfig

	// Attempts is the number of dials before giving up. Zero means one.
	Attempts int

	// Backoff spaces the attempts.
	Backoff BackoffConfig

	// Logger receives connection logs.
	Logger *slog.Logger
}

// Dial connects to the RTI at address, retrying while the RTI is not yet
// reachable.
func Dial(ctx context.Context, address string, config DialConfig) (*RemoteConnection, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	attempts := max(config.Attempts, 1)
	client := transport.NewClient(config.Client)
	backoff := NewBackoffWithConfig(config.Backoff)

	var lastErr error
	for i := 0; i < attempts; i++ {
		conn, err := client.Connect(ctx, address)
		if err == nil {
			logger.Info("connected to RTI", "addr", address, "attempt", i+1)
			return NewRemoteConnection(conn, logger), nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		delay := backoff.Next()
		logger.Debug("RTI not reachable, retrying", "addr", address, "attempt", i+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("dial %s: %w", address, lastErr)
}
