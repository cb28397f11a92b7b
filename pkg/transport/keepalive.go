package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Keep-alive defaults.
const (
	// DefaultPingInterval is the default interval between pings.
	DefaultPingInterval = 30 * time.Second

	// DefaultPongTimeout is the default timeout waiting for a pong response.
	DefaultPongTimeout = 5 * time.Second

	// DefaultMaxMissedPongs is the default number of missed pongs before disconnect.
	DefaultMaxMissedPongs = 3
)

// KeepAliveConfig configures keep-alive behavior.
type KeepAliveConfig struct {
	// PingInterval is the interval between pings. Zero disables keep-alive.
	PingInterval time.Duration

	// PongTimeout is the timeout waiting for a pong response.
	PongTimeout time.Duration

	// MaxMissedPongs is the number of missed pongs before disconnect.
	MaxMissedPongs int
}

// DefaultKeepAliveConfig returns the default keep-alive configuration.
func DefaultKeepAliveConfig() KeepAliveConfig {
	return KeepAliveConfig{
		PingInterval:   DefaultPingInterval,
		PongTimeout:    DefaultPongTimeout,
		MaxMissedPongs: DefaultMaxMissedPongs,
	}
}

// DetectionDelay is the longest a dead peer can go unnoticed.
func (c KeepAliveConfig) DetectionDelay() time.Duration {
	return c.PingInterval*time.Duration(c.MaxMissedPongs) + c.PongTimeout
}

// KeepAlive sends pings on an interval and reports a dead peer after too
// many unanswered ones.
type KeepAlive struct {
	config    KeepAliveConfig
	sendPing  func(seq uint32) error
	onTimeout func()

	seq    atomic.Uint32
	pongCh chan uint32

	mu       sync.Mutex
	pending  uint32
	sentAt   time.Time
	missed   int
	lastPong time.Time
	latency  time.Duration
}

// NewKeepAlive creates a keep-alive monitor. Zero config fields take defaults.
func NewKeepAlive(config KeepAliveConfig, sendPing func(seq uint32) error, onTimeout func()) *KeepAlive {
	if config.PingInterval == 0 {
		config.PingInterval = DefaultPingInterval
	}
	if config.PongTimeout == 0 {
		config.PongTimeout = DefaultPongTimeout
	}
	if config.MaxMissedPongs == 0 {
		config.MaxMissedPongs = DefaultMaxMissedPongs
	}
	return &KeepAlive{
		config:    config,
		sendPing:  sendPing,
		onTimeout: onTimeout,
		pongCh:    make(chan uint32, 4),
	}
}

// Run pings until ctx ends or the peer is declared dead.
func (ka *KeepAlive) Run(ctx context.Context) {
	ticker := time.NewTicker(ka.config.PingInterval)
	defer ticker.Stop()

	ka.ping()
	for {
		select {
		case <-ctx.Done():
			return
		case seq := <-ka.pongCh:
			ka.pong(seq)
		case <-ticker.C:
			if ka.expired() {
				if ka.onTimeout != nil {
					ka.onTimeout()
				}
				return
			}
			ka.ping()
		}
	}
}

// PongReceived records a pong from the peer.
func (ka *KeepAlive) PongReceived(seq uint32) {
	select {
	case ka.pongCh <- seq:
	default:
	}
}

// Missed returns the number of consecutive unanswered pings.
func (ka *KeepAlive) Missed() int {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.missed
}

// Latency returns the round trip of the last answered ping.
func (ka *KeepAlive) Latency() time.Duration {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	return ka.latency
}

func (ka *KeepAlive) ping() {
	seq := ka.seq.Add(1)
	ka.mu.Lock()
	ka.pending = seq
	ka.sentAt = time.Now()
	ka.mu.Unlock()
	// A failed send shows up as a missed pong.
	_ = ka.sendPing(seq)
}

func (ka *KeepAlive) pong(seq uint32) {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if ka.pending == 0 || seq != ka.pending {
		return
	}
	ka.lastPong = time.Now()
	ka.latency = ka.lastPong.Sub(ka.sentAt)
	ka.pending = 0
	ka.missed = 0
}

// expired counts an outstanding ping past its timeout as missed.
func (ka *KeepAlive) expired() bool {
	ka.mu.Lock()
	defer ka.mu.Unlock()
	if ka.pending != 0 && time.Since(ka.sentAt) >= ka.config.PongTimeout {
		ka.missed++
		ka.pending = 0
	}
	return ka.missed >= ka.config.MaxMissedPongs
}
