package transport

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeepAliveTimesOutSilentPeer(t *testing.T) {
	var pings atomic.Int32
	timedOut := make(chan struct{})

	ka := NewKeepAlive(KeepAliveConfig{
		PingInterval:   10 * time.Millisecond,
		PongTimeout:    5 * time.Millisecond,
		MaxMissedPongs: 3,
	}, func(uint32) error {
		pings.Add(1)
		return nil
	}, func() { close(timedOut) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ka.Run(ctx)

	select {
	case <-timedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("keep-alive never timed out")
	}
	if got := pings.Load(); got < 3 {
		t.Errorf("pings = %d, want at least 3", got)
	}
	if ka.Missed() != 3 {
		t.Errorf("Missed() = %d, want 3", ka.Missed())
	}
}

func TestKeepAlivePongResetsMissed(t *testing.T) {
	ka := NewKeepAlive(KeepAliveConfig{PongTimeout: time.Nanosecond, MaxMissedPongs: 5}, func(uint32) error { return nil }, nil)

	ka.ping()
	time.Sleep(time.Millisecond)
	if ka.expired() {
		t.Fatal("expired() after one miss")
	}
	if ka.Missed() != 1 {
		t.Fatalf("Missed() = %d, want 1", ka.Missed())
	}

	ka.ping()
	ka.pong(ka.seq.Load() + 1) // stale sequence is ignored
	if ka.Missed() != 1 {
		t.Errorf("Missed() = %d after stale pong, want 1", ka.Missed())
	}
	ka.pong(ka.seq.Load())
	if ka.Missed() != 0 {
		t.Errorf("Missed() = %d after pong, want 0", ka.Missed())
	}
}

func TestDetectionDelay(t *testing.T) {
	if got := DefaultKeepAliveConfig().DetectionDelay(); got != 95*time.Second {
		t.Errorf("DetectionDelay() = %v, want 95s", got)
	}
}
