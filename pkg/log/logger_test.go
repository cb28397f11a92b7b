package log

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder collects events in memory.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Log(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, e := range r.events {
		ids = append(ids, e.ConnectionID)
	}
	return ids
}

func TestNoopLogger(t *testing.T) {
	var l NoopLogger
	assert.NotPanics(t, func() {
		l.Log(Event{})
		l.Log(Event{Error: &ErrorEvent{Message: "dropped"}})
	})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	multi := NewMultiLogger(a, nil, b)

	multi.Log(Event{Timestamp: time.Now(), ConnectionID: "c1"})
	multi.Log(Event{Timestamp: time.Now(), ConnectionID: "c2"})

	assert.Equal(t, []string{"c1", "c2"}, a.ids())
	assert.Equal(t, []string{"c1", "c2"}, b.ids())
}

func TestMultiLoggerEmpty(t *testing.T) {
	assert.NotPanics(t, func() { NewMultiLogger().Log(Event{}) })
}
