package timemgmt

import (
	"container/heap"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
)

// Timed is a TSO message with its timestamp.
type Timed[T any] struct {
	Time  fedtime.Time
	Value T
}

type tsoItem[T any] struct {
	time  fedtime.Time
	seq   uint64
	value T
}

// tsoHeap orders by timestamp, then by arrival.
type tsoHeap[T any] []tsoItem[T]

func (h tsoHeap[T]) Len() int { return len(h) }
func (h tsoHeap[T]) Less(i, j int) bool {
	if c := h[i].time.Compare(h[j].time); c != 0 {
		return c < 0
	}
	return h[i].seq < h[j].seq
}
func (h tsoHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *tsoHeap[T]) Push(x any)   { *h = append(*h, x.(tsoItem[T])) }
func (h *tsoHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Queue holds the undelivered messages of one federate.
type Queue[T any] struct {
	ro  []T
	tso tsoHeap[T]
	seq uint64
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// PushRO appends a receive-order message.
func (q *Queue[T]) PushRO(v T) {
	q.ro = append(q.ro, v)
}

// PushTSO adds a timestamp-order message.
func (q *Queue[T]) PushTSO(t fedtime.Time, v T) {
	q.seq++
	heap.Push(&q.tso, tsoItem[T]{time: t, seq: q.seq, value: v})
}

// LenRO returns the number of queued receive-order messages.
func (q *Queue[T]) LenRO() int { return len(q.ro) }

// LenTSO returns the number of queued timestamp-order messages.
func (q *Queue[T]) LenTSO() int { return q.tso.Len() }

// Earliest returns the timestamp of the earliest TSO message.
func (q *Queue[T]) Earliest() (fedtime.Time, bool) {
	if q.tso.Len() == 0 {
		return fedtime.Infinity, false
	}
	return q.tso[0].time, true
}

// TakeRO removes and returns, in arrival order, the receive-order messages
// for which deliverable is true. The others keep their order.
func (q *Queue[T]) TakeRO(deliverable func(T) bool) []T {
	if len(q.ro) == 0 {
		return nil
	}
	var out []T
	kept := q.ro[:0]
	for _, v := range q.ro {
		if deliverable(v) {
			out = append(out, v)
		} else {
			kept = append(kept, v)
		}
	}
	clear(q.ro[len(kept):])
	q.ro = kept
	return out
}

// PopTSOWhile removes TSO messages in timestamp order while ok accepts the
// earliest timestamp.
func (q *Queue[T]) PopTSOWhile(ok func(fedtime.Time) bool) []Timed[T] {
	var out []Timed[T]
	for q.tso.Len() > 0 && ok(q.tso[0].time) {
		it := heap.Pop(&q.tso).(tsoItem[T])
		out = append(out, Timed[T]{Time: it.time, Value: it.value})
	}
	return out
}

// MoveTSOToRO turns every TSO message into a receive-order message, keeping
// timestamp order. It runs when the federate stops being constrained.
func (q *Queue[T]) MoveTSOToRO() {
	for _, t := range q.PopTSOWhile(func(fedtime.Time) bool { return true }) {
		q.ro = append(q.ro, t.Value)
	}
}

// DropTSOBefore discards TSO messages stamped earlier than t and returns how
// many were dropped.
func (q *Queue[T]) DropTSOBefore(t fedtime.Time) int {
	return len(q.PopTSOWhile(func(ts fedtime.Time) bool { return ts.Less(t) }))
}

// Clear empties the queue.
func (q *Queue[T]) Clear() {
	q.ro = nil
	q.tso = nil
}
