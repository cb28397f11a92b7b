package timemgmt

import (
	"testing"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
)

func TestQueueOrdering(t *testing.T) {
	q := NewQueue[string]()
	q.PushTSO(3, "c")
	q.PushTSO(1, "a")
	q.PushTSO(2, "b")
	q.PushTSO(1, "a2")

	if got, _ := q.Earliest(); got != 1 {
		t.Errorf("Earliest() = %v, want 1", got)
	}
	out := q.PopTSOWhile(func(fedtime.Time) bool { return true })
	want := []string{"a", "a2", "b", "c"}
	if len(out) != len(want) {
		t.Fatalf("PopTSOWhile() returned %d items, want %d", len(out), len(want))
	}
	for i, it := range out {
		if it.Value != want[i] {
			t.Errorf("item %d = %q, want %q", i, it.Value, want[i])
		}
	}
	if _, ok := q.Earliest(); ok {
		t.Error("Earliest() on empty queue reported ok")
	}
}

func TestQueueTakeROKeepsOrder(t *testing.T) {
	q := NewQueue[int]()
	for i := 1; i <= 5; i++ {
		q.PushRO(i)
	}
	even := q.TakeRO(func(v int) bool { return v%2 == 0 })
	if len(even) != 2 || even[0] != 2 || even[1] != 4 {
		t.Errorf("TakeRO(even) = %v, want [2 4]", even)
	}
	rest := q.TakeRO(func(int) bool { return true })
	if len(rest) != 3 || rest[0] != 1 || rest[2] != 5 {
		t.Errorf("TakeRO(all) = %v, want [1 3 5]", rest)
	}
	if q.LenRO() != 0 {
		t.Errorf("LenRO() = %d, want 0", q.LenRO())
	}
}

func TestQueueMoveAndDrop(t *testing.T) {
	q := NewQueue[string]()
	q.PushTSO(5, "five")
	q.PushTSO(1, "one")
	q.PushTSO(9, "nine")

	if n := q.DropTSOBefore(5); n != 1 {
		t.Errorf("DropTSOBefore(5) = %d, want 1", n)
	}
	q.PushRO("ro")
	q.MoveTSOToRO()
	if q.LenTSO() != 0 {
		t.Errorf("LenTSO() = %d, want 0", q.LenTSO())
	}
	got := q.TakeRO(func(string) bool { return true })
	want := []string{"ro", "five", "nine"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TakeRO()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	q.PushTSO(1, "x")
	q.PushRO("y")
	q.Clear()
	if q.LenRO()+q.LenTSO() != 0 {
		t.Error("Clear() left messages queued")
	}
}
