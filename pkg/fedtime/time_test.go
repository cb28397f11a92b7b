package fedtime

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTimeEqualWithinEpsilon(t *testing.T) {
	a := Time(1.0)
	b := Time(math.Nextafter(1.0, 2.0))

	if a == b {
		t.Fatal("test values should differ bitwise")
	}
	if !a.Equal(b) {
		t.Errorf("Equal(%v, %v) = false, want true", a, b)
	}
	if a.Less(b) || b.Less(a) {
		t.Error("Less() should be false for epsilon-equal times")
	}
	if a.Compare(b) != 0 {
		t.Errorf("Compare() = %d, want 0", a.Compare(b))
	}
}

func TestTimeOrdering(t *testing.T) {
	tests := []struct {
		a, b    Time
		compare int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{5, 5 + Epsilon/2, 0},
		{5, 5 + 2*Epsilon, -1},
		{Zero, Infinity, -1},
		{Infinity, Infinity, 0},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.compare {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.compare)
		}
		if got := tt.a.LessOrEqual(tt.b); got != (tt.compare <= 0) {
			t.Errorf("LessOrEqual(%v, %v) = %v", tt.a, tt.b, got)
		}
	}
}

func TestTimeIsValid(t *testing.T) {
	tests := []struct {
		t    Time
		want bool
	}{
		{Zero, true},
		{42.5, true},
		{Infinity, true},
		{Time(math.NaN()), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.want {
			t.Errorf("IsValid(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3, Infinity); got != 3 {
		t.Errorf("Min() = %v, want 3", got)
	}
	if got := Max(3, Infinity); !got.IsInfinite() {
		t.Errorf("Max() = %v, want +Inf", got)
	}
}

func TestIntervalIsPositive(t *testing.T) {
	tests := []struct {
		i    Interval
		want bool
	}{
		{1, true},
		{0, false},
		{-1, false},
		{Interval(Epsilon / 10), false},
		{Interval(math.NaN()), false},
	}
	for _, tt := range tests {
		if got := tt.i.IsPositive(); got != tt.want {
			t.Errorf("Interval(%v).IsPositive() = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestTimeString(t *testing.T) {
	if got := Infinity.String(); got != "+Inf" {
		t.Errorf("String() = %q", got)
	}
	if got := Time(10.5).String(); got != "10.5" {
		t.Errorf("String() = %q", got)
	}
}

func TestTimeJSON(t *testing.T) {
	in := []Time{0, 2.5, Infinity}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `[0,2.5,"+Inf"]` {
		t.Errorf("Marshal() = %s", data)
	}

	var out []Time
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out) != 3 || !out[1].Equal(2.5) || !out[2].IsInfinite() {
		t.Errorf("Unmarshal() = %v", out)
	}
	if err := json.Unmarshal([]byte(`"soon"`), &out[0]); err == nil {
		t.Error("Unmarshal() accepted a non-numeric time")
	}
}
