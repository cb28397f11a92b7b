package fedtime

import (
	"fmt"
	"math"
	"strconv"
)

// Epsilon is the tolerance used by every logical time comparison.
const Epsilon = 1e-9

// Time is a logical time.
type Time float64

// Interval is a logical time span, used for lookahead.
type Interval float64

// Reserved times.
const (
	Zero Time = 0
)

// Infinity is the greatest logical time.
var Infinity = Time(math.Inf(1))

// IsInfinite reports whether t is positive infinity.
func (t Time) IsInfinite() bool {
	return math.IsInf(float64(t), 1)
}

// IsValid reports whether t is a usable logical time. NaN is not: it fails
// every comparison, so it could never be ordered or granted.
func (t Time) IsValid() bool {
	return !math.IsNaN(float64(t))
}

// Equal reports whether t and o are within Epsilon of each other.
func (t Time) Equal(o Time) bool {
	if t.IsInfinite() || o.IsInfinite() {
		return t.IsInfinite() && o.IsInfinite()
	}
	return math.Abs(float64(t-o)) < Epsilon
}

// Less reports whether t is strictly before o.
func (t Time) Less(o Time) bool {
	return t < o && !t.Equal(o)
}

// LessOrEqual reports whether t is before or equal to o.
func (t Time) LessOrEqual(o Time) bool {
	return t < o || t.Equal(o)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after o.
func (t Time) Compare(o Time) int {
	switch {
	case t.Equal(o):
		return 0
	case t < o:
		return -1
	default:
		return 1
	}
}

// Add returns t advanced by the interval i.
func (t Time) Add(i Interval) Time {
	return t + Time(i)
}

// Float64 returns t as a float64.
func (t Time) Float64() float64 {
	return float64(t)
}

// String formats t with the shortest representation that round trips.
func (t Time) String() string {
	if t.IsInfinite() {
		return "+Inf"
	}
	return strconv.FormatFloat(float64(t), 'g', -1, 64)
}

// MarshalJSON writes finite times as numbers and Infinity as "+Inf", which
// JSON numbers cannot hold.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsInfinite() {
		return []byte(`"+Inf"`), nil
	}
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts what MarshalJSON writes.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == `"+Inf"` {
		*t = Infinity
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("fedtime: invalid time %s", data)
	}
	*t = Time(f)
	return nil
}

// Min returns the earlier of a and b.
func Min(a, b Time) Time {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b Time) Time {
	if a.Less(b) {
		return b
	}
	return a
}

// IsPositive reports whether the interval is strictly greater than zero.
func (i Interval) IsPositive() bool {
	return float64(i) >= Epsilon && !math.IsNaN(float64(i))
}

// String formats the interval.
func (i Interval) String() string {
	return strconv.FormatFloat(float64(i), 'g', -1, 64)
}
