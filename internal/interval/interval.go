package interval

import (
	"fmt"
	"math"
	"strconv"
)

// Interval is the closed range [Lo, Hi]. Lo > Hi denotes the empty interval.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// New returns [lo, hi], or the empty interval when lo > hi or either bound is NaN.
func New(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Empty()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Point returns [x, x].
func Point(x float64) Interval { return New(x, x) }

// Empty returns the interval containing no value.
func Empty() Interval { return Interval{Lo: math.Inf(1), Hi: math.Inf(-1)} }

// Full returns (-inf, +inf).
func Full() Interval { return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)} }

func (i Interval) IsEmpty() bool { return !(i.Lo <= i.Hi) }

// IsFull reports whether i is unbounded on both sides.
func (i Interval) IsFull() bool { return math.IsInf(i.Lo, -1) && math.IsInf(i.Hi, 1) }

// Contains reports whether x lies in i.
func (i Interval) Contains(x float64) bool { return i.Lo <= x && x <= i.Hi }

func (i Interval) String() string {
	if i.IsEmpty() {
		return "[]"
	}
	return fmt.Sprintf("[%s, %s]", bound(i.Lo), bound(i.Hi))
}

func bound(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "+inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// Neg inverts the sign of x.
func Neg(x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: -x.Hi, Hi: -x.Lo}
}

func Add(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	lo, hi := x.Lo+y.Lo, x.Hi+y.Hi
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Full()
	}
	return Interval{Lo: lo, Hi: hi}
}

func Sub(x, y Interval) Interval { return Add(x, Neg(y)) }

func Mul(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return hull(mul(x.Lo, y.Lo), mul(x.Lo, y.Hi), mul(x.Hi, y.Lo), mul(x.Hi, y.Hi))
}

// mul is x*y with 0*inf = 0.
func mul(x, y float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return x * y
}

// Div is x/y; it is unbounded when y contains zero.
func Div(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	if y.Contains(0) {
		return Full()
	}
	return Mul(x, Interval{Lo: 1 / y.Hi, Hi: 1 / y.Lo})
}

// Rem bounds the remainder of x by y: its magnitude is below the largest |y|
// and its sign follows x.
func Rem(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	m := math.Max(math.Abs(y.Lo), math.Abs(y.Hi))
	lo, hi := 0.0, 0.0
	if x.Lo < 0 {
		lo = math.Max(-m, x.Lo)
	}
	if x.Hi > 0 {
		hi = math.Min(m, x.Hi)
	}
	return Interval{Lo: lo, Hi: hi}
}

func Min(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: math.Min(x.Lo, y.Lo), Hi: math.Min(x.Hi, y.Hi)}
}

func Max(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return Interval{Lo: math.Max(x.Lo, y.Lo), Hi: math.Max(x.Hi, y.Hi)}
}

func Abs(x Interval) Interval {
	switch {
	case x.IsEmpty():
		return Empty()
	case x.Lo >= 0:
		return x
	case x.Hi <= 0:
		return Neg(x)
	}
	return Interval{Lo: 0, Hi: math.Max(-x.Lo, x.Hi)}
}

// Union is the smallest interval containing x and y.
func Union(x, y Interval) Interval {
	if x.IsEmpty() {
		return y
	}
	if y.IsEmpty() {
		return x
	}
	return Interval{Lo: math.Min(x.Lo, y.Lo), Hi: math.Max(x.Hi, y.Hi)}
}

// Intersect is the largest interval contained in both x and y.
func Intersect(x, y Interval) Interval {
	if x.IsEmpty() || y.IsEmpty() {
		return Empty()
	}
	return New(math.Max(x.Lo, y.Lo), math.Min(x.Hi, y.Hi))
}

// Monotone maps x through a non-decreasing function.
func Monotone(f func(float64) float64, x Interval) Interval {
	if x.IsEmpty() {
		return Empty()
	}
	return New(f(x.Lo), f(x.Hi))
}

func hull(xs ...float64) Interval {
	out := Empty()
	for _, x := range xs {
		out = Union(out, Point(x))
	}
	return out
}
