package intervaltree

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Comparator gives the result of a 3-way comparison of two boundaries:
// negative if a < b, zero if a == b, positive if a > b.
// A boundary that does not compare equal to itself is incomparable.
type Comparator[B any] func(a, b B) int

// Ordered compares boundaries of any ordered type.
// Unordered values (NaN) never compare equal, not even to themselves.
func Ordered[B constraints.Ordered](a, b B) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return -1
}

// Interval is the closed range [Low, High], optionally carrying a payload.
// Low <= High is assumed by the tree.
type Interval[B, V any] struct {
	Low  B
	High B

	payload    V
	hasPayload bool
}

// NewInterval returns the interval [low, high] without a payload.
func NewInterval[B, V any](low, high B) Interval[B, V] {
	return Interval[B, V]{Low: low, High: high}
}

// NewPayloadInterval returns the interval [low, high] carrying v.
func NewPayloadInterval[B, V any](low, high B, v V) Interval[B, V] {
	return Interval[B, V]{Low: low, High: high, payload: v, hasPayload: true}
}

// Payload returns the associated value and whether there is one.
func (i Interval[B, V]) Payload() (V, bool) {
	return i.payload, i.hasPayload
}

// Overlaps reports whether i and q share at least one point.
func (i Interval[B, V]) Overlaps(q Interval[B, V], cmp Comparator[B]) bool {
	return cmp(i.Low, q.High) <= 0 && cmp(i.High, q.Low) >= 0
}

// Contains reports whether p lies within i.
func (i Interval[B, V]) Contains(p B, cmp Comparator[B]) bool {
	return cmp(i.Low, p) <= 0 && cmp(p, i.High) <= 0
}

func (i Interval[B, V]) String() string {
	if i.hasPayload {
		return fmt.Sprintf("[%v, %v]=%v", i.Low, i.High, i.payload)
	}
	return fmt.Sprintf("[%v, %v]", i.Low, i.High)
}

// EqualFunc reports whether a and b have equal bounds and equal payloads.
// Two intervals without a payload are equal on bounds alone.
func EqualFunc[B, V any](a, b Interval[B, V], cmp Comparator[B], eq func(x, y V) bool) bool {
	if cmp(a.Low, b.Low) != 0 || cmp(a.High, b.High) != 0 {
		return false
	}
	if a.hasPayload != b.hasPayload {
		return false
	}
	return !a.hasPayload || eq(a.payload, b.payload)
}

// ByLow orders intervals by lower bound.
func ByLow[B, V any](cmp Comparator[B]) func(a, b Interval[B, V]) int {
	return func(a, b Interval[B, V]) int {
		return cmp(a.Low, b.Low)
	}
}

// ByHigh orders intervals by upper bound.
func ByHigh[B, V any](cmp Comparator[B]) func(a, b Interval[B, V]) int {
	return func(a, b Interval[B, V]) int {
		return cmp(a.High, b.High)
	}
}

// ByLowThenHigh orders intervals by lower bound, ties broken by upper bound.
// This is the order of iteration and of the serialized record list.
func ByLowThenHigh[B, V any](cmp Comparator[B]) func(a, b Interval[B, V]) int {
	return func(a, b Interval[B, V]) int {
		if c := cmp(a.Low, b.Low); c != 0 {
			return c
		}
		return cmp(a.High, b.High)
	}
}
