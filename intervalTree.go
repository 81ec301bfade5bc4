// Package intervaltree provides an immutable centered interval tree
// answering "which stored ranges overlap this one" in time proportional
// to the output plus logarithmic overhead.
// A tree is built once, from an unordered collection of intervals, and is
// safe for concurrent readers thereafter. It can be serialized to a
// versioned binary stream and loaded back without losing any interval.
package intervaltree

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrIncomparable is returned when a boundary cannot be ordered (e.g. NaN).
	ErrIncomparable = errors.New("intervaltree: incomparable boundary")
	// ErrInvalidInterval is returned for an interval whose low bound is above its high bound.
	ErrInvalidInterval = errors.New("intervaltree: low bound above high bound")
)

// Option configures construction and deserialization.
type Option func(*options)

type options struct {
	lg *zap.Logger
}

// WithLogger logs tree construction at debug level to lg.
func WithLogger(lg *zap.Logger) Option {
	return func(o *options) {
		o.lg = lg
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.lg == nil {
		o.lg = zap.NewNop()
	}
	return o
}

// node holds every interval of its subtree that contains center.
type node[B, V any] struct {
	center B
	// byLow and byHigh hold the same intervals,
	// ascending by low and descending by high respectively.
	byLow  []Interval[B, V]
	byHigh []Interval[B, V]
	// left holds intervals entirely below center, right entirely above.
	left, right *node[B, V]
}

func (n *node[B, V]) height() int {
	if n == nil {
		return 0
	}
	ld := n.left.height()
	rd := n.right.height()
	if ld < rd {
		return rd + 1
	}
	return ld + 1
}

func (n *node[B, V]) size() int {
	if n == nil {
		return 0
	}
	return 1 + n.left.size() + n.right.size()
}

// Tree is an immutable interval tree. The zero value is not usable;
// build one with New, NewFunc or a Builder.
type Tree[B, V any] struct {
	root  *node[B, V]
	count int
	cmp   Comparator[B]
}

// Len returns the number of stored intervals.
func (t *Tree[B, V]) Len() int {
	return t.count
}

// IsEmpty reports whether the tree stores no interval.
func (t *Tree[B, V]) IsEmpty() bool {
	return t.count == 0
}

// Comparator returns the boundary order the tree was built with.
func (t *Tree[B, V]) Comparator() Comparator[B] {
	return t.cmp
}

// Min returns the lowest low bound in the tree.
func (t *Tree[B, V]) Min() (low B, ok bool) {
	for n := t.root; n != nil; n = n.left {
		if lo := n.byLow[0].Low; !ok || t.cmp(lo, low) < 0 {
			low, ok = lo, true
		}
	}
	return low, ok
}

// Max returns the highest high bound in the tree.
func (t *Tree[B, V]) Max() (high B, ok bool) {
	for n := t.root; n != nil; n = n.right {
		if hi := n.byHigh[0].High; !ok || t.cmp(hi, high) > 0 {
			high, ok = hi, true
		}
	}
	return high, ok
}

// String lists the stored intervals in iteration order.
func (t *Tree[B, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	t.Each(func(iv Interval[B, V]) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(iv.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
