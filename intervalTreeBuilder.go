package intervaltree

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Builder collects intervals and builds a Tree from them.
// A user calls PushBack()s followed by Build().
type Builder[B, V any] struct {
	ivs  []Interval[B, V]
	cmp  Comparator[B]
	opts *options
}

// NewBuilder returns a Builder ordering boundaries with cmp.
func NewBuilder[B, V any](cmp Comparator[B], opts ...Option) *Builder[B, V] {
	return &Builder[B, V]{cmp: cmp, opts: newOptions(opts)}
}

// New builds a tree over an ordered boundary type.
func New[B constraints.Ordered, V any](ivs []Interval[B, V], opts ...Option) (*Tree[B, V], error) {
	return NewFunc(ivs, Ordered[B], opts...)
}

// NewFunc builds a tree ordering boundaries with cmp.
func NewFunc[B, V any](ivs []Interval[B, V], cmp Comparator[B], opts ...Option) (*Tree[B, V], error) {
	b := NewBuilder[B, V](cmp, opts...)
	b.ivs = slices.Clone(ivs)
	return b.Build()
}

// PushBack adds iv. Duplicates are kept.
func (b *Builder[B, V]) PushBack(iv Interval[B, V]) {
	b.ivs = append(b.ivs, iv)
}

// Len returns the number of intervals pushed so far.
func (b *Builder[B, V]) Len() int {
	return len(b.ivs)
}

// Build returns a tree holding every pushed interval exactly once.
// It fails without building anything if a boundary is incomparable
// or an interval is inverted.
func (b *Builder[B, V]) Build() (*Tree[B, V], error) {
	for i, iv := range b.ivs {
		if err := b.check(iv); err != nil {
			return nil, errors.Wrapf(err, "interval %d %v", i, iv)
		}
	}
	t := &Tree[B, V]{
		root:  b.build(b.ivs),
		count: len(b.ivs),
		cmp:   b.cmp,
	}
	if ce := b.opts.lg.Check(zap.DebugLevel, "built interval tree"); ce != nil {
		ce.Write(
			zap.Int("intervals", t.count),
			zap.Int("nodes", t.root.size()),
			zap.Int("depth", t.root.height()),
		)
	}
	return t, nil
}

func (b *Builder[B, V]) check(iv Interval[B, V]) error {
	if b.cmp(iv.Low, iv.Low) != 0 || b.cmp(iv.High, iv.High) != 0 {
		return ErrIncomparable
	}
	if b.cmp(iv.Low, iv.High) > 0 {
		return ErrInvalidInterval
	}
	return nil
}

func (b *Builder[B, V]) build(ivs []Interval[B, V]) *node[B, V] {
	if len(ivs) == 0 {
		return nil
	}
	n := &node[B, V]{center: b.center(ivs)}

	var left, right []Interval[B, V]
	for _, iv := range ivs {
		switch {
		case b.cmp(iv.High, n.center) < 0:
			left = append(left, iv)
		case b.cmp(iv.Low, n.center) > 0:
			right = append(right, iv)
		default:
			n.byLow = append(n.byLow, iv)
		}
	}
	n.byHigh = slices.Clone(n.byLow)
	slices.SortStableFunc(n.byLow, ByLowThenHigh[B, V](b.cmp))
	slices.SortStableFunc(n.byHigh, func(x, y Interval[B, V]) int {
		return b.cmp(y.High, x.High)
	})

	n.left = b.build(left)
	n.right = b.build(right)
	return n
}

// center picks the lower median of the distinct boundaries of ivs.
// It is a boundary of some interval, so the node it splits is never empty.
func (b *Builder[B, V]) center(ivs []Interval[B, V]) B {
	bounds := make([]B, 0, 2*len(ivs))
	for _, iv := range ivs {
		bounds = append(bounds, iv.Low, iv.High)
	}
	slices.SortFunc(bounds, b.cmp)
	bounds = slices.CompactFunc(bounds, func(x, y B) bool {
		return b.cmp(x, y) == 0
	})
	return bounds[(len(bounds)-1)/2]
}
