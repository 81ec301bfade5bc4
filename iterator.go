package intervaltree

import "container/heap"

// Iterator walks a tree's intervals ascending by low bound, ties broken by
// high bound. It merges the per-node lists lazily: a node's right subtree is
// only opened once the node's own list is drained, since everything to the
// right starts after everything stored at the node.
//
//	it := t.Iterator()
//	for it.Next() {
//		iv := it.Interval()
//	}
type Iterator[B, V any] struct {
	t   *Tree[B, V]
	h   cursorHeap[B, V]
	cur Interval[B, V]
}

// Iterator returns a new iterator positioned before the first interval.
// Any number of iterators may run over the same tree at once.
func (t *Tree[B, V]) Iterator() *Iterator[B, V] {
	it := &Iterator[B, V]{t: t}
	it.h.order = ByLowThenHigh[B, V](t.cmp)
	it.Reset()
	return it
}

// Reset rewinds the iterator to before the first interval.
func (it *Iterator[B, V]) Reset() {
	it.h.cs = it.h.cs[:0]
	it.cur = Interval[B, V]{}
	it.open(it.t.root)
}

// Next advances to the next interval and reports whether there was one.
func (it *Iterator[B, V]) Next() bool {
	if it.h.Len() == 0 {
		return false
	}
	c := it.h.cs[0]
	it.cur = c.n.byLow[c.pos]
	c.pos++
	if c.pos < len(c.n.byLow) {
		heap.Fix(&it.h, 0)
		return true
	}
	heap.Pop(&it.h)
	it.open(c.n.right)
	return true
}

// Interval returns the interval Next advanced to.
func (it *Iterator[B, V]) Interval() Interval[B, V] {
	return it.cur
}

// open pushes n and its chain of left descendants.
func (it *Iterator[B, V]) open(n *node[B, V]) {
	for ; n != nil; n = n.left {
		heap.Push(&it.h, &cursor[B, V]{n: n})
	}
}

// Each calls fn on every interval in iteration order until fn returns false.
func (t *Tree[B, V]) Each(fn func(iv Interval[B, V]) bool) {
	it := t.Iterator()
	for it.Next() {
		if !fn(it.Interval()) {
			return
		}
	}
}

// Intervals returns all intervals in iteration order.
func (t *Tree[B, V]) Intervals() []Interval[B, V] {
	ivs := make([]Interval[B, V], 0, t.count)
	t.Each(func(iv Interval[B, V]) bool {
		ivs = append(ivs, iv)
		return true
	})
	return ivs
}

type cursor[B, V any] struct {
	n   *node[B, V]
	pos int
}

func (c *cursor[B, V]) head() Interval[B, V] {
	return c.n.byLow[c.pos]
}

type cursorHeap[B, V any] struct {
	cs    []*cursor[B, V]
	order func(a, b Interval[B, V]) int
}

func (h *cursorHeap[B, V]) Len() int { return len(h.cs) }

func (h *cursorHeap[B, V]) Less(i, j int) bool {
	return h.order(h.cs[i].head(), h.cs[j].head()) < 0
}

func (h *cursorHeap[B, V]) Swap(i, j int) { h.cs[i], h.cs[j] = h.cs[j], h.cs[i] }

func (h *cursorHeap[B, V]) Push(x any) { h.cs = append(h.cs, x.(*cursor[B, V])) }

func (h *cursorHeap[B, V]) Pop() any {
	old := h.cs
	c := old[len(old)-1]
	old[len(old)-1] = nil
	h.cs = old[:len(old)-1]
	return c
}
