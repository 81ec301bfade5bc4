package intervaltree

// Search returns every stored interval overlapping q, that is every s with
// s.Low <= q.High and s.High >= q.Low. Intervals come out depth first:
// a node's matches, then its left subtree, then its right subtree.
// q is not validated; an inverted q is matched by the same predicate.
func (t *Tree[B, V]) Search(q Interval[B, V]) []Interval[B, V] {
	return t.root.search(q, t.cmp, nil)
}

// SearchPoint returns every stored interval containing p.
func (t *Tree[B, V]) SearchPoint(p B) []Interval[B, V] {
	return t.Search(Interval[B, V]{Low: p, High: p})
}

// SearchPayloads returns the payloads of the intervals overlapping q,
// skipping intervals that carry none.
func (t *Tree[B, V]) SearchPayloads(q Interval[B, V]) []V {
	var vs []V
	for _, iv := range t.Search(q) {
		if v, ok := iv.Payload(); ok {
			vs = append(vs, v)
		}
	}
	return vs
}

func (n *node[B, V]) search(q Interval[B, V], cmp Comparator[B], res []Interval[B, V]) []Interval[B, V] {
	for n != nil {
		switch {
		case cmp(q.High, n.center) < 0:
			// Everything here reaches center, past q.High. Only the low
			// bound can fail, and byLow is sorted on it.
			inverted := cmp(q.Low, n.center) > 0
			for _, iv := range n.byLow {
				if cmp(iv.Low, q.High) > 0 {
					break
				}
				if inverted && cmp(iv.High, q.Low) < 0 {
					continue
				}
				res = append(res, iv)
			}
			n = n.left
		case cmp(q.Low, n.center) > 0:
			for _, iv := range n.byHigh {
				if cmp(iv.High, q.Low) < 0 {
					break
				}
				res = append(res, iv)
			}
			n = n.right
		default:
			// q contains center, so does every interval stored here.
			res = append(res, n.byLow...)
			res = n.left.search(q, cmp, res)
			n = n.right
		}
	}
	return res
}
