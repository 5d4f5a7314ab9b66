package bptree

import (
	"github.com/timtadh/lindex/errors"
)

// balance splits the node at a, which has reached the degree, and
// promotes the separator into its parent. The parent is balanced in turn
// if the promotion filled it.
func (self *BpTree) balance(a nodeID) error {
	return self.do(
		a,
		func(n *internal) error {
			if n.keyCount() < self.degree {
				return nil
			}
			return self.internalSplit(a, n)
		},
		func(n *leaf) error {
			if n.keyCount() < self.degree {
				return nil
			}
			return self.leafSplit(a, n)
		},
	)
}

/* on leaf split
 * - entries [0, m) go to a new left leaf, [m, size) to a new right leaf
 * - the two leaves take the old leaf's place in the leaf chain
 * - the first key of the right leaf is copied up as the separator
 */
func (self *BpTree) leafSplit(a nodeID, n *leaf) error {
	m := splitPoint(n.keyCount())
	l, left := self.newLeaf()
	r, right := self.newLeaf()
	for i := 0; i < m; i++ {
		left.appendKV(n, i)
	}
	for i := m; i < n.keyCount(); i++ {
		right.appendKV(n, i)
	}
	err := self.replaceListNode(a, l, r)
	if err != nil {
		return err
	}
	return self.promote(a, n.parent, right.key(0), l, r)
}

/* on internal split
 * - the key at m is the separator and goes to neither half
 * - keys [0, m) and ptrs [0, m] go left, keys (m, size) and ptrs (m, size]
 *   go right
 * - the moved children are re-parented
 */
func (self *BpTree) internalSplit(a nodeID, n *internal) error {
	m := splitPoint(n.keyCount())
	popKey := n.key(m)
	l, left := self.newInternal()
	r, right := self.newInternal()
	left.keys = append(left.keys, n.keys[:m]...)
	left.ptrs = append(left.ptrs, n.ptrs[:m+1]...)
	right.keys = append(right.keys, n.keys[m+1:]...)
	right.ptrs = append(right.ptrs, n.ptrs[m+1:]...)
	for _, c := range left.ptrs {
		self.nodes[c].setParent(l)
	}
	for _, c := range right.ptrs {
		self.nodes[c].setParent(r)
	}
	return self.promote(a, n.parent, popKey, l, r)
}

// promote replaces the split node a with l and r in its parent, or grows
// a new root over them when a was the root.
func (self *BpTree) promote(a, parent nodeID, key []byte, l, r nodeID) error {
	if parent == none {
		p, root := self.newInternal()
		root.keys = append(root.keys, key)
		root.ptrs = append(root.ptrs, l, r)
		self.nodes[l].setParent(p)
		self.nodes[r].setParent(p)
		self.root = p
		self.release(a)
		return nil
	}
	var full bool
	err := self.doInternal(parent, func(m *internal) error {
		i := m.childIndex(a)
		if i < 0 {
			return errors.Errorf("node %v is not a child of its parent %v", a, parent)
		}
		err := m.putKP(i, key, l, r)
		if err != nil {
			return err
		}
		full = m.keyCount() >= self.degree
		return nil
	})
	if err != nil {
		return err
	}
	self.nodes[l].setParent(parent)
	self.nodes[r].setParent(parent)
	self.release(a)
	if full {
		return self.balance(parent)
	}
	return nil
}
