package bptree

import (
	"bytes"
)

import (
	"github.com/timtadh/lindex/errors"
)

// Verify() error
// Looks at the structure of the B+Tree and checks it conforms to the
// B+Tree structural invariants: sorted unique keys, k+1 children for k
// keys, child key ranges bounded by the separators, consistent parent
// references, no node at or above the degree, leaves all at one depth,
// and a leaf chain which visits every leaf left to right. It can be used
// to look for corruption in a freshly loaded snapshot.
func (self *BpTree) Verify() (err error) {
	if self.root == none {
		if self.count != 0 {
			return errors.Errorf("empty tree has count %v", self.count)
		}
		return nil
	}
	v := &verifier{bpt: self, depth: -1}
	err = v.verify(none, self.root, nil, nil, 0)
	if err != nil {
		return err
	}
	if v.entries != self.count {
		return errors.Errorf("tree holds %v entries but has count %v", v.entries, self.count)
	}
	live := 0
	for _, n := range self.nodes {
		if n != nil {
			live++
		}
	}
	if v.visited != live {
		return errors.Errorf("%v nodes are not reachable from the root", live-v.visited)
	}
	return v.verifyChain()
}

type verifier struct {
	bpt     *BpTree
	depth   int
	leaves  []nodeID
	entries int
	visited int
}

// verify checks the subtree at a, whose keys must lie in [lo, hi) (a nil
// bound is open).
func (v *verifier) verify(parent, a nodeID, lo, hi []byte, depth int) error {
	if v.visited > len(v.bpt.nodes) {
		return errors.Errorf("more nodes visited than exist, the tree has a cycle")
	}
	v.visited++
	return v.bpt.do(
		a,
		func(n *internal) error {
			err := v.checkNode(parent, a, n, lo, hi)
			if err != nil {
				return err
			}
			if n.keyCount() == 0 {
				return errors.Errorf("internal node %v has no keys", a)
			}
			if len(n.ptrs) != n.keyCount()+1 {
				return errors.Errorf("internal node %v has %v keys and %v children", a, n.keyCount(), len(n.ptrs))
			}
			for i, c := range n.ptrs {
				clo, chi := lo, hi
				if i > 0 {
					clo = n.key(i - 1)
				}
				if i < n.keyCount() {
					chi = n.key(i)
				}
				err := v.verify(a, c, clo, chi, depth+1)
				if err != nil {
					return err
				}
			}
			return nil
		},
		func(n *leaf) error {
			err := v.checkNode(parent, a, n, lo, hi)
			if err != nil {
				return err
			}
			if n.keyCount() == 0 {
				return errors.Errorf("leaf %v is empty", a)
			}
			if len(n.offsets) != n.keyCount() || len(n.lengths) != n.keyCount() {
				return errors.Errorf("leaf %v has %v keys, %v offsets and %v lengths",
					a, n.keyCount(), len(n.offsets), len(n.lengths))
			}
			if v.depth < 0 {
				v.depth = depth
			} else if v.depth != depth {
				return errors.Errorf("leaf %v is at depth %v, expected %v", a, depth, v.depth)
			}
			v.leaves = append(v.leaves, a)
			v.entries += n.keyCount()
			return nil
		},
	)
}

func (v *verifier) checkNode(parent, a nodeID, n node, lo, hi []byte) error {
	if n.parentID() != parent {
		return errors.Errorf("node %v has parent %v, expected %v", a, n.parentID(), parent)
	}
	if n.keyCount() >= v.bpt.degree {
		return errors.Errorf("node %v has %v keys, degree is %v", a, n.keyCount(), v.bpt.degree)
	}
	if err := checkOrder(n); err != nil {
		return errors.Wrapf(err, "node %v", a)
	}
	for i := 0; i < n.keyCount(); i++ {
		k := n.key(i)
		if len(k) != v.bpt.keySize {
			return errors.Errorf("node %v key %v has size %v, expected %v", a, i, len(k), v.bpt.keySize)
		}
		if lo != nil && bytes.Compare(k, lo) < 0 {
			return errors.Errorf("node %v key %q is below its lower bound %q", a, k, lo)
		}
		if hi != nil && bytes.Compare(k, hi) >= 0 {
			return errors.Errorf("node %v key %q is not below its upper bound %q", a, k, hi)
		}
	}
	return nil
}

// verifyChain checks the sibling links against the left to right order
// the leaves were found in.
func (v *verifier) verifyChain() error {
	for i, a := range v.leaves {
		prev, next := none, none
		if i > 0 {
			prev = v.leaves[i-1]
		}
		if i+1 < len(v.leaves) {
			next = v.leaves[i+1]
		}
		err := v.bpt.doLeaf(a, func(n *leaf) error {
			if n.prev != prev {
				return errors.Errorf("leaf %v has prev %v, expected %v", a, n.prev, prev)
			}
			if n.next != next {
				return errors.Errorf("leaf %v has next %v, expected %v", a, n.next, next)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func checkOrder(n keyed) error {
	for i := 1; i < n.keyCount(); i++ {
		if bytes.Compare(n.key(i-1), n.key(i)) >= 0 {
			return errors.Errorf("keys out of order at %v: %q >= %q", i, n.key(i-1), n.key(i))
		}
	}
	return nil
}
