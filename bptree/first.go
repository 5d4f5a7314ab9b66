package bptree

import (
	"github.com/timtadh/lindex/errors"
)

// firstLeaf is the leftmost leaf, the head of the leaf chain.
func (self *BpTree) firstLeaf() (a nodeID, err error) {
	a = self.root
	for a != none {
		var leafy bool
		err = self.do(
			a,
			func(n *internal) error {
				if len(n.ptrs) == 0 {
					return errors.Errorf("internal node %v has no children", a)
				}
				a = n.ptrs[0]
				return nil
			},
			func(n *leaf) error {
				leafy = true
				return nil
			},
		)
		if err != nil {
			return none, err
		}
		if leafy {
			return a, nil
		}
	}
	return none, nil
}
