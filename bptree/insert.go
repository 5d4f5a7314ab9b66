package bptree

import (
	"github.com/timtadh/lindex/errors"
)

// Add a key and the location of its record to the tree. Keys are unique:
// adding a key which is already present fails with an error matching
// errors.ErrDuplicateKey and leaves the tree as it was.
func (self *BpTree) Add(key []byte, offset uint64, length uint32) error {
	if err := self.checkKey(key); err != nil {
		return err
	}
	key = copyKey(key)
	e := Entry{Offset: offset, Length: length}
	if self.root == none {
		a, n := self.newLeaf()
		if err := n.putKV(key, e); err != nil {
			return err
		}
		self.root = a
		self.count += 1
		return nil
	}
	err := self.insert(self.root, key, e)
	if err != nil {
		return err
	}
	self.count += 1
	return nil
}

/* - descend through the internal nodes, refusing keys already used as a
 *   separator (separators are always copies of leaf keys)
 * - put the kv into the leaf at its sorted position
 * - if the leaf reached the degree, balance it
 */
func (self *BpTree) insert(root nodeID, key []byte, e Entry) error {
	a := root
	for {
		var next nodeID = none
		err := self.do(
			a,
			func(n *internal) error {
				i, has := find(n, key)
				if has {
					return errors.Kindf(errors.ErrDuplicateKey, "key %q", key)
				}
				next = n.ptrs[i]
				return nil
			},
			func(n *leaf) error {
				err := n.putKV(key, e)
				if err != nil {
					return err
				}
				if n.keyCount() >= self.degree {
					return self.balance(a)
				}
				return nil
			},
		)
		if err != nil || next == none {
			return err
		}
		a = next
	}
}
