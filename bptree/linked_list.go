package bptree

import (
	"github.com/timtadh/lindex/errors"
)

func (self *BpTree) insertListNode(node, prev, next nodeID) (err error) {
	if node == none {
		return errors.Errorf("no node to link")
	}
	return self.doLeaf(node, func(n *leaf) (err error) {
		if prev == none && next == none {
			n.next = none
			n.prev = none
			return nil
		} else if next == none {
			return self.doLeaf(prev, func(pn *leaf) (err error) {
				n.next = none
				n.prev = prev
				pn.next = node
				return nil
			})
		} else if prev == none {
			return self.doLeaf(next, func(nn *leaf) (err error) {
				n.next = next
				n.prev = none
				nn.prev = node
				return nil
			})
		} else {
			return self.doLeaf(prev, func(pn *leaf) (err error) {
				return self.doLeaf(next, func(nn *leaf) (err error) {
					n.next = next
					n.prev = prev
					pn.next = node
					nn.prev = node
					return nil
				})
			})
		}
	})
}

func (self *BpTree) delListNode(node nodeID) (err error) {
	if node == none {
		return errors.Errorf("no node to unlink")
	}
	return self.doLeaf(node, func(n *leaf) (err error) {
		if n.prev != none {
			err = self.doLeaf(n.prev, func(pn *leaf) (err error) {
				pn.next = n.next
				return nil
			})
			if err != nil {
				return err
			}
		}
		if n.next != none {
			err = self.doLeaf(n.next, func(nn *leaf) (err error) {
				nn.prev = n.prev
				return nil
			})
			if err != nil {
				return err
			}
		}
		n.prev = none
		n.next = none
		return nil
	})
}

// replaceListNode puts the run l <-> r into the chain where node was.
func (self *BpTree) replaceListNode(node, l, r nodeID) (err error) {
	var prev, next nodeID
	err = self.doLeaf(node, func(n *leaf) error {
		prev, next = n.prev, n.next
		return nil
	})
	if err != nil {
		return err
	}
	err = self.delListNode(node)
	if err != nil {
		return err
	}
	err = self.insertListNode(l, prev, next)
	if err != nil {
		return err
	}
	return self.insertListNode(r, l, next)
}
