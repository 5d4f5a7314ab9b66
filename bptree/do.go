package bptree

import (
	"github.com/timtadh/lindex/errors"
)

type node interface {
	keyed
	parentID() nodeID
	setParent(p nodeID)
}

func (self *BpTree) newInternal() (nodeID, *internal) {
	n := newInternal()
	return self.alloc(n), n
}

func (self *BpTree) newLeaf() (nodeID, *leaf) {
	n := newLeaf()
	return self.alloc(n), n
}

func (self *BpTree) alloc(n node) nodeID {
	if len(self.free) > 0 {
		a := self.free[len(self.free)-1]
		self.free = self.free[:len(self.free)-1]
		self.nodes[a] = n
		return a
	}
	self.nodes = append(self.nodes, n)
	return nodeID(len(self.nodes) - 1)
}

// release drops a node whose contents were redistributed by a split.
func (self *BpTree) release(a nodeID) {
	self.nodes[a] = nil
	self.free = append(self.free, a)
}

func (self *BpTree) doInternal(a nodeID, do func(*internal) error) error {
	return self.do(
		a,
		do,
		func(n *leaf) error {
			return errors.Errorf("Unexpected leaf node %v", a)
		},
	)
}

func (self *BpTree) doLeaf(a nodeID, do func(*leaf) error) error {
	return self.do(
		a,
		func(n *internal) error {
			return errors.Errorf("Unexpected internal node %v", a)
		},
		do,
	)
}

func (self *BpTree) do(
	a nodeID,
	internalDo func(*internal) error,
	leafDo func(*leaf) error,
) error {
	if a < 0 || int(a) >= len(self.nodes) {
		return errors.Errorf("node %v is out of range", a)
	}
	switch n := self.nodes[a].(type) {
	case *internal:
		return internalDo(n)
	case *leaf:
		return leafDo(n)
	default:
		return errors.Errorf("Unknown block type at %v", a)
	}
}
