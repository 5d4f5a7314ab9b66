package bptree

import (
	"bytes"
	"fmt"
)

import (
	"github.com/timtadh/lindex/errors"
)

// baseNode holds what both node variants share: the sorted keys and the
// back reference to the owning internal node.
type baseNode struct {
	parent nodeID
	keys   [][]byte
}

type internal struct {
	baseNode
	ptrs []nodeID
}

func (n *baseNode) key(i int) []byte {
	return n.keys[i]
}

func (n *baseNode) keyCount() int {
	return len(n.keys)
}

func (n *baseNode) parentID() nodeID {
	return n.parent
}

func (n *baseNode) setParent(p nodeID) {
	n.parent = p
}

func newInternal() *internal {
	return &internal{
		baseNode: baseNode{parent: none},
	}
}

func (n *internal) String() string {
	return fmt.Sprintf(
		"<internal parent: %v, keys: <%q>, ptrs: <%v>>",
		n.parent, n.keys, n.ptrs)
}

// route gives the index of the child which may hold key: the child to
// the left of the first key strictly greater than key.
func (n *internal) route(key []byte) int {
	i, has := find(n, key)
	if has {
		return i + 1
	}
	return i
}

func (n *internal) childIndex(a nodeID) int {
	for i, p := range n.ptrs {
		if p == a {
			return i
		}
	}
	return -1
}

// putKP replaces the child at i with left, inserts key at i and right at
// i+1. Both children must already partition the old child's range
// around key.
func (n *internal) putKP(i int, key []byte, left, right nodeID) error {
	if i < 0 || i >= len(n.ptrs) {
		return errors.Errorf("child index %v out of range [0, %v)", i, len(n.ptrs))
	}
	if i > 0 && bytes.Compare(n.keys[i-1], key) >= 0 {
		return errors.Errorf("separator %q does not follow %q", key, n.keys[i-1])
	}
	if i < len(n.keys) && bytes.Compare(key, n.keys[i]) >= 0 {
		return errors.Errorf("separator %q does not precede %q", key, n.keys[i])
	}
	n.keys = append(n.keys, nil)
	copy(n.keys[i+1:], n.keys[i:])
	n.keys[i] = key
	n.ptrs[i] = left
	n.ptrs = append(n.ptrs, none)
	copy(n.ptrs[i+2:], n.ptrs[i+1:])
	n.ptrs[i+1] = right
	return nil
}
