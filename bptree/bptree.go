package bptree

import (
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

// The Ubiquitous B+ Tree
//
// Keys are fixed size byte strings compared lexicographically. Each key
// maps to a single Entry. Nodes live in an arena and refer to each other
// by nodeID, so the parent and sibling back references never own
// anything.
type BpTree struct {
	keySize int
	degree  int
	root    nodeID
	nodes   []node
	free    []nodeID
	count   int
}

// Degree plans the node capacity for a block of blockSize bytes and
// keys of keySize bytes. A node splits when it holds Degree keys, so at
// most Degree-1 keys live in any node between operations.
func Degree(blockSize, keySize int) (int, error) {
	if keySize <= 0 {
		return 0, errors.Kindf(errors.ErrConfig, "key size must be positive, got %v", keySize)
	}
	if blockSize <= consts.NODEMETASIZE {
		return 0, errors.Kindf(errors.ErrConfig, "block size %v is too small", blockSize)
	}
	degree := (blockSize - consts.NODEMETASIZE) / (keySize + consts.ENTRYSIZE)
	if degree < consts.MINDEGREE {
		return 0, errors.Kindf(errors.ErrConfig,
			"key size %v is too large (degree %v, need at least %v)", keySize, degree, consts.MINDEGREE)
	}
	return degree, nil
}

// New makes an empty tree for keys of keySize bytes which splits nodes
// when they reach degree keys. Use Degree to plan degree.
func New(keySize, degree int) (*BpTree, error) {
	if keySize <= 0 {
		return nil, errors.Kindf(errors.ErrConfig, "key size must be positive, got %v", keySize)
	}
	if degree < consts.MINDEGREE {
		return nil, errors.Kindf(errors.ErrConfig, "degree %v is less than %v", degree, consts.MINDEGREE)
	}
	bpt := &BpTree{
		keySize: keySize,
		degree:  degree,
		root:    none,
	}
	return bpt, nil
}

// What is the key size of this tree?
func (self *BpTree) KeySize() int {
	return self.keySize
}

func (self *BpTree) Degree() int {
	return self.degree
}

// How many keys are in the tree?
func (self *BpTree) Size() int {
	return self.count
}

// Height is the number of levels, 0 for an empty tree.
func (self *BpTree) Height() int {
	h := 0
	for a := self.root; a != none; h++ {
		switch n := self.nodes[a].(type) {
		case *internal:
			a = n.ptrs[0]
		default:
			a = none
		}
	}
	return h
}

// RootKey is the first key of the root node, nil when the tree is empty.
func (self *BpTree) RootKey() []byte {
	if self.root == none {
		return nil
	}
	n := self.nodes[self.root]
	if n.keyCount() == 0 {
		return nil
	}
	return copyKey(n.key(0))
}

func (self *BpTree) checkKey(key []byte) error {
	if len(key) != self.keySize {
		return errors.Errorf("Key was not the correct size got, %v, expected, %v", len(key), self.keySize)
	}
	return nil
}

func copyKey(key []byte) []byte {
	k := make([]byte, len(key))
	copy(k, key)
	return k
}
