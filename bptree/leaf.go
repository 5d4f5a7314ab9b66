package bptree

import (
	"fmt"
)

import (
	"github.com/timtadh/lindex/errors"
)

// Entry locates a record in the indexed data file.
type Entry struct {
	Offset uint64
	Length uint32
}

type leaf struct {
	baseNode
	offsets []uint64
	lengths []uint32
	next    nodeID
	prev    nodeID
}

func newLeaf() *leaf {
	return &leaf{
		baseNode: baseNode{parent: none},
		next:     none,
		prev:     none,
	}
}

func (n *leaf) String() string {
	return fmt.Sprintf(
		"<leaf parent: %v, next: %v, prev: %v, keys: <%q>>",
		n.parent, n.next, n.prev, n.keys)
}

func (n *leaf) entry(i int) Entry {
	return Entry{Offset: n.offsets[i], Length: n.lengths[i]}
}

// putKV inserts the key and its entry at the sorted position.
func (n *leaf) putKV(key []byte, e Entry) error {
	i, has := find(n, key)
	if has {
		return errors.Kindf(errors.ErrDuplicateKey, "key %q", key)
	}
	n.keys = append(n.keys, nil)
	copy(n.keys[i+1:], n.keys[i:])
	n.keys[i] = key
	n.offsets = append(n.offsets, 0)
	copy(n.offsets[i+1:], n.offsets[i:])
	n.offsets[i] = e.Offset
	n.lengths = append(n.lengths, 0)
	copy(n.lengths[i+1:], n.lengths[i:])
	n.lengths[i] = e.Length
	return nil
}

// appendKV moves entry i of from onto the end of n.
func (n *leaf) appendKV(from *leaf, i int) {
	n.keys = append(n.keys, from.keys[i])
	n.offsets = append(n.offsets, from.offsets[i])
	n.lengths = append(n.lengths, from.lengths[i])
}
