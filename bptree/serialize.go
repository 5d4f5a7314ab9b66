package bptree

import (
	"encoding/binary"
)

import (
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

// bin is the byte order of the snapshot.
var bin = binary.LittleEndian

// Snapshot layout. Nodes are numbered breadth first from the root, so
// the root is always 0 in a non empty snapshot.
//
//	count    uint32
//	root     int32
//	count times:
//	  kind     uint8 (consts.LEAF or consts.INTERNAL)
//	  keyCount uint16
//	  leaf:     next int32, prev int32, keys, offsets uint64, lengths uint32
//	  internal: keys, ptrs int32 (keyCount+1 of them)
//
// Parent links are not stored, they follow from the ptrs.
const snapshotHeaderSize = 8

// MarshalBinary encodes the tree reachable from the root.
func (self *BpTree) MarshalBinary() ([]byte, error) {
	order, ids, err := self.numbering()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, snapshotHeaderSize+len(order)*consts.BLOCKSIZE/2)
	buf = bin.AppendUint32(buf, uint32(len(order)))
	root := int32(none)
	if len(order) > 0 {
		root = 0
	}
	buf = bin.AppendUint32(buf, uint32(root))
	remap := func(a nodeID) int32 {
		if a == none {
			return int32(none)
		}
		return int32(ids[a])
	}
	for _, a := range order {
		err := self.do(
			a,
			func(n *internal) error {
				buf = append(buf, byte(consts.INTERNAL))
				buf = bin.AppendUint16(buf, uint16(n.keyCount()))
				for _, k := range n.keys {
					buf = append(buf, k...)
				}
				for _, p := range n.ptrs {
					buf = bin.AppendUint32(buf, uint32(remap(p)))
				}
				return nil
			},
			func(n *leaf) error {
				buf = append(buf, byte(consts.LEAF))
				buf = bin.AppendUint16(buf, uint16(n.keyCount()))
				buf = bin.AppendUint32(buf, uint32(remap(n.next)))
				buf = bin.AppendUint32(buf, uint32(remap(n.prev)))
				for _, k := range n.keys {
					buf = append(buf, k...)
				}
				for _, o := range n.offsets {
					buf = bin.AppendUint64(buf, o)
				}
				for _, l := range n.lengths {
					buf = bin.AppendUint32(buf, l)
				}
				return nil
			},
		)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// numbering orders the live nodes breadth first from the root and maps
// arena ids to their position in that order.
func (self *BpTree) numbering() (order []nodeID, ids map[nodeID]int, err error) {
	ids = make(map[nodeID]int)
	if self.root == none {
		return nil, ids, nil
	}
	order = append(order, self.root)
	ids[self.root] = 0
	for i := 0; i < len(order); i++ {
		err = self.do(
			order[i],
			func(n *internal) error {
				for _, p := range n.ptrs {
					if _, has := ids[p]; has {
						return errors.Errorf("node %v is reachable twice", p)
					}
					ids[p] = len(order)
					order = append(order, p)
				}
				return nil
			},
			func(n *leaf) error {
				return nil
			},
		)
		if err != nil {
			return nil, nil, err
		}
	}
	return order, ids, nil
}

// Unmarshal decodes a snapshot made by MarshalBinary into a new tree
// with the given key size and degree. The result is verified; anything
// wrong with the snapshot is reported as errors.ErrMalformedIndex.
func Unmarshal(data []byte, keySize, degree int) (*BpTree, error) {
	bpt, err := New(keySize, degree)
	if err != nil {
		return nil, err
	}
	r := &reader{data: data}
	count := int(r.uint32())
	root := nodeID(int32(r.uint32()))
	if r.err != nil {
		return nil, malformed(r.err)
	}
	// every node takes at least 7 bytes, refuse counts the data can not hold
	if count > len(data)/7 {
		return nil, malformed(errors.Errorf("node count %v is larger than the snapshot", count))
	}
	if (count == 0) != (root == none) || (count > 0 && root != 0) {
		return nil, malformed(errors.Errorf("bad root %v for %v nodes", root, count))
	}
	inRange := func(a nodeID, nullable bool) bool {
		return (nullable && a == none) || (a >= 0 && int(a) < count)
	}
	bpt.nodes = make([]node, 0, count)
	for i := 0; i < count; i++ {
		kind := consts.Flag(r.uint8())
		keyCount := int(r.uint16())
		switch kind {
		case consts.LEAF:
			n := newLeaf()
			n.next = nodeID(int32(r.uint32()))
			n.prev = nodeID(int32(r.uint32()))
			n.keys = r.keys(keyCount, keySize)
			n.offsets = make([]uint64, keyCount)
			for j := range n.offsets {
				n.offsets[j] = r.uint64()
			}
			n.lengths = make([]uint32, keyCount)
			for j := range n.lengths {
				n.lengths[j] = r.uint32()
			}
			if r.err == nil && (!inRange(n.next, true) || !inRange(n.prev, true)) {
				return nil, malformed(errors.Errorf("leaf %v has a sibling out of range", i))
			}
			bpt.nodes = append(bpt.nodes, n)
			bpt.count += keyCount
		case consts.INTERNAL:
			n := newInternal()
			n.keys = r.keys(keyCount, keySize)
			n.ptrs = make([]nodeID, keyCount+1)
			for j := range n.ptrs {
				n.ptrs[j] = nodeID(int32(r.uint32()))
				if r.err == nil && !inRange(n.ptrs[j], false) {
					return nil, malformed(errors.Errorf("internal %v has a child out of range", i))
				}
			}
			bpt.nodes = append(bpt.nodes, n)
		default:
			if r.err == nil {
				return nil, malformed(errors.Errorf("node %v has unknown kind %v", i, kind))
			}
		}
		if r.err != nil {
			return nil, malformed(r.err)
		}
	}
	if len(r.data) != r.off {
		return nil, malformed(errors.Errorf("%v trailing bytes after the last node", len(r.data)-r.off))
	}
	for i, n := range bpt.nodes {
		p, ok := n.(*internal)
		if !ok {
			continue
		}
		for _, c := range p.ptrs {
			child := bpt.nodes[c]
			if child.parentID() != none || c == 0 {
				return nil, malformed(errors.Errorf("node %v is claimed by more than one parent", c))
			}
			child.setParent(nodeID(i))
		}
	}
	for _, n := range bpt.nodes {
		l, ok := n.(*leaf)
		if !ok {
			continue
		}
		for _, s := range []nodeID{l.next, l.prev} {
			if s == none {
				continue
			}
			if _, ok := bpt.nodes[s].(*leaf); !ok {
				return nil, malformed(errors.Errorf("leaf sibling %v is not a leaf", s))
			}
		}
	}
	bpt.root = root
	if err := bpt.Verify(); err != nil {
		return nil, malformed(err)
	}
	return bpt, nil
}

func malformed(err error) error {
	return errors.Kindf(errors.ErrMalformedIndex, "snapshot: %v", err)
}

type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = errors.Errorf("snapshot truncated at byte %v", r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) uint8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}
	return bin.Uint16(b)
}

func (r *reader) uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return bin.Uint32(b)
}

func (r *reader) uint64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return bin.Uint64(b)
}

func (r *reader) keys(count, keySize int) [][]byte {
	keys := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		b := r.next(keySize)
		if b == nil {
			return keys
		}
		keys = append(keys, copyKey(b))
	}
	return keys
}
