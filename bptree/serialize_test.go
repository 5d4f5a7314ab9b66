package bptree

import "testing"

import (
	"bytes"
	"fmt"
)

import (
	"github.com/timtadh/lindex/errors"
)

func (t *T) sameLeaves(a, b *BpTree) {
	type leafEntries struct {
		keys    [][]byte
		entries []Entry
	}
	collect := func(bpt *BpTree) []leafEntries {
		var all []leafEntries
		t.assert_nil(bpt.DoLeaves(func(keys [][]byte, entries []Entry) error {
			all = append(all, leafEntries{keys, entries})
			return nil
		}))
		return all
	}
	x, y := collect(a), collect(b)
	t.assert(fmt.Sprintf("leaf count %v != %v", len(x), len(y)), len(x) == len(y))
	for i := range x {
		t.assert("leaf sizes", len(x[i].keys) == len(y[i].keys))
		for j := range x[i].keys {
			t.assert("keys", bytes.Equal(x[i].keys[j], y[i].keys[j]))
			t.assert("entries", x[i].entries[j] == y[i].entries[j])
		}
	}
}

func TestSnapshotRoundTrip(x *testing.T) {
	t := (*T)(x)
	for TEST := 0; TEST < TESTS/5; TEST++ {
		degree := 3 + TEST
		bpt := t.bpt(8, degree)
		for i, k := range t.unique_keys(150) {
			t.assert_nil(bpt.Add(k, uint64(i)*100, uint32(i)))
		}
		data, err := bpt.MarshalBinary()
		t.assert_nil(err)
		got, err := Unmarshal(data, 8, degree)
		t.assert_nil(err)
		t.assert_nil(got.Verify())
		t.assert("size", got.Size() == bpt.Size())
		t.assert("height", got.Height() == bpt.Height())
		t.assert("root key", bytes.Equal(got.RootKey(), bpt.RootKey()))
		t.assert("numbered from the root", got.root == 0)
		t.sameLeaves(bpt, got)
		again, err := got.MarshalBinary()
		t.assert_nil(err)
		t.assert("snapshot is stable", bytes.Equal(data, again))
		// the decoded tree keeps growing like any other
		for i, k := range t.unique_keys(50) {
			if err := got.Add(k, uint64(i), 1); err != nil {
				t.assert("only duplicates may fail", errors.Is(err, errors.ErrDuplicateKey))
			}
		}
		t.assert_nil(got.Verify())
	}
}

func TestSnapshotEmpty(x *testing.T) {
	t := (*T)(x)
	bpt := t.bpt(4, 5)
	data, err := bpt.MarshalBinary()
	t.assert_nil(err)
	t.assert("header only", len(data) == snapshotHeaderSize)
	got, err := Unmarshal(data, 4, 5)
	t.assert_nil(err)
	t.assert("empty", got.Size() == 0, got.Height() == 0, got.RootKey() == nil)
	t.assert_nil(got.Add([]byte("abcd"), 0, 4))
	t.assert_nil(got.Verify())
}

func (t *T) snapshot() []byte {
	bpt := t.letters(3, "qwertyuiopasdfghjkl")
	data, err := bpt.MarshalBinary()
	t.assert_nil(err)
	return data
}

func (t *T) malformed(data []byte) {
	_, err := Unmarshal(data, 1, 3)
	t.assert(fmt.Sprintf("expected a malformed index error, got %v", err),
		errors.Is(err, errors.ErrMalformedIndex))
}

func TestSnapshotTruncated(x *testing.T) {
	t := (*T)(x)
	data := t.snapshot()
	for _, n := range []int{0, 3, 7, snapshotHeaderSize + 2, len(data) / 2, len(data) - 1} {
		t.malformed(data[:n])
	}
}

func TestSnapshotTrailing(x *testing.T) {
	t := (*T)(x)
	data := append(t.snapshot(), 0)
	t.malformed(data)
}

func TestSnapshotBadKind(x *testing.T) {
	t := (*T)(x)
	data := t.snapshot()
	data[snapshotHeaderSize] = 0x7f
	t.malformed(data)
}

func TestSnapshotBadRoot(x *testing.T) {
	t := (*T)(x)
	data := t.snapshot()
	bin.PutUint32(data[4:8], 1)
	t.malformed(data)
	data = t.snapshot()
	bin.PutUint32(data[0:4], 1<<30)
	t.malformed(data)
}

func TestSnapshotBadChild(x *testing.T) {
	t := (*T)(x)
	data := t.snapshot()
	// the root is internal: kind, key count, keys, then its first child
	off := snapshotHeaderSize + 1 + 2
	t.assert("root is internal", data[snapshotHeaderSize] == byte(1))
	keys := int(bin.Uint16(data[snapshotHeaderSize+1:]))
	off += keys
	bin.PutUint32(data[off:], 0)
	t.malformed(data)
	data = t.snapshot()
	bin.PutUint32(data[off:], 5000)
	t.malformed(data)
}

func TestSnapshotWrongKeySize(x *testing.T) {
	t := (*T)(x)
	data := t.snapshot()
	_, err := Unmarshal(data, 2, 3)
	t.assert("key size must match the snapshot", errors.Is(err, errors.ErrMalformedIndex))
}
