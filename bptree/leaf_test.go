package bptree

import "testing"

import (
	"bytes"
	"crypto/rand"
	"runtime/debug"
	"sort"
)

import (
	"github.com/timtadh/lindex/errors"
)

const TESTS = 50

type T testing.T

func (t *T) assert(msg string, oks ...bool) {
	for _, ok := range oks {
		if !ok {
			t.Log("\n" + string(debug.Stack()))
			t.Error(msg)
			t.Fatal("assert failed")
		}
	}
}

func (t *T) assert_nil(errors ...error) {
	for _, err := range errors {
		if err != nil {
			t.Log("\n" + string(debug.Stack()))
			t.Fatal(err)
		}
	}
}

func (t *T) rand_bytes(length int) []byte {
	slice := make([]byte, length)
	if _, err := rand.Read(slice); err != nil {
		t.Fatal(err)
	}
	return slice
}

func (t *T) rand_key() []byte {
	return t.rand_bytes(8)
}

// unique_keys makes n distinct random keys in random order.
func (t *T) unique_keys(n int) [][]byte {
	seen := make(map[string]bool, n)
	keys := make([][]byte, 0, n)
	for len(keys) < n {
		k := t.rand_key()
		if seen[string(k)] {
			continue
		}
		seen[string(k)] = true
		keys = append(keys, k)
	}
	return keys
}

func sorted(keys [][]byte) [][]byte {
	s := make([][]byte, len(keys))
	copy(s, keys)
	sort.Slice(s, func(i, j int) bool {
		return bytes.Compare(s[i], s[j]) < 0
	})
	return s
}

func (t *T) bpt(keySize, degree int) *BpTree {
	bpt, err := New(keySize, degree)
	t.assert_nil(err)
	return bpt
}

func (t *T) leafKeys(n *leaf) []string {
	keys := make([]string, 0, n.keyCount())
	for _, k := range n.keys {
		keys = append(keys, string(k))
	}
	return keys
}

func TestLeafPutKV(x *testing.T) {
	t := (*T)(x)
	for TEST := 0; TEST < TESTS; TEST++ {
		n := newLeaf()
		keys := t.unique_keys(40)
		for i, k := range keys {
			t.assert_nil(n.putKV(k, Entry{Offset: uint64(i), Length: uint32(i * 2)}))
		}
		t.assert("keys out of order", checkOrder(n) == nil)
		t.assert("wrong key count", n.keyCount() == len(keys))
		t.assert("offsets and lengths follow the keys",
			len(n.offsets) == len(keys), len(n.lengths) == len(keys))
		for want, k := range keys {
			i, has := find(n, k)
			t.assert("could not find key in leaf", has)
			e := n.entry(i)
			t.assert("entry moved away from its key",
				e.Offset == uint64(want), e.Length == uint32(want*2))
		}
	}
}

func TestLeafPutKVDuplicate(x *testing.T) {
	t := (*T)(x)
	n := newLeaf()
	t.assert_nil(n.putKV([]byte("b"), Entry{Offset: 1, Length: 1}))
	t.assert_nil(n.putKV([]byte("a"), Entry{Offset: 2, Length: 2}))
	err := n.putKV([]byte("b"), Entry{Offset: 3, Length: 3})
	t.assert("expected a duplicate key error", errors.Is(err, errors.ErrDuplicateKey))
	t.assert("leaf changed", n.keyCount() == 2, n.entry(1) == Entry{Offset: 1, Length: 1})
}

func TestFind(x *testing.T) {
	t := (*T)(x)
	n := newLeaf()
	for i, k := range []string{"b", "d", "f"} {
		t.assert_nil(n.putKV([]byte(k), Entry{Offset: uint64(i)}))
	}
	cases := []struct {
		key string
		idx int
		has bool
	}{
		{"a", 0, false},
		{"b", 0, true},
		{"c", 1, false},
		{"d", 1, true},
		{"e", 2, false},
		{"f", 2, true},
		{"g", 3, false},
	}
	for _, c := range cases {
		i, has := find(n, []byte(c.key))
		t.assert("find "+c.key, i == c.idx, has == c.has)
	}
}

func TestSplitPoint(x *testing.T) {
	t := (*T)(x)
	cases := map[int]int{2: 0, 3: 1, 4: 1, 5: 2, 6: 2, 7: 3, 60: 29, 61: 30}
	for size, m := range cases {
		t.assert("split point", splitPoint(size) == m)
	}
}
