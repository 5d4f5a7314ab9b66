package bptree

import "testing"

import (
	"bytes"
	"fmt"
)

import (
	"github.com/timtadh/lindex/errors"
)

func TestAddRandom(x *testing.T) {
	t := (*T)(x)
	for TEST := 0; TEST < TESTS; TEST++ {
		bpt := t.bpt(8, 3+TEST%6)
		keys := t.unique_keys(100 + TEST*4)
		for i, k := range keys {
			t.assert_nil(bpt.Add(k, uint64(i), uint32(i+1)))
			e, has, err := bpt.Get(k)
			t.assert_nil(err)
			t.assert(fmt.Sprintf("key %v missing right after its add", k), has)
			t.assert("wrong entry", e.Offset == uint64(i), e.Length == uint32(i+1))
		}
		t.assert_nil(bpt.Verify())
		for i, k := range keys {
			e, has, err := bpt.Get(k)
			t.assert_nil(err)
			t.assert("key missing", has)
			t.assert("wrong entry", e.Offset == uint64(i), e.Length == uint32(i+1))
		}
		var prev []byte
		count := 0
		t.assert_nil(bpt.DoIterate(func(key []byte, e Entry) error {
			if prev != nil {
				t.assert("chain is not strictly ascending", bytes.Compare(prev, key) < 0)
			}
			prev = key
			count++
			return nil
		}))
		t.assert("chain misses keys", count == len(keys))
	}
}

func TestAddDuplicate(x *testing.T) {
	t := (*T)(x)
	bpt := t.bpt(8, 4)
	keys := t.unique_keys(200)
	for i, k := range keys {
		t.assert_nil(bpt.Add(k, uint64(i), 1))
	}
	for i, k := range keys {
		err := bpt.Add(k, 9999, 9999)
		t.assert("duplicate must be refused", errors.Is(err, errors.ErrDuplicateKey))
		e, has, err := bpt.Get(k)
		t.assert_nil(err)
		t.assert("entry must be unchanged", has, e.Offset == uint64(i), e.Length == 1)
	}
	t.assert("size unchanged", bpt.Size() == len(keys))
	t.assert_nil(bpt.Verify())
}

func TestAddDuplicateSeparator(x *testing.T) {
	t := (*T)(x)
	bpt := t.bpt(1, 3)
	for _, k := range "BADC" {
		t.assert_nil(bpt.Add([]byte(string(k)), 0, 1))
	}
	// B and C are separators in the root as well as leaf keys
	for _, k := range "ABCD" {
		err := bpt.Add([]byte(string(k)), 1, 1)
		t.assert("duplicate "+string(k), errors.Is(err, errors.ErrDuplicateKey))
	}
	t.assert("size", bpt.Size() == 4)
	t.assert_nil(bpt.Verify())
}

func TestAddWrongKeySize(x *testing.T) {
	t := (*T)(x)
	bpt := t.bpt(8, 5)
	t.assert("short key", bpt.Add([]byte("short"), 0, 0) != nil)
	t.assert("long key", bpt.Add([]byte("much too long"), 0, 0) != nil)
	t.assert("tree stays empty", bpt.Size() == 0, bpt.root == none)
}

func TestAddCopiesKey(x *testing.T) {
	t := (*T)(x)
	bpt := t.bpt(3, 5)
	key := []byte("abc")
	t.assert_nil(bpt.Add(key, 1, 1))
	key[0] = 'z'
	has, err := bpt.Has([]byte("abc"))
	t.assert_nil(err)
	t.assert("tree must not alias the caller's key", has)
}
