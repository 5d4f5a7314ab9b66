package bptree

import "testing"

func (t *T) corruptible() *BpTree {
	bpt := t.letters(3, "ihgfedcba")
	t.assert_nil(bpt.Verify())
	return bpt
}

func (t *T) someLeaf(bpt *BpTree) (nodeID, *leaf) {
	a, err := bpt.firstLeaf()
	t.assert_nil(err)
	n := bpt.nodes[a].(*leaf)
	t.assert("first leaf has a next", n.next != none)
	return n.next, bpt.nodes[n.next].(*leaf)
}

func TestVerifyParent(x *testing.T) {
	t := (*T)(x)
	bpt := t.corruptible()
	a, n := t.someLeaf(bpt)
	n.parent = a
	t.assert("bad parent must be found", bpt.Verify() != nil)
}

func TestVerifyChain(x *testing.T) {
	t := (*T)(x)
	bpt := t.corruptible()
	_, n := t.someLeaf(bpt)
	n.next = none
	t.assert("broken chain must be found", bpt.Verify() != nil)

	bpt = t.corruptible()
	_, n = t.someLeaf(bpt)
	n.prev = none
	t.assert("broken back link must be found", bpt.Verify() != nil)
}

func TestVerifyOrder(x *testing.T) {
	t := (*T)(x)
	bpt := t.corruptible()
	_, n := t.someLeaf(bpt)
	n.keys = append(n.keys, []byte("a"))
	n.offsets = append(n.offsets, 0)
	n.lengths = append(n.lengths, 0)
	bpt.count++
	t.assert("out of order key must be found", bpt.Verify() != nil)
}

func TestVerifyCount(x *testing.T) {
	t := (*T)(x)
	bpt := t.corruptible()
	bpt.count++
	t.assert("wrong count must be found", bpt.Verify() != nil)
}

func TestVerifyBounds(x *testing.T) {
	t := (*T)(x)
	bpt := t.corruptible()
	a, err := bpt.firstLeaf()
	t.assert_nil(err)
	n := bpt.nodes[a].(*leaf)
	// the first leaf only holds keys below the first separator
	n.keys[len(n.keys)-1] = []byte("z")
	t.assert("key above its bound must be found", bpt.Verify() != nil)
}
