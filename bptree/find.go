package bptree

import (
	"bytes"
)

type keyed interface {
	key(i int) []byte
	keyCount() int
}

// find returns the index of key in keys if it is there, otherwise the
// index it would be inserted at.
func find(keys keyed, key []byte) (int, bool) {
	var l int = 0
	var r int = keys.keyCount() - 1
	var m int
	for l <= r {
		m = ((r - l) >> 1) + l
		cmp := bytes.Compare(key, keys.key(m))
		if cmp < 0 {
			r = m - 1
		} else if cmp == 0 {
			return m, true
		} else {
			l = m + 1
		}
	}
	return l, false
}

// splitPoint is the left biased midpoint of a node holding size keys.
func splitPoint(size int) int {
	if size%2 == 0 {
		return size/2 - 1
	}
	return size / 2
}
