package bptree

import (
	"github.com/timtadh/lindex/errors"
)

// This type of iterator walks the leaf chain in ascending key order.
type Iterator func() (key []byte, e Entry, err error, it Iterator)

func doIter(run func() (Iterator, error), do func(key []byte, e Entry) error) error {
	it, err := run()
	if err != nil {
		return err
	}
	var key []byte
	var e Entry
	for key, e, err, it = it(); it != nil; key, e, err, it = it() {
		if err := do(key, e); err != nil {
			return err
		}
	}
	return err
}

// Get the entry stored under key. has is false when the key is not in
// the tree; err is only set for a key of the wrong size or a damaged
// tree.
func (self *BpTree) Get(key []byte) (e Entry, has bool, err error) {
	a, i, has, err := self.getStart(key)
	if err != nil || !has {
		return Entry{}, false, err
	}
	err = self.doLeaf(a, func(n *leaf) error {
		e = n.entry(i)
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// getStart descends to the leaf which would hold key. It returns the
// leaf and the position of key in it (or where it would go).
func (self *BpTree) getStart(key []byte) (a nodeID, i int, has bool, err error) {
	if err := self.checkKey(key); err != nil {
		return none, 0, false, err
	}
	a = self.root
	for a != none {
		var next nodeID = none
		err = self.do(
			a,
			func(n *internal) error {
				next = n.ptrs[n.route(key)]
				return nil
			},
			func(n *leaf) error {
				i, has = find(n, key)
				return nil
			},
		)
		if err != nil {
			return none, 0, false, err
		}
		if next == none {
			return a, i, has, nil
		}
		a = next
	}
	return none, 0, false, nil
}

// Iterate over every key and entry in the tree in ascending order.
//
// 	it, err := bpt.Iterate()
// 	if err != nil {
// 		// handle error
// 	}
// 	var key []byte // must be declared here
// 	var e Entry
// 	for key, e, err, it = it(); it != nil; key, e, err, it = it() {
// 		// do something with each key and entry
// 	}
// 	if err != nil {
// 		// handle error
// 	}
//
// The keys handed out are copies.
func (self *BpTree) Iterate() (it Iterator, err error) {
	a, err := self.firstLeaf()
	if err != nil {
		return nil, err
	}
	return self.forward(a, 0, -1), nil
}

// DoIterate calls do for every key and entry in ascending order. An error
// from do stops the iteration and is returned.
func (self *BpTree) DoIterate(do func(key []byte, e Entry) error) error {
	return doIter(
		func() (Iterator, error) { return self.Iterate() },
		do,
	)
}

// Range iterates over at most count entries starting at key, which must
// be in the tree. has is false, and it nil, when key is absent. Fewer
// than count entries come out when the leaf chain runs out first.
func (self *BpTree) Range(key []byte, count int) (it Iterator, has bool, err error) {
	if count < 1 {
		return nil, false, errors.Errorf("count must be at least 1, got %v", count)
	}
	a, i, has, err := self.getStart(key)
	if err != nil || !has {
		return nil, false, err
	}
	return self.forward(a, i, count), true, nil
}

// DoRange is Range with a callback, see DoIterate.
func (self *BpTree) DoRange(key []byte, count int, do func(key []byte, e Entry) error) (has bool, err error) {
	err = doIter(
		func() (Iterator, error) {
			it, found, err := self.Range(key, count)
			has = found
			if err == nil && !found {
				return empty, nil
			}
			return it, err
		},
		do,
	)
	return has, err
}

func empty() ([]byte, Entry, error, Iterator) {
	return nil, Entry{}, nil, nil
}

// forward walks the chain from entry i of leaf a. A negative count
// means no limit.
func (self *BpTree) forward(a nodeID, i int, count int) (it Iterator) {
	it = func() (key []byte, e Entry, err error, _ Iterator) {
		for count != 0 && a != none {
			var next nodeID = none
			var found bool
			err = self.doLeaf(a, func(n *leaf) error {
				if i < n.keyCount() {
					key = copyKey(n.key(i))
					e = n.entry(i)
					found = true
					i++
					return nil
				}
				next = n.next
				return nil
			})
			if err != nil {
				return nil, Entry{}, err, nil
			}
			if found {
				if count > 0 {
					count--
				}
				return key, e, nil, it
			}
			a, i = next, 0
		}
		return nil, Entry{}, nil, nil
	}
	return it
}
