package bptree

import (
	"fmt"
	"io"
	"strings"
)

// DoLeaves calls do for each leaf in chain order with its keys and
// entries. The slices are copies.
func (self *BpTree) DoLeaves(do func(keys [][]byte, entries []Entry) error) error {
	a, err := self.firstLeaf()
	if err != nil {
		return err
	}
	for a != none {
		var keys [][]byte
		var entries []Entry
		var next nodeID
		err = self.doLeaf(a, func(n *leaf) error {
			for i := 0; i < n.keyCount(); i++ {
				keys = append(keys, copyKey(n.key(i)))
				entries = append(entries, n.entry(i))
			}
			next = n.next
			return nil
		})
		if err != nil {
			return err
		}
		if err := do(keys, entries); err != nil {
			return err
		}
		a = next
	}
	return nil
}

// Dump writes the tree level by level, one node per line. Meant for
// debugging.
func (self *BpTree) Dump(w io.Writer) error {
	var dump func(a nodeID, depth int) error
	dump = func(a nodeID, depth int) error {
		indent := strings.Repeat("  ", depth)
		return self.do(
			a,
			func(n *internal) error {
				_, err := fmt.Fprintf(w, "%v%v %v\n", indent, a, n)
				if err != nil {
					return err
				}
				for _, c := range n.ptrs {
					if err := dump(c, depth+1); err != nil {
						return err
					}
				}
				return nil
			},
			func(n *leaf) error {
				_, err := fmt.Fprintf(w, "%v%v %v\n", indent, a, n)
				return err
			},
		)
	}
	if self.root == none {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}
	return dump(self.root, 0)
}
