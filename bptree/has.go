package bptree

// Check for the existence of a given key.
func (self *BpTree) Has(key []byte) (has bool, err error) {
	_, _, has, err = self.getStart(key)
	return has, err
}
