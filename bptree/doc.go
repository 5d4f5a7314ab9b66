/*
An In-Memory B+ Tree Index

This is the engine behind lindex. It maps fixed size keys to the
location (byte offset and length) of a record in some other file. It
is not thread safe.

Features:

1. Fixed size keys compared with bytes.Compare. The key size is set
when the tree is made.

2. Unique keys. Adding a key twice is an error (errors.ErrDuplicateKey)
and does not touch the tree.

3. All entries live in the leaves, which are doubly linked so ordered
scans never go back up the tree.

4. The whole tree can be written out as one snapshot (MarshalBinary)
and read back (Unmarshal). There is no incremental persistence.

Making a tree

	degree, err := bptree.Degree(consts.BLOCKSIZE, 8)
	if err != nil {
		log.Fatal(err)
	}
	bpt, err := bptree.New(8, degree)
	if err != nil {
		log.Fatal(err)
	}

Adding and finding

	err = bpt.Add([]byte("00000042"), offset, length)
	if errors.Is(err, errors.ErrDuplicateKey) {
		// already indexed
	} else if err != nil {
		log.Fatal(err)
	}
	e, has, err := bpt.Get([]byte("00000042"))

Listing the 10 entries starting at a key

	has, err := bpt.DoRange(key, 10, func(key []byte, e bptree.Entry) error {
		// do stuff with each key and entry
		return nil
	})

*/
package bptree
