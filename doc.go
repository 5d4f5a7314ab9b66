/*
Line Index

A secondary index over a flat, line oriented text file. The first
KeyLength bytes of every line are the line's key. The index maps each
key to where the line lives in the data file (its byte offset and
length) so a record can be found without scanning the file, and a run
of records can be listed in key order starting at any key.

The index is a B+ Tree (package bptree) held entirely in memory while
in use. On disk (package indexfile) it is a fixed size text header
naming the data file and the key length followed by a snapshot of the
whole tree. Every change rewrites the index file as a whole, and the
rewrite either completes or leaves the old file in place.

The major components of this project:

1. bptree - the tree: node arena, search, insertion and node splitting,
the leaf chain used for ordered listing, structural verification and
the snapshot encoding.

2. indexfile - the index file: header codec, snapshot framing with
snappy compression and a blake2b checksum, atomic save and load.

3. datafile - scanning, reading and appending lines of the data file.

4. errors - error kinds plus a stack trace with every error.

5. lindex-cli - a command line front end.

Creating an index

	stats, err := lindex.CreateIndex(&lindex.Config{KeyLength: 8}, "data.txt", "data.idx")

Looking things up

	idx, err := lindex.Open("data.idx", nil)
	if err != nil {
		// handle error
	}
	rec, has, err := idx.Find([]byte("00000042"))
	has, err = idx.DoList([]byte("00000042"), 10, func(rec *lindex.Record) error {
		fmt.Println(string(rec.Data))
		return nil
	})

Adding a record appends it to the data file and rewrites the index

	rec, err := idx.Insert([]byte("00000043 the record text"))

*/
package lindex
