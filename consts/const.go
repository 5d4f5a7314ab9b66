package consts

type Flag uint8

// BLOCKSIZE is the disk block budget a node is planned against. The
// metadata header of an index file occupies one block (plus the
// separator byte at HEADERSIZE-1).
const BLOCKSIZE = 1024

// per key overhead: an 8 byte offset and an 8 byte length slot
const ENTRYSIZE = 16

// fixed per node overhead
const NODEMETASIZE = 8

// minimum degree a tree can be planned with
const MINDEGREE = 3

// Index file metadata header layout.
const (
	NAMEOFFSET   = 0
	NAMESIZE     = 256
	KEYLENOFFSET = 257
	KEYLENSIZE   = 3
	ROOTOFFSET   = 260
	HEADERSIZE   = BLOCKSIZE + 1
	ROOTSIZE     = HEADERSIZE - ROOTOFFSET
)

const (
	INTERNAL Flag = 1 << iota
	LEAF
	COMPRESSED
)
