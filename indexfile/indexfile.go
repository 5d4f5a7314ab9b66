package indexfile

import (
	"io"
	"os"
	"path/filepath"
)

import (
	"github.com/timtadh/lindex/bptree"
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

// Save writes the header and a snapshot of bpt to path, replacing the
// file as a whole. The new contents go to a temporary file in the same
// directory which is synced and renamed over path, so a failed Save
// leaves the previous index in place. It returns the number of bytes
// written.
func Save(path string, h *Header, bpt *bptree.BpTree, compress bool) (n int, err error) {
	if h.KeyLength != bpt.KeySize() {
		return 0, errors.Kindf(errors.ErrConfig,
			"header key length %v does not match the tree's %v", h.KeyLength, bpt.KeySize())
	}
	hdr := *h
	hdr.RootMarker = bpt.RootKey()
	head, err := hdr.MarshalBinary()
	if err != nil {
		return 0, err
	}
	raw, err := bpt.MarshalBinary()
	if err != nil {
		return 0, err
	}
	body := encodeFrame(raw, compress)
	err = atomicWrite(path, head, body)
	if err != nil {
		return 0, err
	}
	return len(head) + len(body), nil
}

func atomicWrite(path string, blocks ...[]byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.IO("create", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	for _, b := range blocks {
		if _, err := f.Write(b); err != nil {
			return errors.IO("write", tmp, err)
		}
	}
	if err := f.Sync(); err != nil {
		return errors.IO("sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		return errors.IO("close", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.IO("rename", path, err)
	}
	return nil
}

// ReadHeader reads only the metadata header of the index at path.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO("open", path, err)
	}
	defer f.Close()
	b := make([]byte, consts.HEADERSIZE)
	if _, err := io.ReadFull(f, b); err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "%v is too short for an index header", path)
	} else if err != nil {
		return nil, errors.IO("read", path, err)
	}
	return ParseHeader(b)
}

// Load reads the index at path. The tree's degree is planned from the
// header's key length and blockSize. It returns the header, the tree
// and the size of the file.
func Load(path string, blockSize int) (h *Header, bpt *bptree.BpTree, n int, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, 0, errors.IO("read", path, err)
	}
	h, err = ParseHeader(b)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "%v", path)
	}
	degree, err := bptree.Degree(blockSize, h.KeyLength)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "%v", path)
	}
	raw, err := decodeFrame(b[consts.HEADERSIZE:])
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "%v", path)
	}
	bpt, err = bptree.Unmarshal(raw, h.KeyLength, degree)
	if err != nil {
		return nil, nil, 0, errors.Wrapf(err, "%v", path)
	}
	return h, bpt, len(b), nil
}
