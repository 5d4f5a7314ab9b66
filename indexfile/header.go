package indexfile

import (
	"bytes"
	"strconv"
	"strings"
)

import (
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

// Header is the fixed size metadata block at the start of an index
// file. Every field is blank padded text:
//
//	[0, 256)    name of the indexed data file
//	[257, 260)  key length, decimal
//	[260, 1025) root marker: a blank followed by the first key of the root
//
// The root marker is informational. Loading never depends on it; the
// snapshot always starts at consts.HEADERSIZE.
type Header struct {
	DataFile   string
	KeyLength  int
	RootMarker []byte
}

func blanks(n int) []byte {
	return bytes.Repeat([]byte{' '}, n)
}

// MarshalBinary lays the header out in its consts.HEADERSIZE bytes.
func (h *Header) MarshalBinary() ([]byte, error) {
	if h.DataFile == "" {
		return nil, errors.Kindf(errors.ErrConfig, "data file name is empty")
	}
	if len(h.DataFile) > consts.NAMESIZE {
		return nil, errors.Kindf(errors.ErrConfig,
			"data file name is %v bytes, at most %v fit in the header", len(h.DataFile), consts.NAMESIZE)
	}
	keyLen := strconv.Itoa(h.KeyLength)
	if h.KeyLength <= 0 || len(keyLen) > consts.KEYLENSIZE {
		return nil, errors.Kindf(errors.ErrConfig, "key length %v does not fit in the header", h.KeyLength)
	}
	b := blanks(consts.HEADERSIZE)
	copy(b[consts.NAMEOFFSET:consts.NAMEOFFSET+consts.NAMESIZE], h.DataFile)
	copy(b[consts.KEYLENOFFSET:consts.KEYLENOFFSET+consts.KEYLENSIZE], keyLen)
	if h.RootMarker != nil {
		root := b[consts.ROOTOFFSET+1 : consts.ROOTOFFSET+consts.ROOTSIZE]
		copy(root, h.RootMarker)
	}
	return b, nil
}

// ParseHeader reads a header laid out by MarshalBinary.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < consts.HEADERSIZE {
		return nil, errors.Kindf(errors.ErrMalformedIndex,
			"header is %v bytes, expected %v", len(b), consts.HEADERSIZE)
	}
	name := strings.TrimRight(string(b[consts.NAMEOFFSET:consts.NAMEOFFSET+consts.NAMESIZE]), " \x00")
	if name == "" {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "header has no data file name")
	}
	field := strings.TrimSpace(string(b[consts.KEYLENOFFSET : consts.KEYLENOFFSET+consts.KEYLENSIZE]))
	keyLen, err := strconv.Atoi(field)
	if err != nil || keyLen <= 0 {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "header key length %q is not a positive number", field)
	}
	h := &Header{
		DataFile:  name,
		KeyLength: keyLen,
	}
	root := bytes.TrimRight(b[consts.ROOTOFFSET+1:consts.ROOTOFFSET+consts.ROOTSIZE], " ")
	if len(root) > 0 {
		h.RootMarker = append([]byte(nil), root...)
	}
	return h, nil
}
