package indexfile

import (
	"bytes"
	"encoding/binary"
)

import (
	"github.com/golang/snappy"
	"golang.org/x/crypto/blake2b"
)

import (
	"github.com/timtadh/lindex/consts"
	"github.com/timtadh/lindex/errors"
)

const MAGIC = "LXT1"

// frame header:
//
//	magic     [4]byte
//	flags     uint16
//	rawLen    uint32  length of the tree snapshot
//	payLen    uint32  length of the payload following the frame
//	checksum  [32]byte blake2b-256 of the payload
const frameSize = 4 + 2 + 4 + 4 + blake2b.Size256

var bin = binary.LittleEndian

// the largest snapshot a frame will claim, guards the decode buffer
const maxSnapshot = 1 << 30

func encodeFrame(raw []byte, compress bool) []byte {
	var flags consts.Flag
	payload := raw
	if compress {
		flags |= consts.COMPRESSED
		payload = snappy.Encode(nil, raw)
	}
	sum := blake2b.Sum256(payload)
	b := make([]byte, 0, frameSize+len(payload))
	b = append(b, MAGIC...)
	b = bin.AppendUint16(b, uint16(flags))
	b = bin.AppendUint32(b, uint32(len(raw)))
	b = bin.AppendUint32(b, uint32(len(payload)))
	b = append(b, sum[:]...)
	return append(b, payload...)
}

func decodeFrame(b []byte) (raw []byte, err error) {
	if len(b) < frameSize {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "snapshot frame truncated (%v bytes)", len(b))
	}
	if string(b[:4]) != MAGIC {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "bad snapshot magic %q", b[:4])
	}
	flags := consts.Flag(bin.Uint16(b[4:6]))
	rawLen := int(bin.Uint32(b[6:10]))
	payLen := int(bin.Uint32(b[10:14]))
	sum := b[14:frameSize]
	payload := b[frameSize:]
	if payLen != len(payload) {
		return nil, errors.Kindf(errors.ErrMalformedIndex,
			"snapshot payload is %v bytes, frame says %v", len(payload), payLen)
	}
	actual := blake2b.Sum256(payload)
	if !bytes.Equal(actual[:], sum) {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "snapshot checksum mismatch")
	}
	if rawLen > maxSnapshot {
		return nil, errors.Kindf(errors.ErrMalformedIndex, "snapshot length %v is too large", rawLen)
	}
	if flags&consts.COMPRESSED == 0 {
		raw = payload
	} else {
		n, err := snappy.DecodedLen(payload)
		if err != nil || n != rawLen {
			return nil, errors.Kindf(errors.ErrMalformedIndex, "compressed snapshot has a bad length")
		}
		raw, err = snappy.Decode(nil, payload)
		if err != nil {
			return nil, errors.Kindf(errors.ErrMalformedIndex, "snapshot: %v", err)
		}
	}
	if len(raw) != rawLen {
		return nil, errors.Kindf(errors.ErrMalformedIndex,
			"snapshot is %v bytes, frame says %v", len(raw), rawLen)
	}
	return raw, nil
}
