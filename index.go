package lindex

import (
	"bytes"
	"io"
)

import (
	"go.uber.org/zap"
)

import (
	"github.com/timtadh/lindex/bptree"
	"github.com/timtadh/lindex/datafile"
	"github.com/timtadh/lindex/errors"
	"github.com/timtadh/lindex/indexfile"
)

var _ Searcher = (*Index)(nil)
var _ Inserter = (*Index)(nil)

// Index is an index file loaded into memory together with the data file
// it points into. It is not safe for concurrent use.
type Index struct {
	path   string
	header *indexfile.Header
	bpt    *bptree.BpTree
	data   *datafile.DataFile
	cfg    *Config
	log    *zap.Logger
}

// Open loads the index file at path. cfg may be nil.
func Open(path string, cfg *Config) (*Index, error) {
	cfg = cfg.withDefaults()
	h, bpt, n, err := indexfile.Load(path, cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	if cfg.KeyLength != 0 && cfg.KeyLength != h.KeyLength {
		return nil, errors.Kindf(errors.ErrConfig,
			"%v has %v byte keys, expected %v", path, h.KeyLength, cfg.KeyLength)
	}
	cfg.KeyLength = h.KeyLength
	log := cfg.Logger.With(zap.String("index", path))
	log.Debug("loaded index",
		zap.String("data", h.DataFile),
		zap.Int("bytes", n),
		zap.Int("keys", bpt.Size()),
		zap.Int("height", bpt.Height()))
	return &Index{
		path:   path,
		header: h,
		bpt:    bpt,
		data:   datafile.New(h.DataFile),
		cfg:    cfg,
		log:    log,
	}, nil
}

func (self *Index) Path() string {
	return self.path
}

// Header is a copy of the metadata header as it was loaded.
func (self *Index) Header() indexfile.Header {
	return *self.header
}

func (self *Index) KeyLength() int {
	return self.header.KeyLength
}

// How many records are indexed?
func (self *Index) Size() int {
	return self.bpt.Size()
}

func (self *Index) Height() int {
	return self.bpt.Height()
}

func (self *Index) checkKey(key []byte) error {
	if len(key) != self.KeyLength() {
		return errors.Errorf("key %q is %v bytes, the index uses %v byte keys",
			key, len(key), self.KeyLength())
	}
	return nil
}

func (self *Index) record(key []byte, e bptree.Entry) (*Record, error) {
	data, err := self.data.ReadAt(e.Offset, e.Length)
	if err != nil {
		return nil, err
	}
	return &Record{
		Key:    key,
		Offset: e.Offset,
		Length: e.Length,
		Data:   data,
	}, nil
}

// Find the record with the given key. has is false when there is none.
func (self *Index) Find(key []byte) (rec *Record, has bool, err error) {
	if err := self.checkKey(key); err != nil {
		return nil, false, err
	}
	e, has, err := self.bpt.Get(key)
	if err != nil || !has {
		return nil, false, err
	}
	rec, err = self.record(append([]byte(nil), key...), e)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// List at most count records in key order starting with the record
// whose key is key. has is false when key is not indexed.
func (self *Index) List(key []byte, count int) (it RecordIterator, has bool, err error) {
	if err := self.checkKey(key); err != nil {
		return nil, false, err
	}
	ei, has, err := self.bpt.Range(key, count)
	if err != nil || !has {
		return nil, false, err
	}
	var records RecordIterator
	records = func() (*Record, error, RecordIterator) {
		var k []byte
		var e bptree.Entry
		var err error
		k, e, err, ei = ei()
		if err != nil {
			return nil, err, nil
		}
		if ei == nil {
			return nil, nil, nil
		}
		rec, err := self.record(k, e)
		if err != nil {
			return nil, err, nil
		}
		return rec, nil, records
	}
	return records, true, nil
}

// DoList is List with a callback. An error from do stops the listing
// and is returned.
func (self *Index) DoList(key []byte, count int, do func(*Record) error) (has bool, err error) {
	err = Do(func() (RecordIterator, error) {
		it, found, err := self.List(key, count)
		has = found
		if err == nil && !found {
			return emptyRecords, nil
		}
		return it, err
	}, do)
	return has, err
}

func emptyRecords() (*Record, error, RecordIterator) {
	return nil, nil, nil
}

// Insert appends record to the data file, adds it to the tree and
// rewrites the index file. The key is the first KeyLength bytes of the
// record. A key which is already indexed fails with
// errors.ErrDuplicateKey before either file is touched.
func (self *Index) Insert(record []byte) (*Record, error) {
	if len(record) < self.KeyLength() {
		return nil, errors.Kindf(errors.ErrShortRecord,
			"record is %v bytes, keys are %v", len(record), self.KeyLength())
	}
	key := append([]byte(nil), record[:self.KeyLength()]...)
	has, err := self.bpt.Has(key)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, errors.Kindf(errors.ErrDuplicateKey, "key %q", key)
	}
	offset, err := self.data.Append(record)
	if err != nil {
		return nil, err
	}
	length := uint32(len(record))
	committed, err := self.bpt.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := self.bpt.Add(key, offset, length); err != nil {
		return nil, err
	}
	if err := self.save(); err != nil {
		if rerr := self.rollback(committed); rerr != nil {
			return nil, errors.Wrapf(err, "rolling back also failed: %v", rerr)
		}
		return nil, err
	}
	self.log.Info("inserted record",
		zap.ByteString("key", key),
		zap.Uint64("offset", offset),
		zap.Uint32("length", length))
	return &Record{
		Key:    key,
		Offset: offset,
		Length: length,
		Data:   append([]byte(nil), record...),
	}, nil
}

// rollback puts the tree back to a snapshot taken before a change which
// could not be saved.
func (self *Index) rollback(committed []byte) error {
	bpt, err := bptree.Unmarshal(committed, self.bpt.KeySize(), self.bpt.Degree())
	if err != nil {
		return err
	}
	self.bpt = bpt
	return nil
}

func (self *Index) save() error {
	n, err := indexfile.Save(self.path, self.header, self.bpt, !self.cfg.Uncompressed)
	if err != nil {
		return err
	}
	self.header.RootMarker = self.bpt.RootKey()
	self.log.Debug("saved index", zap.Int("bytes", n), zap.Int("keys", self.bpt.Size()))
	return nil
}

// Verify checks the structure of the tree and that every entry points
// at a line of the data file starting with its key.
func (self *Index) Verify() error {
	if err := self.bpt.Verify(); err != nil {
		return errors.Wrapf(err, "%v", self.path)
	}
	size, err := self.data.Size()
	if err != nil {
		return err
	}
	return self.bpt.DoIterate(func(key []byte, e bptree.Entry) error {
		if e.Offset+uint64(e.Length) > size {
			return errors.Errorf("record %q at %v+%v is past the end of %v (%v bytes)",
				key, e.Offset, e.Length, self.data.Path(), size)
		}
		rec, err := self.record(key, e)
		if err != nil {
			return err
		}
		if !bytes.HasPrefix(rec.Data, key) {
			return errors.Errorf("record at %v does not start with its key %q", e.Offset, key)
		}
		return nil
	})
}

// Dump writes the tree one node per line, indented by depth.
func (self *Index) Dump(w io.Writer) error {
	return self.bpt.Dump(w)
}
