package lindex

import (
	"go.uber.org/zap"
)

import (
	"github.com/timtadh/lindex/bptree"
	"github.com/timtadh/lindex/datafile"
	"github.com/timtadh/lindex/errors"
	"github.com/timtadh/lindex/indexfile"
)

// Stats summarize a CreateIndex run.
type Stats struct {
	Lines      int // lines read
	Indexed    int // lines added to the index
	Duplicates int // lines whose key was already indexed, skipped
	Blank      int // empty lines, skipped
	Height     int
	Degree     int
	Bytes      int // size of the index file
}

// CreateIndex indexes every line of dataFile and writes the index to
// indexFile, replacing it if it exists. Empty lines and lines whose key
// was seen before are skipped (and counted); a line shorter than the key
// length fails the whole run with errors.ErrShortRecord.
func CreateIndex(cfg *Config, dataFile, indexFile string) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	log := cfg.Logger.With(zap.String("index", indexFile), zap.String("data", dataFile))
	degree, err := cfg.degree()
	if err != nil {
		return nil, err
	}
	h := &indexfile.Header{DataFile: dataFile, KeyLength: cfg.KeyLength}
	if _, err := h.MarshalBinary(); err != nil {
		return nil, err
	}
	bpt, err := bptree.New(cfg.KeyLength, degree)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Degree: degree}
	data := datafile.New(dataFile)
	err = data.Scan(func(line []byte, offset uint64) error {
		stats.Lines++
		if len(line) == 0 {
			stats.Blank++
			return nil
		}
		if len(line) < cfg.KeyLength {
			return errors.Kindf(errors.ErrShortRecord,
				"line %v at offset %v is %v bytes, keys are %v", stats.Lines, offset, len(line), cfg.KeyLength)
		}
		err := bpt.Add(line[:cfg.KeyLength], offset, uint32(len(line)))
		if errors.Is(err, errors.ErrDuplicateKey) {
			stats.Duplicates++
			log.Warn("skipping duplicate key",
				zap.Int("line", stats.Lines),
				zap.Uint64("offset", offset),
				zap.ByteString("key", line[:cfg.KeyLength]))
			return nil
		} else if err != nil {
			return err
		}
		stats.Indexed++
		return nil
	})
	if err != nil {
		return nil, err
	}
	n, err := indexfile.Save(indexFile, h, bpt, !cfg.Uncompressed)
	if err != nil {
		return nil, err
	}
	stats.Height = bpt.Height()
	stats.Bytes = n
	log.Info("created index",
		zap.Int("lines", stats.Lines),
		zap.Int("indexed", stats.Indexed),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("blank", stats.Blank),
		zap.Int("degree", stats.Degree),
		zap.Int("height", stats.Height),
		zap.Int("bytes", stats.Bytes))
	return stats, nil
}

// Find looks key up in the index file at indexFile. A missing key is
// errors.ErrNotFound.
func Find(indexFile string, key []byte) (*Record, error) {
	idx, err := Open(indexFile, nil)
	if err != nil {
		return nil, err
	}
	rec, has, err := idx.Find(key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.Kindf(errors.ErrNotFound, "key %q", key)
	}
	return rec, nil
}

// List reads at most count records in key order starting at key from
// the index file at indexFile. A missing start key is errors.ErrNotFound.
func List(indexFile string, key []byte, count int) ([]*Record, error) {
	idx, err := Open(indexFile, nil)
	if err != nil {
		return nil, err
	}
	var records []*Record
	has, err := idx.DoList(key, count, func(rec *Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.Kindf(errors.ErrNotFound, "key %q", key)
	}
	return records, nil
}

// Insert loads the index file at indexFile, inserts record and saves it.
func Insert(indexFile string, record []byte) (*Record, error) {
	idx, err := Open(indexFile, nil)
	if err != nil {
		return nil, err
	}
	return idx.Insert(record)
}
