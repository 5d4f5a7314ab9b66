package lindex

import (
	"fmt"
)

// Record is one line of the data file as located by the index.
type Record struct {
	Key    []byte
	Offset uint64
	Length uint32
	Data   []byte
}

func (r *Record) String() string {
	return fmt.Sprintf("%q @ %v+%v", r.Key, r.Offset, r.Length)
}

// Searcher is the read side of an index.
type Searcher interface {
	Find(key []byte) (*Record, bool, error)
	List(key []byte, count int) (RecordIterator, bool, error)
	DoList(key []byte, count int, do func(*Record) error) (bool, error)
	Size() int
}

// Inserter is the write side of an index.
type Inserter interface {
	Insert(record []byte) (*Record, error)
}

type RecordIterator func() (*Record, error, RecordIterator)

func Do(run func() (RecordIterator, error), do func(*Record) error) error {
	it, err := run()
	if err != nil {
		return err
	}
	var rec *Record
	for rec, err, it = it(); it != nil; rec, err, it = it() {
		e := do(rec)
		if e != nil {
			return e
		}
	}
	return err
}
