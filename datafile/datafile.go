package datafile

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
)

import (
	"github.com/timtadh/lindex/errors"
)

// DataFile is the line oriented text file an index points into. A
// record is one line. Its offset is the position of the line's first
// byte and its length excludes the line terminator ("\n" or "\r\n").
type DataFile struct {
	path string
}

func New(path string) *DataFile {
	return &DataFile{path: filepath.Clean(path)}
}

func (self *DataFile) Path() string {
	return self.path
}

func (self *DataFile) Size() (uint64, error) {
	fi, err := os.Stat(self.path)
	if err != nil {
		return 0, errors.IO("stat", self.path, err)
	}
	return uint64(fi.Size()), nil
}

// Scan calls do with every line of the file and the offset of its first
// byte. The line excludes its terminator and is only valid until do
// returns. A final line without a terminator is included. An error from
// do stops the scan and is returned.
func (self *DataFile) Scan(do func(line []byte, offset uint64) error) error {
	f, err := os.Open(self.path)
	if err != nil {
		return errors.IO("open", self.path, err)
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 64*1024)
	var offset uint64
	var long []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			long = append(long, chunk...)
			continue
		} else if err != nil && err != io.EOF {
			return errors.IO("read", self.path, err)
		}
		line := chunk
		if long != nil {
			line = append(long, chunk...)
			long = nil
		}
		if len(line) == 0 && err == io.EOF {
			return nil
		}
		size := uint64(len(line))
		if err := do(trimEOL(line), offset); err != nil {
			return err
		}
		offset += size
		if err == io.EOF {
			return nil
		}
	}
}

func trimEOL(line []byte) []byte {
	if bytes.HasSuffix(line, []byte("\n")) {
		line = line[:len(line)-1]
		if bytes.HasSuffix(line, []byte("\r")) {
			line = line[:len(line)-1]
		}
	}
	return line
}

// ReadAt reads length bytes starting at offset. Hitting the end of the
// file first is an i/o error.
func (self *DataFile) ReadAt(offset uint64, length uint32) ([]byte, error) {
	f, err := os.Open(self.path)
	if err != nil {
		return nil, errors.IO("open", self.path, err)
	}
	defer f.Close()
	b := make([]byte, length)
	n, err := f.ReadAt(b, int64(offset))
	if n == len(b) {
		return b, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return nil, errors.IO("read", self.path, err)
}

// Append adds record as a new line at the end of the file, which is
// created if needed. When the file does not end with a newline one is
// written first. It returns the offset of the record's first byte.
func (self *DataFile) Append(record []byte) (offset uint64, err error) {
	if bytes.ContainsAny(record, "\r\n") {
		return 0, errors.Errorf("a record can not contain a line terminator")
	}
	f, err := os.OpenFile(self.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return 0, errors.IO("open", self.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.IO("close", self.path, cerr)
		}
	}()
	fi, err := f.Stat()
	if err != nil {
		return 0, errors.IO("stat", self.path, err)
	}
	end := fi.Size()
	buf := make([]byte, 0, len(record)+2)
	if end > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, end-1); err != nil {
			return 0, errors.IO("read", self.path, err)
		}
		if last[0] != '\n' {
			buf = append(buf, '\n')
		}
	}
	offset = uint64(end) + uint64(len(buf))
	buf = append(buf, record...)
	buf = append(buf, '\n')
	if _, err := f.WriteAt(buf, end); err != nil {
		return 0, errors.IO("write", self.path, err)
	}
	if err := f.Sync(); err != nil {
		return 0, errors.IO("sync", self.path, err)
	}
	return offset, nil
}
