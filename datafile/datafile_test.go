package datafile

import "testing"

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

import (
	"github.com/timtadh/lindex/errors"
)

type T testing.T

func (t *T) assert(msg string, oks ...bool) {
	for _, ok := range oks {
		if !ok {
			t.Log("\n" + string(debug.Stack()))
			t.Error(msg)
			t.Fatal("assert failed")
		}
	}
}

func (t *T) assert_nil(errors ...error) {
	for _, err := range errors {
		if err != nil {
			t.Log("\n" + string(debug.Stack()))
			t.Fatal(err)
		}
	}
}

func (t *T) file(contents string) *DataFile {
	path := filepath.Join(t.TempDir(), "data.txt")
	t.assert_nil(os.WriteFile(path, []byte(contents), 0644))
	return New(path)
}

type line struct {
	text   string
	offset uint64
}

func (t *T) scan(df *DataFile) []line {
	var lines []line
	t.assert_nil(df.Scan(func(l []byte, offset uint64) error {
		lines = append(lines, line{string(l), offset})
		return nil
	}))
	return lines
}

func TestScan(x *testing.T) {
	t := (*T)(x)
	cases := []struct {
		contents string
		want     []line
	}{
		{"", nil},
		{"abc\n", []line{{"abc", 0}}},
		{"abc\ndefg\n", []line{{"abc", 0}, {"defg", 4}}},
		{"abc\r\ndefg\r\nhi", []line{{"abc", 0}, {"defg", 5}, {"hi", 11}}},
		{"abc\n\nxy\n", []line{{"abc", 0}, {"", 4}, {"xy", 5}}},
		{"no newline", []line{{"no newline", 0}}},
	}
	for _, c := range cases {
		got := t.scan(t.file(c.contents))
		t.assert(fmt.Sprintf("scan(%q) = %v, want %v", c.contents, got, c.want),
			fmt.Sprint(got) == fmt.Sprint(c.want))
	}
}

func TestScanLongLines(x *testing.T) {
	t := (*T)(x)
	long := strings.Repeat("x", 200*1024)
	df := t.file("a\n" + long + "\nb\n")
	got := t.scan(df)
	t.assert("three lines", len(got) == 3)
	t.assert("long line whole", got[1].text == long, got[1].offset == 2)
	t.assert("offset after the long line", got[2].offset == uint64(2+len(long)+1))
}

func TestScanOffsetsReadBack(x *testing.T) {
	t := (*T)(x)
	df := t.file("key01 first\r\nkey02 second\nkey03 third")
	t.assert_nil(df.Scan(func(l []byte, offset uint64) error {
		b, err := df.ReadAt(offset, uint32(len(l)))
		t.assert_nil(err)
		t.assert("read back "+string(l), string(b) == string(l))
		return nil
	}))
}

func TestScanStops(x *testing.T) {
	t := (*T)(x)
	df := t.file("a\nb\nc\n")
	stop := fmt.Errorf("stop")
	count := 0
	err := df.Scan(func(l []byte, offset uint64) error {
		count++
		return stop
	})
	t.assert("stopped", err == stop, count == 1)
}

func TestReadAtShort(x *testing.T) {
	t := (*T)(x)
	df := t.file("0123456789")
	b, err := df.ReadAt(8, 2)
	t.assert_nil(err)
	t.assert("tail", string(b) == "89")
	_, err = df.ReadAt(8, 3)
	t.assert("short read", errors.Is(err, errors.ErrIO))
	_, err = df.ReadAt(100, 1)
	t.assert("past the end", errors.Is(err, errors.ErrIO))
}

func TestMissing(x *testing.T) {
	t := (*T)(x)
	df := New(filepath.Join(t.TempDir(), "missing.txt"))
	err := df.Scan(func([]byte, uint64) error { return nil })
	t.assert("scan", errors.Is(err, errors.ErrIO), errors.Is(err, os.ErrNotExist))
	_, err = df.ReadAt(0, 1)
	t.assert("read", errors.Is(err, errors.ErrIO))
	_, err = df.Size()
	t.assert("size", errors.Is(err, errors.ErrIO))
}

func TestAppend(x *testing.T) {
	t := (*T)(x)
	df := t.file("abc\n")
	off, err := df.Append([]byte("defg"))
	t.assert_nil(err)
	t.assert("offset after a terminated line", off == 4)
	b, err := os.ReadFile(df.Path())
	t.assert_nil(err)
	t.assert("contents", string(b) == "abc\ndefg\n")
}

func TestAppendUnterminated(x *testing.T) {
	t := (*T)(x)
	df := t.file("abc")
	off, err := df.Append([]byte("xyz"))
	t.assert_nil(err)
	t.assert(fmt.Sprintf("offset skips the added newline, got %v", off), off == 4)
	b, err := df.ReadAt(off, 3)
	t.assert_nil(err)
	t.assert("record", string(b) == "xyz")
	got := t.scan(df)
	t.assert("scan agrees", fmt.Sprint(got) == fmt.Sprint([]line{{"abc", 0}, {"xyz", 4}}))
}

func TestAppendCreates(x *testing.T) {
	t := (*T)(x)
	df := New(filepath.Join(t.TempDir(), "new.txt"))
	off, err := df.Append([]byte("first"))
	t.assert_nil(err)
	t.assert("first offset", off == 0)
	size, err := df.Size()
	t.assert_nil(err)
	t.assert("size", size == 6)
}

func TestAppendRejectsNewline(x *testing.T) {
	t := (*T)(x)
	df := t.file("abc\n")
	_, err := df.Append([]byte("two\nlines"))
	t.assert("newline", err != nil)
	_, err = df.Append([]byte("cr\r"))
	t.assert("carriage return", err != nil)
	size, err := df.Size()
	t.assert_nil(err)
	t.assert("file untouched", size == 4)
}
