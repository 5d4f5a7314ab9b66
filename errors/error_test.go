package errors

import "testing"

import (
	"fmt"
	"io"
	"os"
)

func TestKindf(t *testing.T) {
	err := Kindf(ErrDuplicateKey, "key %q", "abc")
	if !Is(err, ErrDuplicateKey) {
		t.Fatal("expected the kind to survive")
	}
	if Is(err, ErrNotFound) {
		t.Fatal("matched the wrong kind")
	}
	if err.Error() != `key "abc": duplicate key` {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !Is(Wrapf(err, "outer %v", 1), ErrDuplicateKey) {
		t.Fatal("wrapping lost the kind")
	}
}

func TestIO(t *testing.T) {
	if IO("read", "x", nil) != nil {
		t.Fatal("nil must stay nil")
	}
	err := IO("open", "/no/such", os.ErrNotExist)
	if !Is(err, ErrIO) || !Is(err, os.ErrNotExist) {
		t.Fatal("expected ErrIO and the os error")
	}
	var ioe *IOError
	if !As(err, &ioe) || ioe.Op != "open" || ioe.Path != "/no/such" {
		t.Fatalf("bad IOError %v", ioe)
	}
	again := IO("read", "other", err)
	if again != err {
		t.Fatal("an IOError must not be wrapped twice")
	}
	if Is(IO("read", "f", io.EOF), ErrMalformedIndex) {
		t.Fatal("matched the wrong kind")
	}
}

func TestErrorfStack(t *testing.T) {
	err := Errorf("boom %v", 7)
	if err.Error() != "boom 7" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if s := fmt.Sprintf("%+v", err); len(s) <= len("boom 7") {
		t.Fatal("expected a stack trace")
	}
}
