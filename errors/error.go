package errors

import (
	"fmt"
)

import (
	"github.com/pkg/errors"
)

// Error kinds. Test for them with Is.
var (
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNotFound       = errors.New("key not found")
	ErrMalformedIndex = errors.New("malformed index file")
	ErrIO             = errors.New("i/o failure")
	ErrConfig         = errors.New("invalid configuration")
	ErrShortRecord    = errors.New("record shorter than key")
)

// Errorf makes a new error carrying the stack at the call site.
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Kindf annotates one of the error kinds above with a message and a
// stack. The result satisfies Is(err, kind).
func Kindf(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IOError records a failed file operation. It matches ErrIO and
// unwraps to the underlying os error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// IO wraps err as an *IOError. A nil err stays nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return err
	}
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
