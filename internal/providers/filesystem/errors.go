package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies operator failures
type ErrorKind string

const (
	NotFound        ErrorKind = "not_found"
	IOFailure       ErrorKind = "io_failure"
	PartialFailure  ErrorKind = "partial_failure"
	InvalidArgument ErrorKind = "invalid_argument"
)

// Sentinels matched by errors.Is against an *Error of the same kind
var (
	ErrNotFound        = errors.New("not found")
	ErrIOFailure       = errors.New("io failure")
	ErrPartialFailure  = errors.New("partial failure")
	ErrInvalidArgument = errors.New("invalid argument")
)

var errPathMissing = errors.New("path does not exist")

// Error is returned by every Operator method
type Error struct {
	Op   string
	Path string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrIOFailure:
		return e.Kind == IOFailure
	case ErrPartialFailure:
		return e.Kind == PartialFailure
	case ErrInvalidArgument:
		return e.Kind == InvalidArgument
	}
	return false
}

// KindOf returns the ErrorKind carried by err, IOFailure for foreign errors
// and an empty kind for nil
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	return IOFailure
}

// wrapErr classifies an os error into an *Error
func wrapErr(op, path string, err error) *Error {
	kind := IOFailure
	if errors.Is(err, fs.ErrNotExist) {
		kind = NotFound
		err = errPathMissing
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func invalidArg(op, path, msg string) *Error {
	return &Error{Op: op, Path: path, Kind: InvalidArgument, Err: errors.New(msg)}
}
