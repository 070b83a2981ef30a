package ufs

import (
	"errors"
	"fmt"
)

// ErrIO is the root of the error taxonomy. Every classified error below
// matches it with errors.Is.
var ErrIO = errors.New("io error")

// Error classes
var (
	// ErrRead means content could not be retrieved.
	ErrRead = fmt.Errorf("%w: read failed", ErrIO)
	// ErrWrite means content or an entry could not be created or modified.
	ErrWrite = fmt.Errorf("%w: write failed", ErrIO)
	// ErrConnection means a remote connection could not be established or used.
	ErrConnection = fmt.Errorf("%w: connection failed", ErrIO)
	// ErrPermission means remote access was explicitly denied.
	ErrPermission = fmt.Errorf("%w: permission denied", ErrIO)
)

// Common errors
var (
	ErrNotExist           = errors.New("entry does not exist")
	ErrExist              = errors.New("entry already exists")
	ErrOutOfRange         = errors.New("start byte is beyond the size of the file")
	ErrUnsupported        = errors.New("unsupported operation")
	ErrAmbiguousOperation = errors.New("operation registered by more than one kind")
	ErrNoDefaultAdapter   = errors.New("no default adapter set")
	ErrInvalidPath        = errors.New("invalid path")
	ErrInvalidPermissions = errors.New("invalid permissions")
)

// PathError records an error and the operation and path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError builds a PathError of the given class. The cause, if any, stays
// reachable through errors.Is and errors.As.
func NewPathError(op, path string, class, cause error) error {
	var err error
	switch {
	case cause == nil:
		err = class
	case class == nil:
		err = cause
	case errors.Is(cause, class):
		err = cause
	default:
		err = fmt.Errorf("%w: %w", class, cause)
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// WrapPathErr wraps err in a PathError, returning nil for a nil err. An error
// that already is a PathError is returned unchanged.
func WrapPathErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// IsNotExist reports whether an error indicates that an entry does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsExist reports whether an error indicates that an entry already exists
func IsExist(err error) bool {
	return errors.Is(err, ErrExist)
}

// IsRead reports whether err is a ReadError
func IsRead(err error) bool {
	return errors.Is(err, ErrRead)
}

// IsWrite reports whether err is a WriteError
func IsWrite(err error) bool {
	return errors.Is(err, ErrWrite)
}

// IsConnection reports whether err is a ConnectionError
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsPermission reports whether err is a PermissionsError
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsUnsupported reports whether err means the operation cannot be routed
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
