package ufs

import (
	"context"
	"time"
)

// Kind identifies the concrete variant behind an Entry.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDirectory
	KindObject
	KindBucket
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindObject:
		return "object"
	case KindBucket:
		return "bucket"
	default:
		return "unknown"
	}
}

// Attributes are the managed attributes of an entry. Zero fields are not
// managed and are left alone when the entry is created.
type Attributes struct {
	Permissions Mode
	Owner       string
	Group       string
}

// Metadata describes an existing entry. It is best effort: fields the
// backend cannot determine are left at their zero value.
type Metadata struct {
	Name        string
	Permissions Mode
	// Subordinates counts contained entries. Directories include the "." and
	// ".." pseudo entries; files always report 1.
	Subordinates int
	Owner        string
	Group        string
	Size         int64
	Modified     time.Time
	Created      time.Time
}

// ============================================================================
// Core Interfaces
// ============================================================================

// Entry is the contract shared by every kind of entry: local files and
// directories, remote objects and buckets.
type Entry interface {
	// Path returns the entry's current location.
	Path() Path

	// Name returns the last element of the path.
	Name() string

	// Kind returns the concrete variant.
	Kind() Kind

	// Exists probes the backend. It never returns an error.
	Exists(ctx context.Context) bool

	// Create makes the entry if it does not exist and applies any managed
	// attributes. Creating an existing entry succeeds.
	Create(ctx context.Context, opts ...Option) error

	// Destroy removes the entry and reports whether anything was removed.
	Destroy(ctx context.Context, opts ...Option) (bool, error)

	// Move relocates the entry under dest. On success Path reflects the new
	// location; on failure it is unchanged.
	Move(ctx context.Context, dest string, opts ...Option) error

	// Size returns the entry size. ok is false when the entry does not exist.
	Size(ctx context.Context) (n int64, ok bool, err error)

	// Metadata returns best effort information, or the zero value.
	Metadata(ctx context.Context) Metadata
}

// Content is an entry holding bytes: a local file or a remote object.
type Content interface {
	Entry

	// Read returns the entire content.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the content, creating the entry when needed.
	Write(ctx context.Context, data []byte, opts ...Option) error

	// Append adds data to the end of an existing entry. It fails with a
	// write error when the entry does not exist.
	Append(ctx context.Context, data []byte, opts ...Option) error

	// AppendOrCreate adds data to the end of the entry, creating it first
	// when needed.
	AppendOrCreate(ctx context.Context, data []byte, opts ...Option) error

	// ReadBytes returns the bytes selected by r.
	ReadBytes(ctx context.Context, r ByteRange) ([]byte, error)

	// ReadLine returns line n without its newline; ok is false when n is
	// out of range.
	ReadLine(ctx context.Context, n int) (line string, ok bool, err error)

	// ReadLines returns lines first through last inclusive, clamped.
	ReadLines(ctx context.Context, first, last int) ([]string, error)

	// WriteLine appends data as one line, starting a new line first when
	// the existing content does not end with one.
	WriteLine(ctx context.Context, data string) error

	// Checksum hashes the content with the given algorithm.
	Checksum(ctx context.Context, algorithm ChecksumAlgorithm) (string, error)
}

// Container is an entry holding other entries: a local directory or a
// remote bucket.
type Container interface {
	Entry

	// List returns the contained entries, filtered by WithSelector.
	List(ctx context.Context, opts ...Option) ([]Entry, error)

	// Add moves child into the container.
	Add(ctx context.Context, child Entry, opts ...Option) error
}

// ============================================================================
// Shared content helpers
// ============================================================================
// Backends implement the line and checksum operations of Content through
// these helpers so the semantics stay identical everywhere.

// ReadLine reads c and returns line n.
func ReadLine(ctx context.Context, c Content, n int) (string, bool, error) {
	data, err := c.Read(ctx)
	if err != nil {
		return "", false, err
	}
	line, ok := LineAt(data, n)
	return line, ok, nil
}

// ReadLines reads c and returns lines first through last.
func ReadLines(ctx context.Context, c Content, first, last int) ([]string, error) {
	data, err := c.Read(ctx)
	if err != nil {
		return nil, err
	}
	return LineRange(data, first, last), nil
}

// WriteLine appends data to c as a single line.
func WriteLine(ctx context.Context, c Content, data string) error {
	size, ok, err := c.Size(ctx)
	if err != nil {
		return err
	}

	var last byte
	empty := !ok || size == 0
	if !empty {
		tail, err := c.ReadBytes(ctx, From(-1))
		if err != nil {
			return err
		}
		if len(tail) > 0 {
			last = tail[0]
		}
	}

	return c.AppendOrCreate(ctx, LinePayload(data, last, empty))
}

// ContentChecksum reads c and hashes it.
func ContentChecksum(ctx context.Context, c Content, algorithm ChecksumAlgorithm) (string, error) {
	data, err := c.Read(ctx)
	if err != nil {
		return "", err
	}
	return ChecksumBytes(data, algorithm)
}
