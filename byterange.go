package ufs

// ByteRange selects bytes of an entry's content. Start may be negative to
// count from the end (-1 is the last byte). A range without a length reads
// to the end of the content.
type ByteRange struct {
	Start  int64
	Length int64
	// Bounded reports whether Length was given.
	Bounded bool
}

// From selects everything from start to the end of the content.
func From(start int64) ByteRange {
	return ByteRange{Start: start}
}

// Span selects length bytes beginning at start.
func Span(start, length int64) ByteRange {
	return ByteRange{Start: start, Length: length, Bounded: true}
}

// Inclusive selects bytes first through last, so Inclusive(1, 3) is the
// same as Span(1, 3).
func Inclusive(first, last int64) ByteRange {
	return Span(first, last-first+1)
}

// ResolveRange turns r into a concrete offset and length against content of
// the given size. A start whose magnitude exceeds size fails with
// ErrOutOfRange; an overlong or missing length is clamped to the remainder.
func ResolveRange(r ByteRange, size int64) (offset, n int64, err error) {
	start := r.Start
	if start > size || start < -size {
		return 0, 0, ErrOutOfRange
	}

	offset = start
	if start < 0 {
		offset = size + start
	}

	remaining := size - offset
	n = remaining
	if r.Bounded && r.Length < remaining {
		n = r.Length
	}
	if n < 0 {
		n = 0
	}
	return offset, n, nil
}

// SliceRange applies r to content held in memory.
func SliceRange(content []byte, r ByteRange) ([]byte, error) {
	offset, n, err := ResolveRange(r, int64(len(content)))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, content[offset:offset+n])
	return out, nil
}
