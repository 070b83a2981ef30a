package ufs

import (
	"bytes"
	"strings"
)

// splitLines splits content on newlines. A trailing newline does not start
// an extra empty line.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(content), "\n")
	return strings.Split(s, "\n")
}

// LineAt returns line n (0-indexed) of content without its newline. The
// boolean is false when n is out of range.
func LineAt(content []byte, n int) (string, bool) {
	lines := splitLines(content)
	if n < 0 || n >= len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n], "\r"), true
}

// LineRange returns lines first through last inclusive, clamped to the lines
// available. It never pads.
func LineRange(content []byte, first, last int) []string {
	lines := splitLines(content)
	if first < 0 {
		first = 0
	}
	if last >= len(lines) {
		last = len(lines) - 1
	}
	if first > last {
		return []string{}
	}
	out := make([]string, 0, last-first+1)
	for _, l := range lines[first : last+1] {
		out = append(out, strings.TrimSuffix(l, "\r"))
	}
	return out
}

// LinePayload returns the bytes a line write appends: data with any trailing
// newline replaced by exactly one, preceded by a newline when the existing
// content is non-empty and does not already end in one. lastByte is the
// final byte of the existing content and is ignored when empty is true.
func LinePayload(data string, lastByte byte, empty bool) []byte {
	var buf bytes.Buffer
	if !empty && lastByte != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.TrimSuffix(strings.TrimSuffix(data, "\n"), "\r"))
	buf.WriteByte('\n')
	return buf.Bytes()
}
