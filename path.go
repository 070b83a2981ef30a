package ufs

import (
	"os"
	"path/filepath"
	"strings"
)

// Separator is the separator used in normalized paths and remote keys.
const Separator = "/"

// Path is a normalized absolute path. The zero value is the unset path.
type Path string

// NewPath builds a normalized absolute Path from one or more fragments.
// Fragments are joined, repeated separators are collapsed and both "/" and
// "\" are accepted as separators. A leading "~" expands to the home
// directory; relative results are made absolute against the working
// directory. With no non-empty fragment the unset Path is returned.
//
//	NewPath("/tmp//", "a", "/b.txt") // "/tmp/a/b.txt"
func NewPath(elems ...string) Path {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if e != "" {
			parts = append(parts, strings.ReplaceAll(e, `\`, Separator))
		}
	}
	if len(parts) == 0 {
		return ""
	}

	p := strings.Join(parts, Separator)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = home + p[1:]
		}
	}
	if !strings.HasPrefix(p, Separator) {
		if abs, err := filepath.Abs(p); err == nil {
			p = filepath.ToSlash(abs)
		} else {
			p = Separator + p
		}
	}
	return Path(cleanSlashes(p))
}

// PathFromKey maps a remote object key back to a Path by restoring the
// leading separator.
func PathFromKey(key string) Path {
	if key == "" {
		return ""
	}
	return Path(cleanSlashes(Separator + key))
}

// cleanSlashes collapses separators and dot segments without touching the
// filesystem.
func cleanSlashes(p string) string {
	segs := strings.Split(p, Separator)
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return Separator + strings.Join(out, Separator)
}

// String returns the path as a string
func (p Path) String() string {
	return string(p)
}

// IsZero reports whether the path is unset
func (p Path) IsZero() bool {
	return p == ""
}

// Equal compares the path with a raw string after normalizing the string.
func (p Path) Equal(raw string) bool {
	return p == NewPath(raw)
}

// Base returns the last element of the path.
func (p Path) Base() string {
	if p.IsZero() || p == Separator {
		return ""
	}
	s := string(p)
	return s[strings.LastIndex(s, Separator)+1:]
}

// Dir returns all but the last element of the path.
func (p Path) Dir() Path {
	if p.IsZero() {
		return ""
	}
	s := string(p)
	i := strings.LastIndex(s, Separator)
	if i <= 0 {
		return Separator
	}
	return Path(s[:i])
}

// Join appends fragments to the path.
func (p Path) Join(elems ...string) Path {
	if p.IsZero() {
		return NewPath(elems...)
	}
	return NewPath(append([]string{string(p)}, elems...)...)
}

// Key returns the path without its leading separator, suitable as a remote
// object key.
func (p Path) Key() string {
	return strings.TrimPrefix(string(p), Separator)
}

// OS returns the path in the host's native form.
func (p Path) OS() string {
	return filepath.FromSlash(string(p))
}
