package ufs

import (
	"fmt"
	"os"
	"strconv"
)

// Mode is a three digit octal-like permission value such as 644 or 755.
// The zero value means permissions are not managed.
type Mode int

// Valid reports whether every digit of m is between 0 and 7 and m has
// exactly three digits (leading zeros allowed, so 7 is "007").
func (m Mode) Valid() bool {
	if m < 0 || m > 777 {
		return false
	}
	for v := int(m); v > 0; v /= 10 {
		if v%10 > 7 {
			return false
		}
	}
	return true
}

// FileMode converts m to an os.FileMode.
func (m Mode) FileMode() os.FileMode {
	v, _ := strconv.ParseUint(strconv.Itoa(int(m)), 8, 32)
	return os.FileMode(v)
}

// String returns m zero padded to three digits.
func (m Mode) String() string {
	return fmt.Sprintf("%03d", int(m))
}

// ModeOf converts the permission bits of an os.FileMode to a Mode.
func ModeOf(fm os.FileMode) Mode {
	v, _ := strconv.Atoi(strconv.FormatUint(uint64(fm.Perm()), 8))
	return Mode(v)
}

// ParseSymbolicPermissions converts a symbolic permission string to a Mode.
// It accepts the 9 character form ("rwxr-xr-x") and the 10 character ls
// form with a leading type character ("-rwxr-xr-x", "drwxr-xr-x"). Each
// triplet maps to one digit: "---" 0, "--x" 1, "-w-" 2, "-wx" 3, "r--" 4,
// "r-x" 5, "rw-" 6, "rwx" 7. Setuid, setgid and sticky letters count as
// their execute bit.
func ParseSymbolicPermissions(s string) (Mode, error) {
	switch len(s) {
	case 9:
	case 10:
		s = s[1:]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPermissions, s)
	}

	var m int
	for i := 0; i < 9; i += 3 {
		d, err := tripletDigit(s[i : i+3])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPermissions, s)
		}
		m = m*10 + d
	}
	return Mode(m), nil
}

func tripletDigit(t string) (int, error) {
	d := 0
	switch t[0] {
	case 'r':
		d += 4
	case '-':
	default:
		return 0, ErrInvalidPermissions
	}
	switch t[1] {
	case 'w':
		d += 2
	case '-':
	default:
		return 0, ErrInvalidPermissions
	}
	switch t[2] {
	case 'x', 's', 't':
		d++
	case '-', 'S', 'T':
	default:
		return 0, ErrInvalidPermissions
	}
	return d, nil
}
