package ufs

import (
	"errors"
	"os"
	"testing"
)

func TestParseSymbolicPermissions(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"rwxr-xr-x", 755, false},
		{"rw-r--r--", 644, false},
		{"-rw-------", 600, false},
		{"drwxrwxrwx", 777, false},
		{"---------", 0, false},
		{"rwsr-sr-t", 755, false},
		{"rwSr--r-T", 644, false},
		{"rwx", 0, true},
		{"rwxr-xr-q", 0, true},
		{"xwrr-xr-x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSymbolicPermissions(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPermissions) {
					t.Fatalf("expected ErrInvalidPermissions, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode(t *testing.T) {
	if !Mode(644).Valid() || !Mode(7).Valid() || !Mode(0).Valid() {
		t.Error("expected valid modes")
	}
	if Mode(648).Valid() || Mode(1000).Valid() || Mode(-1).Valid() {
		t.Error("expected invalid modes")
	}
	if Mode(7).String() != "007" {
		t.Errorf("String() = %q", Mode(7).String())
	}
	if Mode(755).FileMode() != os.FileMode(0755) {
		t.Errorf("FileMode() = %o", Mode(755).FileMode())
	}
	if ModeOf(os.FileMode(0640)|os.ModeDir) != 640 {
		t.Errorf("ModeOf() = %v", ModeOf(os.FileMode(0640)|os.ModeDir))
	}
}
