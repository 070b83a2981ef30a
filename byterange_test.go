package ufs

import (
	"errors"
	"math"
	"testing"
)

func TestSliceRange(t *testing.T) {
	content := []byte("0123456789")

	tests := []struct {
		name    string
		r       ByteRange
		want    string
		wantErr bool
	}{
		{"from start", From(0), "0123456789", false},
		{"from middle", From(7), "789", false},
		{"span", Span(2, 3), "234", false},
		{"inclusive", Inclusive(1, 3), "123", false},
		{"overlong span is clamped", Span(8, 10), "89", false},
		{"negative start", From(-3), "789", false},
		{"negative span", Span(-5, 2), "56", false},
		{"start at size is empty", From(10), "", false},
		{"start beyond size", From(11), "", true},
		{"negative start beyond size", From(-11), "", true},
		{"zero length", Span(3, 0), "", false},
		{"min int start", From(math.MinInt64), "", true},
		{"min int span", Span(math.MinInt64, 4), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SliceRange(content, tt.r)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("expected ErrOutOfRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveRangeEmptyContent(t *testing.T) {
	offset, n, err := ResolveRange(From(0), 0)
	if err != nil || offset != 0 || n != 0 {
		t.Errorf("got (%d, %d, %v)", offset, n, err)
	}
}
