package ufs

import "testing"

func TestGuessContentType(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data []byte
		want string
	}{
		{"text by extension", "notes/a.txt", nil, "text/plain"},
		{"extension is case insensitive", "A.JSON", nil, "application/json"},
		{"last extension wins", "backup/archive.tar.gz", nil, "application/gzip"},
		{"backslash key", `reports\q1.csv`, nil, "text/csv"},
		{"host mime table", "app/module.wasm", nil, "application/wasm"},
		{"extension beats data", "page.html", []byte("%PDF-1.4"), "text/html"},
		{"sniffed without extension", "raw", []byte("%PDF-1.4"), "application/pdf"},
		{"no extension and no data", "raw", nil, "application/octet-stream"},
		{"dot in a parent segment only", "v1.2/readme", nil, "application/octet-stream"},
		{"dotfile", ".env", nil, "application/octet-stream"},
		{"dotfile is sniffed", ".env", []byte("KEY=1\n"), "text/plain; charset=utf-8"},
		{"prefix key", "logs/", []byte("hello"), "application/octet-stream"},
		{"empty key", "", []byte("hello"), "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessContentType(tt.key, tt.data); got != tt.want {
				t.Errorf("GuessContentType(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
