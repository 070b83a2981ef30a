//go:build unix && !linux && !darwin

package local

import (
	"os"
	"time"
)

func accessTime(path string) (time.Time, error) {
	return OS{}.ModTime(path)
}

func changeTime(path string) (time.Time, error) {
	return OS{}.ModTime(path)
}

func birthTime(string, os.FileInfo) time.Time {
	return time.Time{}
}
