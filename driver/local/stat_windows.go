//go:build windows

package local

import (
	"os"
	"syscall"
	"time"
)

const (
	accessRead = 1 << iota
	accessWrite
	accessExecute
)

// accessible approximates access checks from the mode bits Windows reports.
func accessible(path string, mode uint32) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	perm := info.Mode().Perm()
	switch mode {
	case accessWrite:
		return perm&0200 != 0
	case accessExecute:
		return perm&0100 != 0
	default:
		return true
	}
}

// Owner information requires GetSecurityInfo, so it is not reported
func ownership(os.FileInfo) (owner, group string) {
	return "", ""
}

func attributeData(path string) (*syscall.Win32FileAttributeData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: syscall.EWINDOWS}
	}
	return data, nil
}

func accessTime(path string) (time.Time, error) {
	data, err := attributeData(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, data.LastAccessTime.Nanoseconds()), nil
}

func changeTime(path string) (time.Time, error) {
	return OS{}.ModTime(path)
}

// birthTime extracts the creation time, which Windows has natively.
func birthTime(_ string, info os.FileInfo) time.Time {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}
	}
	return time.Unix(0, data.CreationTime.Nanoseconds())
}
