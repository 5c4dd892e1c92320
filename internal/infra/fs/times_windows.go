//go:build windows

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

func creationTime(_ string, info fs.FileInfo) time.Time {
	if d, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, d.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
