//go:build linux

package fs

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime asks statx for the birth time; not every filesystem records
// one, in which case the modification time stands in.
func creationTime(path string, info fs.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 && (stx.Btime.Sec != 0 || stx.Btime.Nsec != 0) {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return info.ModTime()
}
