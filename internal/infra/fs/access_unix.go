//go:build unix

package fs

import "golang.org/x/sys/unix"

func accessWritable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
