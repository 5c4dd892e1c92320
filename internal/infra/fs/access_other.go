//go:build !unix

package fs

// No cheap access probe here; a denied write surfaces from the transfer
// syscall itself.
func accessWritable(string) error { return nil }
