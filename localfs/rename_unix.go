//go:build !windows
// +build !windows

package localfs

import "os"

// rename provides the overwrite+atomic+native rename semantics directly:
// rename(2) atomically replaces an existing target.
func rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
