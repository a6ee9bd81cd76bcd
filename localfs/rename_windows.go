package localfs

import "os"

// rename approximates POSIX rename semantics. MoveFile on Windows does
// not replace an existing target, so the target is removed first; the
// two steps together are not atomic.
func rename(oldPath, newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		if err := os.Remove(newPath); err != nil {
			return err
		}
	}
	return os.Rename(oldPath, newPath)
}
