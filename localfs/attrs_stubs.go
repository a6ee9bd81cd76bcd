//go:build (!dragonfly && !linux && !openbsd && !solaris && !aix && !darwin && !freebsd && !netbsd) || android
// +build !dragonfly,!linux,!openbsd,!solaris,!aix,!darwin,!freebsd,!netbsd android

package localfs

import (
	"os"

	"github.com/bridgefs/sshbridge"
)

func attrsFromInfoOS(fi os.FileInfo, attrs *sshbridge.FileAttributes) {
	// No portable owner/group or access time on this platform.
}
