//go:build dragonfly || (!android && linux) || openbsd || solaris || aix
// +build dragonfly !android,linux openbsd solaris aix

package localfs

import (
	"os"
	"syscall"
	"time"

	"github.com/bridgefs/sshbridge"
)

func attrsFromInfoOS(fi os.FileInfo, attrs *sshbridge.FileAttributes) {
	if statt, ok := fi.Sys().(*syscall.Stat_t); ok {
		attrs.UID = statt.Uid
		attrs.GID = statt.Gid
		attrs.Atime = time.Unix(int64(statt.Atim.Sec), int64(statt.Atim.Nsec))
	}
}
