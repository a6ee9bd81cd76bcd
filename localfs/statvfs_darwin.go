package localfs

import (
	"golang.org/x/sys/unix"

	"github.com/bridgefs/sshbridge"
)

// statVFS converts the statfs(2) result to the bridge's capacity record.
// Darwin's statfs has no fragment size or name length; the block size and
// the NAME_MAX constant stand in.
func statVFS(name string) (*sshbridge.FSStat, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(name, &stat); err != nil {
		return nil, err
	}

	return &sshbridge.FSStat{
		BlockSize:       uint64(stat.Iosize),
		FragmentSize:    uint64(stat.Bsize),
		Blocks:          stat.Blocks,
		BlocksFree:      stat.Bfree,
		BlocksAvailable: stat.Bavail,
		Files:           stat.Files,
		FilesFree:       stat.Ffree,
		NameMax:         255,
	}, nil
}
