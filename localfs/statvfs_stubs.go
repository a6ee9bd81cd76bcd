//go:build !linux && !darwin
// +build !linux,!darwin

package localfs

import (
	"errors"

	"github.com/bridgefs/sshbridge"
)

var errStatVFSUnsupported = errors.New("statvfs not supported on this platform")

func statVFS(name string) (*sshbridge.FSStat, error) {
	return nil, errStatVFSUnsupported
}
