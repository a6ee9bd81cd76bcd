package sshbridge

import (
	"io/fs"
)

// Direction identifies which way the transport socket must become ready
// before a blocked protocol call can make progress.
type Direction int

// Socket readiness directions.
const (
	DirRead Direction = iota + 1
	DirWrite
)

func (d Direction) String() string {
	switch d {
	case DirRead:
		return "read"
	case DirWrite:
		return "write"
	default:
		return "unknown"
	}
}

// WouldBlockError is the transient signal a raw handle returns when the
// underlying socket is not yet ready in the needed direction. It is not a
// definitive failure: the invoker waits for readiness and retries the call.
type WouldBlockError struct {
	Direction Direction
}

func (e *WouldBlockError) Error() string {
	return "operation would block (" + e.Direction.String() + ")"
}

// Temporary reports that the condition is transient.
func (e *WouldBlockError) Temporary() bool { return true }

// RawSession is the established transport handle supplied by the
// handshake/authentication layer. It is not safe for concurrent use; the
// Client's executor is its sole owner.
type RawSession interface {
	// OpenSubsystem derives the file-transfer subsystem handle. Opening
	// a second subsystem on the same session replaces the first.
	OpenSubsystem() (RawSubsystem, error)

	// Close tears down the transport connection. Derived handles are
	// invalid afterwards.
	Close() error
}

// RawSubsystem is the blocking protocol operation surface of the
// file-transfer subsystem. Every method may return *WouldBlockError to
// signal that the call should be retried once the socket is ready.
//
// Implementations are not safe for concurrent use.
type RawSubsystem interface {
	Stat(path string) (*FileAttributes, error)
	Lstat(path string) (*FileAttributes, error)
	StatVFS(path string) (*FSStat, error)

	ReadLink(path string) (string, error)
	RealPath(path string) (string, error)
	Symlink(target, linkPath string) error

	Mkdir(path string, perm fs.FileMode) error
	Rename(oldPath, newPath string) error
	RemoveDirectory(path string) error
	Remove(path string) error
	Chown(path string, uid, gid int) error
	Chmod(path string, perm fs.FileMode) error

	OpenRead(path string) (RawFile, error)
	OpenWrite(path string, perm fs.FileMode) (RawFile, error)
	OpenDir(path string) (RawDir, error)

	// LastError returns the most recent definitive protocol error
	// recorded by the subsystem, for diagnostics when an open fails.
	LastError() error

	Close() error
}

// RawFile is one open remote file handle. Read and Write follow io
// semantics except that they may also return *WouldBlockError, in which
// case no bytes were consumed or produced.
type RawFile interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

// RawDir is one open remote directory handle. Next returns entries one at
// a time and io.EOF when the underlying call yields no new entries.
type RawDir interface {
	Next() (*DirEntry, error)
	Close() error
}
