// Package localfs implements the sshbridge raw subsystem boundary on top
// of the local filesystem. It serves as the loopback backend for tests
// and tooling; no network transport is involved.
// NOTE: exposing it to untrusted callers is not normally a safe thing to do.
package localfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bridgefs/sshbridge"
)

// Session is a loopback transport handle. It satisfies
// sshbridge.RawSession; the derived subsystem operates on the local
// filesystem rooted at WorkDir.
type Session struct {
	WorkDir string

	sub *Subsystem
}

// NewSession returns a loopback session. Relative paths in operations
// resolve under workDir; an empty workDir leaves them relative to the
// process working directory.
func NewSession(workDir string) *Session {
	return &Session{WorkDir: workDir}
}

// OpenSubsystem implements sshbridge.RawSession.
func (s *Session) OpenSubsystem() (sshbridge.RawSubsystem, error) {
	s.sub = &Subsystem{workDir: s.WorkDir}
	return s.sub, nil
}

// Close implements sshbridge.RawSession.
func (s *Session) Close() error {
	s.sub = nil
	return nil
}

// Subsystem implements sshbridge.RawSubsystem over the local filesystem.
// Calls never report a would-block condition: the kernel either completes
// them or fails them definitively.
type Subsystem struct {
	workDir string

	lastErr error
}

func (s *Subsystem) toLocalPath(p string) string {
	if s.workDir != "" && !filepath.IsAbs(p) {
		return filepath.Join(s.workDir, p)
	}
	return filepath.Clean(p)
}

// record stores the most recent definitive error for LastError and
// passes it through unchanged.
func (s *Subsystem) record(err error) error {
	if err != nil {
		s.lastErr = err
	}
	return err
}

// LastError implements sshbridge.RawSubsystem.
func (s *Subsystem) LastError() error { return s.lastErr }

// Close implements sshbridge.RawSubsystem.
func (s *Subsystem) Close() error {
	s.lastErr = nil
	return nil
}

// Stat implements sshbridge.RawSubsystem.
func (s *Subsystem) Stat(path string) (*sshbridge.FileAttributes, error) {
	fi, err := os.Stat(s.toLocalPath(path))
	if err != nil {
		return nil, s.record(err)
	}
	attrs := fileInfoToAttrs(fi)
	return &attrs, nil
}

// Lstat implements sshbridge.RawSubsystem.
func (s *Subsystem) Lstat(path string) (*sshbridge.FileAttributes, error) {
	fi, err := os.Lstat(s.toLocalPath(path))
	if err != nil {
		return nil, s.record(err)
	}
	attrs := fileInfoToAttrs(fi)
	return &attrs, nil
}

// StatVFS implements sshbridge.RawSubsystem.
func (s *Subsystem) StatVFS(path string) (*sshbridge.FSStat, error) {
	st, err := statVFS(s.toLocalPath(path))
	return st, s.record(err)
}

// ReadLink implements sshbridge.RawSubsystem.
func (s *Subsystem) ReadLink(path string) (string, error) {
	target, err := os.Readlink(s.toLocalPath(path))
	return target, s.record(err)
}

// RealPath implements sshbridge.RawSubsystem.
func (s *Subsystem) RealPath(path string) (string, error) {
	lpath := s.toLocalPath(path)

	abs, err := filepath.Abs(lpath)
	if err != nil {
		return "", s.record(err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// Nonexistent leaf: canonicalize lexically, like sftp-server does.
	return abs, nil
}

// Symlink implements sshbridge.RawSubsystem.
func (s *Subsystem) Symlink(target, linkPath string) error {
	return s.record(os.Symlink(target, s.toLocalPath(linkPath)))
}

// Mkdir implements sshbridge.RawSubsystem.
func (s *Subsystem) Mkdir(path string, perm fs.FileMode) error {
	return s.record(os.Mkdir(s.toLocalPath(path), perm))
}

// Rename implements sshbridge.RawSubsystem. rename(2) already provides
// the requested overwrite+atomic+native semantics on POSIX systems.
func (s *Subsystem) Rename(oldPath, newPath string) error {
	return s.record(rename(s.toLocalPath(oldPath), s.toLocalPath(newPath)))
}

// RemoveDirectory implements sshbridge.RawSubsystem.
func (s *Subsystem) RemoveDirectory(path string) error {
	lpath := s.toLocalPath(path)

	fi, err := os.Lstat(lpath)
	if err != nil {
		return s.record(err)
	}
	if !fi.IsDir() {
		return s.record(&fs.PathError{Op: "rmdir", Path: path, Err: errNotDir})
	}
	return s.record(os.Remove(lpath))
}

// Remove implements sshbridge.RawSubsystem.
func (s *Subsystem) Remove(path string) error {
	lpath := s.toLocalPath(path)

	fi, err := os.Lstat(lpath)
	if err != nil {
		return s.record(err)
	}
	if fi.IsDir() {
		return s.record(&fs.PathError{Op: "remove", Path: path, Err: errIsDir})
	}
	return s.record(os.Remove(lpath))
}

// Chown implements sshbridge.RawSubsystem.
func (s *Subsystem) Chown(path string, uid, gid int) error {
	return s.record(os.Chown(s.toLocalPath(path), uid, gid))
}

// Chmod implements sshbridge.RawSubsystem.
func (s *Subsystem) Chmod(path string, perm fs.FileMode) error {
	return s.record(os.Chmod(s.toLocalPath(path), perm))
}

// OpenRead implements sshbridge.RawSubsystem.
func (s *Subsystem) OpenRead(path string) (sshbridge.RawFile, error) {
	f, err := os.Open(s.toLocalPath(path))
	if err != nil {
		return nil, s.record(err)
	}
	return &File{File: f}, nil
}

// OpenWrite implements sshbridge.RawSubsystem.
func (s *Subsystem) OpenWrite(path string, perm fs.FileMode) (sshbridge.RawFile, error) {
	f, err := os.OpenFile(s.toLocalPath(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, s.record(err)
	}
	return &File{File: f}, nil
}

// OpenDir implements sshbridge.RawSubsystem.
func (s *Subsystem) OpenDir(path string) (sshbridge.RawDir, error) {
	f, err := os.Open(s.toLocalPath(path))
	if err != nil {
		return nil, s.record(err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, s.record(err)
	}
	if !fi.IsDir() {
		f.Close()
		return nil, s.record(&fs.PathError{Op: "opendir", Path: path, Err: errNotDir})
	}

	return &Dir{f: f, idLookup: lookup{}}, nil
}
