package sshclient

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/pkg/sftp"

	"github.com/bridgefs/sshbridge"
)

// subsystem adapts the SFTP protocol engine to the
// sshbridge.RawSubsystem boundary. The engine's calls block until the
// protocol round-trip completes, so no would-block results are produced
// in this implementation; the bridge's retry layer simply passes the
// definitive results through.
type subsystem struct {
	cl *sftp.Client

	lastErr error
}

// record keeps the most recent definitive error for LastError and maps
// remote status responses onto the bridge's protocol error type.
func (s *subsystem) record(err error) error {
	err = mapStatus(err)
	if err != nil && err != io.EOF {
		s.lastErr = err
	}
	return err
}

// mapStatus converts the engine's status errors into
// *sshbridge.ProtocolError, keeping the remote-reported reason.
func mapStatus(err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*sftp.StatusError); ok {
		return &sshbridge.ProtocolError{Code: se.Code, Msg: se.Error()}
	}
	return err
}

// LastError implements sshbridge.RawSubsystem.
func (s *subsystem) LastError() error { return s.lastErr }

// Close implements sshbridge.RawSubsystem.
func (s *subsystem) Close() error {
	return s.record(s.cl.Close())
}

// Stat implements sshbridge.RawSubsystem.
func (s *subsystem) Stat(path string) (*sshbridge.FileAttributes, error) {
	fi, err := s.cl.Stat(path)
	if err != nil {
		return nil, s.record(err)
	}
	attrs := infoToAttrs(fi)
	return &attrs, nil
}

// Lstat implements sshbridge.RawSubsystem.
func (s *subsystem) Lstat(path string) (*sshbridge.FileAttributes, error) {
	fi, err := s.cl.Lstat(path)
	if err != nil {
		return nil, s.record(err)
	}
	attrs := infoToAttrs(fi)
	return &attrs, nil
}

// StatVFS implements sshbridge.RawSubsystem via the statvfs@openssh.com
// extension.
func (s *subsystem) StatVFS(path string) (*sshbridge.FSStat, error) {
	st, err := s.cl.StatVFS(path)
	if err != nil {
		return nil, s.record(err)
	}
	return &sshbridge.FSStat{
		BlockSize:       st.Bsize,
		FragmentSize:    st.Frsize,
		Blocks:          st.Blocks,
		BlocksFree:      st.Bfree,
		BlocksAvailable: st.Bavail,
		Files:           st.Files,
		FilesFree:       st.Ffree,
		NameMax:         st.Namemax,
	}, nil
}

// ReadLink implements sshbridge.RawSubsystem.
func (s *subsystem) ReadLink(path string) (string, error) {
	target, err := s.cl.ReadLink(path)
	return target, s.record(err)
}

// RealPath implements sshbridge.RawSubsystem.
func (s *subsystem) RealPath(path string) (string, error) {
	resolved, err := s.cl.RealPath(path)
	return resolved, s.record(err)
}

// Symlink implements sshbridge.RawSubsystem.
func (s *subsystem) Symlink(target, linkPath string) error {
	return s.record(s.cl.Symlink(target, linkPath))
}

// Mkdir implements sshbridge.RawSubsystem. The protocol engine's mkdir
// does not carry permissions, so they are applied in a follow-up chmod.
func (s *subsystem) Mkdir(path string, perm fs.FileMode) error {
	if err := s.cl.Mkdir(path); err != nil {
		return s.record(err)
	}
	return s.record(s.cl.Chmod(path, perm))
}

// Rename implements sshbridge.RawSubsystem with the requested
// overwrite+atomic+native semantics. posix-rename@openssh.com provides
// all three; servers without the extension fall back to remove-then-
// rename, which keeps overwrite and native at the cost of atomicity.
func (s *subsystem) Rename(oldPath, newPath string) error {
	err := s.cl.PosixRename(oldPath, newPath)
	if err == nil {
		return nil
	}

	if se, ok := err.(*sftp.StatusError); !ok || se.Code != sshbridge.StatusOpUnsupported {
		return s.record(err)
	}

	if _, serr := s.cl.Lstat(newPath); serr == nil {
		if rerr := s.cl.Remove(newPath); rerr != nil {
			return s.record(rerr)
		}
	}
	return s.record(s.cl.Rename(oldPath, newPath))
}

// RemoveDirectory implements sshbridge.RawSubsystem.
func (s *subsystem) RemoveDirectory(path string) error {
	return s.record(s.cl.RemoveDirectory(path))
}

// Remove implements sshbridge.RawSubsystem.
func (s *subsystem) Remove(path string) error {
	return s.record(s.cl.Remove(path))
}

// Chown implements sshbridge.RawSubsystem.
func (s *subsystem) Chown(path string, uid, gid int) error {
	return s.record(s.cl.Chown(path, uid, gid))
}

// Chmod implements sshbridge.RawSubsystem.
func (s *subsystem) Chmod(path string, perm fs.FileMode) error {
	return s.record(s.cl.Chmod(path, perm))
}

// OpenRead implements sshbridge.RawSubsystem.
func (s *subsystem) OpenRead(path string) (sshbridge.RawFile, error) {
	f, err := s.cl.Open(path)
	if err != nil {
		return nil, s.record(err)
	}
	return &file{f: f, sub: s}, nil
}

// OpenWrite implements sshbridge.RawSubsystem. The open itself cannot
// carry permissions through the engine's API, so they are applied with a
// chmod right after creation.
func (s *subsystem) OpenWrite(path string, perm fs.FileMode) (sshbridge.RawFile, error) {
	f, err := s.cl.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, s.record(err)
	}
	if err := s.cl.Chmod(path, perm); err != nil {
		f.Close()
		return nil, s.record(err)
	}
	return &file{f: f, sub: s}, nil
}

// OpenDir implements sshbridge.RawSubsystem. The engine returns the full
// listing in one call; entries are replayed one per Next to preserve the
// bridge's lazy iteration contract.
func (s *subsystem) OpenDir(path string) (sshbridge.RawDir, error) {
	infos, err := s.cl.ReadDir(path)
	if err != nil {
		return nil, s.record(err)
	}
	return &dir{infos: infos}, nil
}

// file adapts *sftp.File to sshbridge.RawFile.
type file struct {
	f   *sftp.File
	sub *subsystem
}

func (f *file) Read(p []byte) (int, error) {
	n, err := f.f.Read(p)
	if err != nil && err != io.EOF {
		err = f.sub.record(err)
	}
	return n, err
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.f.Write(p)
	if err != nil {
		err = f.sub.record(err)
	}
	return n, err
}

func (f *file) Close() error {
	return f.sub.record(f.f.Close())
}

// dir replays a fetched listing as an sshbridge.RawDir.
type dir struct {
	infos []os.FileInfo
}

func (d *dir) Next() (*sshbridge.DirEntry, error) {
	if len(d.infos) == 0 {
		return nil, io.EOF
	}

	fi := d.infos[0]
	d.infos = d.infos[1:]

	attrs := infoToAttrs(fi)

	return &sshbridge.DirEntry{
		Name:     fi.Name(),
		Longname: sshbridge.FormatLongname(fi.Name(), attrs, nil),
		Attrs:    attrs,
	}, nil
}

func (d *dir) Close() error { return nil }

// infoToAttrs converts the engine's stat result, pulling owner, group
// and access time out of the protocol-level attribute block when
// present.
func infoToAttrs(fi os.FileInfo) sshbridge.FileAttributes {
	attrs := sshbridge.FileAttributes{
		Size:  fi.Size(),
		Mode:  fi.Mode(),
		Mtime: fi.ModTime(),
		Atime: fi.ModTime(),
	}

	if st, ok := fi.Sys().(*sftp.FileStat); ok {
		attrs.UID = st.UID
		attrs.GID = st.GID
		if st.Atime != 0 {
			attrs.Atime = time.Unix(int64(st.Atime), 0)
		}
	}

	return attrs
}
