package sshbridge

import (
	"io/fs"
	"path"
	"time"
)

// FileAttributes is an immutable snapshot of a remote object's metadata,
// as produced by stat and directory listing operations. It is a plain
// value; copy it freely.
type FileAttributes struct {
	Size  int64
	Mode  fs.FileMode
	UID   uint32
	GID   uint32
	Atime time.Time
	Mtime time.Time
}

// IsDir reports whether the attributes describe a directory.
func (a FileAttributes) IsDir() bool { return a.Mode.IsDir() }

// Perm returns the permission bits.
func (a FileAttributes) Perm() fs.FileMode { return a.Mode.Perm() }

// DirEntry is one entry produced while iterating an open remote
// directory: the bare name, its display-formatted long-form rendering,
// and the attribute snapshot.
type DirEntry struct {
	Name     string
	Longname string
	Attrs    FileAttributes
}

// fileInfo adapts FileAttributes to fs.FileInfo for consumers such as
// Walk and the long-form formatter.
type fileInfo struct {
	name  string
	attrs FileAttributes
}

// NewFileInfo returns an fs.FileInfo view over attrs. name may be a full
// path; only its base is reported.
func NewFileInfo(name string, attrs FileAttributes) fs.FileInfo {
	return &fileInfo{name: path.Base(name), attrs: attrs}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.attrs.Size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.attrs.Mode }
func (fi *fileInfo) ModTime() time.Time { return fi.attrs.Mtime }
func (fi *fileInfo) IsDir() bool        { return fi.attrs.IsDir() }
func (fi *fileInfo) Sys() interface{}   { return fi.attrs }
