package localfs

import (
	"errors"
	"io"
	"os"

	"github.com/bridgefs/sshbridge"
)

var (
	errNotDir = errors.New("not a directory")
	errIsDir  = errors.New("is a directory")
)

// File wraps an os.File as an sshbridge.RawFile. Local files never block
// on socket readiness, so reads and writes are always definitive.
type File struct {
	*os.File
}

// readdirBatch is the number of entries fetched from the kernel per
// Readdir call while streaming a directory.
const readdirBatch = 128

// Dir wraps an open directory as an sshbridge.RawDir, yielding one entry
// per Next call from batched kernel reads.
type Dir struct {
	f        *os.File
	idLookup sshbridge.NameLookup

	pending []os.FileInfo
	err     error
}

// Next implements sshbridge.RawDir. It returns io.EOF once the directory
// is exhausted.
func (d *Dir) Next() (*sshbridge.DirEntry, error) {
	for len(d.pending) == 0 {
		if d.err != nil {
			return nil, d.err
		}

		infos, err := d.f.Readdir(readdirBatch)
		d.pending = infos

		// Readdir can return entries and io.EOF together; hold the
		// error until the entries have been yielded.
		d.err = err
		if len(infos) == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, err
		}
	}

	fi := d.pending[0]
	d.pending = d.pending[1:]

	attrs := fileInfoToAttrs(fi)

	return &sshbridge.DirEntry{
		Name:     fi.Name(),
		Longname: sshbridge.FormatLongname(fi.Name(), attrs, d.idLookup),
		Attrs:    attrs,
	}, nil
}

// Close implements sshbridge.RawDir.
func (d *Dir) Close() error {
	return d.f.Close()
}
