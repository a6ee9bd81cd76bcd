package sshclient

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statInfo is a minimal os.FileInfo carrying a protocol attribute block.
type statInfo struct {
	name string
	stat *sftp.FileStat
}

func (s statInfo) Name() string       { return s.name }
func (s statInfo) Size() int64        { return int64(s.stat.Size) }
func (s statInfo) Mode() os.FileMode  { return os.FileMode(s.stat.Mode & 0o777) }
func (s statInfo) ModTime() time.Time { return time.Unix(int64(s.stat.Mtime), 0) }
func (s statInfo) IsDir() bool        { return false }
func (s statInfo) Sys() interface{}   { return s.stat }

func TestInfoToAttrs(t *testing.T) {
	fi := statInfo{
		name: "f",
		stat: &sftp.FileStat{
			Size:  4096,
			Mode:  0o640,
			UID:   1000,
			GID:   100,
			Atime: 1700000000,
			Mtime: 1700000100,
		},
	}

	attrs := infoToAttrs(fi)

	assert.EqualValues(t, 4096, attrs.Size)
	assert.EqualValues(t, 1000, attrs.UID)
	assert.EqualValues(t, 100, attrs.GID)
	assert.Equal(t, time.Unix(1700000000, 0), attrs.Atime)
	assert.Equal(t, time.Unix(1700000100, 0), attrs.Mtime)
}

func TestDirReplay(t *testing.T) {
	d := &dir{infos: []os.FileInfo{
		statInfo{name: "a", stat: &sftp.FileStat{Size: 1}},
		statInfo{name: "b", stat: &sftp.FileStat{Size: 2}},
	}}

	ent, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", ent.Name)
	assert.NotEmpty(t, ent.Longname)

	ent, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", ent.Name)

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMapStatusPassthrough(t *testing.T) {
	assert.NoError(t, mapStatus(nil))
	assert.Equal(t, io.EOF, mapStatus(io.EOF))
}
