package sshbridge

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type staticLookup struct{}

func (staticLookup) LookupUserName(uid string) string  { return "user-" + uid }
func (staticLookup) LookupGroupName(gid string) string { return "group-" + gid }

func TestFormatLongname(t *testing.T) {
	attrs := FileAttributes{
		Size:  1234,
		Mode:  0o755 | fs.ModeDir,
		UID:   1000,
		GID:   100,
		Mtime: time.Now(),
	}

	long := FormatLongname("docs", attrs, nil)

	assert.True(t, strings.HasPrefix(long, "drwxr-xr-x"), long)
	assert.Contains(t, long, "1234")
	assert.True(t, strings.HasSuffix(long, " docs"), long)
}

func TestFormatLongnameIDLookup(t *testing.T) {
	attrs := FileAttributes{Mode: 0o644, UID: 7, GID: 8, Mtime: time.Now()}

	long := FormatLongname("f", attrs, staticLookup{})

	assert.Contains(t, long, "user-7")
	assert.Contains(t, long, "group-8")
}

func TestFormatLongnameOldFilesShowYear(t *testing.T) {
	attrs := FileAttributes{Mode: 0o644, Mtime: time.Date(2019, time.March, 5, 10, 0, 0, 0, time.UTC)}

	long := FormatLongname("old", attrs, nil)

	assert.Contains(t, long, "2019")
	assert.NotContains(t, long, "10:00")
}
