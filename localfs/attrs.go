package localfs

import (
	"os"

	"github.com/bridgefs/sshbridge"
)

func fileInfoToAttrs(fi os.FileInfo) sshbridge.FileAttributes {
	attrs := sshbridge.FileAttributes{
		Size:  fi.Size(),
		Mode:  fi.Mode(),
		Mtime: fi.ModTime(),
		Atime: fi.ModTime(),
	}

	attrsFromInfoOS(fi, &attrs)

	return attrs
}
