package sshbridge

import (
	"context"
	"os"
	"path"

	"github.com/kr/fs"
)

// Walk returns a new Walker rooted at root, traversing the remote tree
// through this Client. Every directory read and stat performed by the
// walk is an ordinary serialized operation.
func (c *Client) Walk(ctx context.Context, root string) *fs.Walker {
	return fs.WalkFS(root, &walkFS{ctx: ctx, c: c})
}

// walkFS adapts the Client to the kr/fs FileSystem interface.
type walkFS struct {
	ctx context.Context
	c   *Client
}

func (w *walkFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := w.c.ReadDir(w.ctx, dirname)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, ent := range entries {
		infos = append(infos, NewFileInfo(ent.Name, ent.Attrs))
	}
	return infos, nil
}

func (w *walkFS) Lstat(name string) (os.FileInfo, error) {
	attrs, err := w.c.Lstat(w.ctx, name)
	if err != nil {
		return nil, err
	}
	return NewFileInfo(name, attrs), nil
}

func (w *walkFS) Join(elem ...string) string {
	return path.Join(elem...)
}
