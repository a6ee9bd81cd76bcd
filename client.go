package sshbridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/pkg/errors"
)

// ClientOption configures optional Client behavior.
type ClientOption func(*Client) error

// WithChunkSize sets the transfer buffer size.
func WithChunkSize(n int) ClientOption {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("chunk size cannot be less than 1, was: %d", n)
		}
		c.chunkSize = n
		return nil
	}
}

// WithOperationTimeout bounds the wall-clock time any single blocking
// protocol call may spend waiting for socket readiness.
func WithOperationTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("operation timeout must be positive, was: %v", d)
		}
		c.iv.timeout = d
		return nil
	}
}

// WithReadinessWaiter supplies the socket readiness primitive used to
// suspend between retries of a call that would block. Transports whose
// socket is a kernel descriptor should pass an FDWaiter.
func WithReadinessWaiter(w ReadinessWaiter) ClientOption {
	return func(c *Client) error {
		if w == nil {
			return errors.New("readiness waiter cannot be nil")
		}
		c.iv.waiter = w
		return nil
	}
}

// WithDelegate registers the notification delegate.
func WithDelegate(d Delegate) ClientOption {
	return func(c *Client) error {
		if d == nil {
			return errors.New("delegate cannot be nil")
		}
		c.delegate = d
		return nil
	}
}

// Client is the asynchronous interface over one established session. Any
// number of goroutines may call it concurrently; every operation is
// serialized onto the session's single execution context, so operations
// observe the handle-tree state left by the immediately preceding one.
//
// Operations against different Clients are fully independent.
type Client struct {
	exec *executor
	iv   invoker
	bufs *bufPool

	delegate  Delegate
	chunkSize int

	// Owned by the executor context. Only code running inside a
	// submitted operation may touch these.
	sess RawSession
	sub  RawSubsystem
}

// NewClient wraps an established session handle. The Client becomes the
// exclusive owner of sess; the caller must not use it afterwards.
func NewClient(sess RawSession, opts ...ClientOption) (*Client, error) {
	c := &Client{
		sess:      sess,
		chunkSize: DefaultChunkSize,
		delegate:  NopDelegate{},
		iv: invoker{
			waiter:  &backoffWaiter{},
			timeout: DefaultOperationTimeout,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.bufs = newBufPool(c.chunkSize)
	c.exec = newExecutor()

	return c, nil
}

// subsystem returns the live subsystem handle, deriving one from the
// session on first use. Must be called from inside the executor context.
func (c *Client) subsystem(ctx context.Context) (RawSubsystem, error) {
	if c.sub != nil {
		return c.sub, nil
	}

	sub, err := invoke(ctx, &c.iv, c.sess.OpenSubsystem)
	if err != nil {
		return nil, errors.Wrap(err, "open subsystem")
	}

	c.sub = sub
	c.delegate.Debug("subsystem opened")
	return sub, nil
}

// OpenSubsystem derives the file-transfer subsystem handle. A prior live
// subsystem handle is closed first: one session holds at most one.
func (c *Client) OpenSubsystem(ctx context.Context) error {
	return c.exec.submit(ctx, func() error {
		if c.sub != nil {
			closeQuiet(ctx, &c.iv, c.sub)
			c.sub = nil
		}
		_, err := c.subsystem(ctx)
		return err
	})
}

// CloseSubsystem closes the live subsystem handle, if any. The session
// itself stays open.
func (c *Client) CloseSubsystem(ctx context.Context) error {
	return c.exec.submit(ctx, func() error {
		if c.sub == nil {
			return nil
		}
		err := c.iv.do(ctx, c.sub.Close)
		c.sub = nil
		return err
	})
}

// Close tears down the subsystem and the session and stops the executor.
// Operations submitted afterwards fail with ErrClosed. Close is
// idempotent.
func (c *Client) Close() error {
	ctx := context.Background()

	err := c.exec.submit(ctx, func() error {
		if c.sub != nil {
			closeQuiet(ctx, &c.iv, c.sub)
			c.sub = nil
		}
		cerr := c.sess.Close()
		c.delegate.Disconnected(cerr)
		return cerr
	})
	if errors.Is(err, ErrClosed) {
		err = nil
	}

	c.exec.close()
	return err
}

// Stat returns the attributes of the remote object at path, following
// symlinks.
func (c *Client) Stat(ctx context.Context, path string) (FileAttributes, error) {
	return submitValue(ctx, c.exec, func() (FileAttributes, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return FileAttributes{}, err
		}
		attrs, err := invoke(ctx, &c.iv, func() (*FileAttributes, error) { return sub.Stat(path) })
		if err != nil {
			return FileAttributes{}, err
		}
		return *attrs, nil
	})
}

// Lstat is Stat without following a final symlink.
func (c *Client) Lstat(ctx context.Context, path string) (FileAttributes, error) {
	return submitValue(ctx, c.exec, func() (FileAttributes, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return FileAttributes{}, err
		}
		attrs, err := invoke(ctx, &c.iv, func() (*FileAttributes, error) { return sub.Lstat(path) })
		if err != nil {
			return FileAttributes{}, err
		}
		return *attrs, nil
	})
}

// StatVFS returns a capacity/usage summary of the filesystem holding
// path.
func (c *Client) StatVFS(ctx context.Context, path string) (*FSStat, error) {
	return submitValue(ctx, c.exec, func() (*FSStat, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return nil, err
		}
		return invoke(ctx, &c.iv, func() (*FSStat, error) { return sub.StatVFS(path) })
	})
}

// ReadLink returns the target of the symlink at path.
func (c *Client) ReadLink(ctx context.Context, path string) (string, error) {
	return submitValue(ctx, c.exec, func() (string, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return "", err
		}
		return invoke(ctx, &c.iv, func() (string, error) { return sub.ReadLink(path) })
	})
}

// RealPath canonicalizes path on the remote side.
func (c *Client) RealPath(ctx context.Context, path string) (string, error) {
	return submitValue(ctx, c.exec, func() (string, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return "", err
		}
		return invoke(ctx, &c.iv, func() (string, error) { return sub.RealPath(path) })
	})
}

// Symlink creates linkPath pointing at target.
func (c *Client) Symlink(ctx context.Context, target, linkPath string) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Symlink(target, linkPath) })
}

// Mkdir creates a directory with the given permissions.
func (c *Client) Mkdir(ctx context.Context, path string, perm fs.FileMode) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Mkdir(path, perm) })
}

// Create makes an empty file with the given permissions, truncating any
// existing content.
func (c *Client) Create(ctx context.Context, path string, perm fs.FileMode) error {
	return c.exec.submit(ctx, func() error {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return err
		}
		f, err := openForWrite(ctx, &c.iv, sub, path, perm)
		if err != nil {
			return err
		}
		return c.iv.do(ctx, f.Close)
	})
}

// Rename moves oldPath to newPath, requesting overwrite, atomic and
// native semantics together. See the subsystem implementation for the
// fallback order when the remote side cannot satisfy all three.
func (c *Client) Rename(ctx context.Context, oldPath, newPath string) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Rename(oldPath, newPath) })
}

// RemoveDirectory removes an empty directory.
func (c *Client) RemoveDirectory(ctx context.Context, path string) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.RemoveDirectory(path) })
}

// Remove removes a file.
func (c *Client) Remove(ctx context.Context, path string) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Remove(path) })
}

// Chown changes the owner and group of the remote object.
func (c *Client) Chown(ctx context.Context, path string, uid, gid int) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Chown(path, uid, gid) })
}

// Chmod changes the permission bits of the remote object.
func (c *Client) Chmod(ctx context.Context, path string, perm fs.FileMode) error {
	return c.submitSimple(ctx, func(sub RawSubsystem) error { return sub.Chmod(path, perm) })
}

// submitSimple runs one invoker-wrapped subsystem call inside the
// executor context.
func (c *Client) submitSimple(ctx context.Context, call func(RawSubsystem) error) error {
	return c.exec.submit(ctx, func() error {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return err
		}
		return c.iv.do(ctx, func() error { return call(sub) })
	})
}

// ReadDir lists the directory at path. The well-known self and parent
// markers are filtered out; every other entry carries its name, a
// long-form rendering and an attribute snapshot.
func (c *Client) ReadDir(ctx context.Context, path string) ([]*DirEntry, error) {
	return submitValue(ctx, c.exec, func() ([]*DirEntry, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return nil, err
		}

		d, err := invoke(ctx, &c.iv, func() (RawDir, error) { return sub.OpenDir(path) })
		if err != nil {
			return nil, &OpenError{Path: path, Err: lastOr(sub, err)}
		}
		defer closeQuiet(ctx, &c.iv, d)

		stream := &dirStream{ctx: ctx, d: d, iv: &c.iv}

		var entries []*DirEntry
		for {
			ent, err := stream.next()
			if err != nil {
				return entries, err
			}
			if ent == nil {
				return entries, nil
			}
			entries = append(entries, ent)
		}
	})
}

// ReadFile streams the remote file at path into sink, invoking progress
// after every chunk. It returns the number of bytes written to sink, also
// on failure. A declared size is obtained by stat before opening; when it
// is known, moving fewer bytes is reported as ErrShortTransfer.
func (c *Client) ReadFile(ctx context.Context, path string, sink io.Writer, progress ProgressFunc) (int64, error) {
	return submitValue(ctx, c.exec, func() (int64, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return 0, err
		}

		f, size, err := openForRead(ctx, &c.iv, sub, path)
		if err != nil {
			return 0, err
		}
		defer closeQuiet(ctx, &c.iv, f)

		buf := c.bufs.get()
		defer c.bufs.put(buf)

		src := &remoteReader{ctx: ctx, f: f, iv: &c.iv}

		n, err := copyChunks(sink, src, buf, size, progress)
		if err != nil {
			return n, err
		}
		if size != SizeUnknown && n != size {
			return n, errors.Wrapf(ErrShortTransfer, "read %d of %d bytes", n, size)
		}
		c.debugf("read %s: %d bytes", path, n)
		return n, nil
	})
}

// ReadFileBytes is ReadFile buffered into memory.
func (c *Client) ReadFileBytes(ctx context.Context, path string, progress ProgressFunc) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.ReadFile(ctx, path, &buf, progress); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile creates (or truncates) the remote file at path with the given
// permissions and streams src into it. size is the declared total used
// for progress reporting only; pass SizeUnknown when it cannot be
// determined. Completion is defined by source exhaustion. The byte count
// moved before any failure is returned alongside the error.
func (c *Client) WriteFile(ctx context.Context, path string, src io.Reader, size int64, perm fs.FileMode, progress ProgressFunc) (int64, error) {
	return submitValue(ctx, c.exec, func() (int64, error) {
		sub, err := c.subsystem(ctx)
		if err != nil {
			return 0, err
		}

		f, err := openForWrite(ctx, &c.iv, sub, path, perm)
		if err != nil {
			return 0, err
		}

		buf := c.bufs.get()
		defer c.bufs.put(buf)

		dst := &remoteWriter{ctx: ctx, f: f, iv: &c.iv}

		n, cerr := copyChunks(dst, src, buf, size, progress)

		// The handle is closed on every terminal state; a close failure
		// only surfaces when the transfer itself succeeded.
		closeErr := c.iv.do(ctx, f.Close)
		if cerr != nil {
			return n, cerr
		}
		if closeErr != nil {
			return n, closeErr
		}
		c.debugf("wrote %s: %d bytes", path, n)
		return n, nil
	})
}

// WriteFileBytes writes data to the remote file at path.
func (c *Client) WriteFileBytes(ctx context.Context, path string, data []byte, perm fs.FileMode, progress ProgressFunc) error {
	_, err := c.WriteFile(ctx, path, bytes.NewReader(data), int64(len(data)), perm, progress)
	return err
}

func (c *Client) debugf(format string, args ...interface{}) {
	c.delegate.Debug(fmt.Sprintf(format, args...))
}
