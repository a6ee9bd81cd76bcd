package sshbridge

import (
	"context"
	"io"
	"io/fs"
)

// remoteReader presents an open remote file handle as an io.Reader whose
// every Read is one invoker-wrapped blocking call. A would-block result
// consumes no bytes, so retrying the read into the same buffer is safe.
type remoteReader struct {
	ctx context.Context
	f   RawFile
	iv  *invoker
}

func (r *remoteReader) Read(p []byte) (int, error) {
	var n int
	err := r.iv.do(r.ctx, func() error {
		var err error
		n, err = r.f.Read(p)
		return err
	})
	return n, err
}

// remoteWriter is the write-direction counterpart of remoteReader.
type remoteWriter struct {
	ctx context.Context
	f   RawFile
	iv  *invoker
}

func (w *remoteWriter) Write(p []byte) (int, error) {
	var n int
	err := w.iv.do(w.ctx, func() error {
		var err error
		n, err = w.f.Write(p)
		return err
	})
	return n, err
}

// openForRead opens path for reading, stat-ing it first so the transfer
// can report a declared size. On failure no handle is held; the
// subsystem's last-error state is folded into the OpenError.
func openForRead(ctx context.Context, iv *invoker, sub RawSubsystem, path string) (RawFile, int64, error) {
	size := SizeUnknown
	if attrs, err := invoke(ctx, iv, func() (*FileAttributes, error) { return sub.Stat(path) }); err == nil {
		size = attrs.Size
	}

	f, err := invoke(ctx, iv, func() (RawFile, error) { return sub.OpenRead(path) })
	if err != nil {
		return nil, 0, &OpenError{Path: path, Err: lastOr(sub, err)}
	}
	return f, size, nil
}

// openForWrite opens (creating or truncating) path for writing. The
// declared size is supplied by the caller and used for progress reporting
// only, never for protocol framing.
func openForWrite(ctx context.Context, iv *invoker, sub RawSubsystem, path string, perm fs.FileMode) (RawFile, error) {
	f, err := invoke(ctx, iv, func() (RawFile, error) { return sub.OpenWrite(path, perm) })
	if err != nil {
		return nil, &OpenError{Path: path, Err: lastOr(sub, err)}
	}
	return f, nil
}

// lastOr prefers the subsystem's recorded last error over the generic
// failure err, for diagnostics.
func lastOr(sub RawSubsystem, err error) error {
	if last := sub.LastError(); last != nil {
		return last
	}
	return err
}

// closeQuiet releases a handle on an exit path where a more interesting
// error is already in flight.
func closeQuiet(ctx context.Context, iv *invoker, c io.Closer) {
	_ = iv.do(ctx, c.Close)
}
