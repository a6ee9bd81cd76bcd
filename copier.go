package sshbridge

import (
	"io"
	"sync"
)

// bufPool recycles transfer buffers across copies of the same chunk size.
// Buffers of a different size are dropped rather than kept.
type bufPool struct {
	pool sync.Pool
	size int
}

func newBufPool(size int) *bufPool {
	return &bufPool{size: size}
}

func (p *bufPool) get() []byte {
	if b, ok := p.pool.Get().([]byte); ok && len(b) == p.size {
		return b
	}
	return make([]byte, p.size)
}

func (p *bufPool) put(b []byte) {
	if len(b) != p.size {
		return
	}
	p.pool.Put(b) //nolint:staticcheck
}

// copyChunks moves bytes from src to dst in chunks of at most len(buf),
// invoking progress after every chunk with the running total and the
// declared size. It returns the number of bytes written to dst.
//
// A zero-length read or io.EOF ends the copy cleanly. progress returning
// false stops the loop at the chunk boundary with ErrCancelled: no further
// bytes are read or written. A partial write fails immediately with
// ErrShortTransfer; the copy is never resumed or retried at this layer.
func copyChunks(dst io.Writer, src io.Reader, buf []byte, total int64, progress ProgressFunc) (int64, error) {
	var written int64

	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, ErrShortTransfer
			}
			if progress != nil && !progress(written, total) {
				return written, ErrCancelled
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return written, nil
			}
			return written, rerr
		}
		if n == 0 {
			// A zero-length read without error signals end-of-data.
			return written, nil
		}
	}
}
