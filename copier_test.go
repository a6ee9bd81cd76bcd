package sshbridge

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader tracks how many Read calls were made.
type countingReader struct {
	r     *bytes.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

// shortWriter accepts only half of each write.
type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestCopyChunksRoundTrip(t *testing.T) {
	// Size deliberately not a multiple of the chunk size.
	const size = 10000
	const chunk = 333

	src := make([]byte, size)
	_, err := rand.New(rand.NewSource(1)).Read(src)
	require.NoError(t, err)

	var dst bytes.Buffer
	var progress []int64

	n, err := copyChunks(&dst, bytes.NewReader(src), make([]byte, chunk), size, func(transferred, total int64) bool {
		assert.EqualValues(t, size, total)
		progress = append(progress, transferred)
		return true
	})

	require.NoError(t, err)
	assert.EqualValues(t, size, n)
	assert.Equal(t, src, dst.Bytes())

	require.NotEmpty(t, progress)
	assert.EqualValues(t, size, progress[len(progress)-1], "final reported progress must equal the source size")
	for i := 1; i < len(progress); i++ {
		assert.Less(t, progress[i-1], progress[i], "progress must be monotonic")
	}
}

func TestCopyChunksCancelAfterFirstChunk(t *testing.T) {
	const chunk = 16

	src := &countingReader{r: bytes.NewReader(make([]byte, 10*chunk))}
	var dst bytes.Buffer

	n, err := copyChunks(&dst, src, make([]byte, chunk), 10*chunk, func(transferred, total int64) bool {
		return false
	})

	require.ErrorIs(t, err, ErrCancelled)
	assert.EqualValues(t, chunk, n)
	assert.Equal(t, 1, src.reads, "no further chunks may be read after cancellation")
	assert.Equal(t, chunk, dst.Len(), "no further chunks may be written after cancellation")
}

func TestCopyChunksShortWrite(t *testing.T) {
	src := bytes.NewReader(make([]byte, 64))

	_, err := copyChunks(shortWriter{}, src, make([]byte, 32), 64, nil)

	require.ErrorIs(t, err, ErrShortTransfer)
}

func TestCopyChunksUnknownTotal(t *testing.T) {
	src := bytes.NewReader([]byte("hello world"))
	var dst bytes.Buffer

	var sawTotal int64
	n, err := copyChunks(&dst, src, make([]byte, 4), SizeUnknown, func(transferred, total int64) bool {
		sawTotal = total
		return true
	})

	require.NoError(t, err)
	assert.EqualValues(t, 11, n)
	assert.Equal(t, SizeUnknown, sawTotal)
}

func TestCopyChunksEmptySource(t *testing.T) {
	var dst bytes.Buffer

	calls := 0
	n, err := copyChunks(&dst, bytes.NewReader(nil), make([]byte, 8), 0, func(int64, int64) bool {
		calls++
		return true
	})

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, calls, "no chunks means no progress callbacks")
}

func TestBufPoolRecycles(t *testing.T) {
	p := newBufPool(64)

	b := p.get()
	require.Len(t, b, 64)
	p.put(b)

	// A foreign-sized buffer must not poison the pool.
	p.put(make([]byte, 16))
	assert.Len(t, p.get(), 64)
}
