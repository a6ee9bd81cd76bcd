package sshbridge_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgefs/sshbridge"
	"github.com/bridgefs/sshbridge/localfs"
)

func newTestClient(t *testing.T, opts ...sshbridge.ClientOption) (*sshbridge.Client, string) {
	t.Helper()

	dir := t.TempDir()

	cl, err := sshbridge.NewClient(localfs.NewSession(dir), opts...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = cl.Close() })

	return cl, dir
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	_, err := rand.New(rand.NewSource(int64(n))).Read(b)
	require.NoError(t, err)
	return b
}

func TestWriteThenStat(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	content := randomBytes(t, 4321)

	require.NoError(t, cl.WriteFileBytes(ctx, "data.bin", content, 0o600, nil))

	attrs, err := cl.Stat(ctx, "data.bin")
	require.NoError(t, err)

	assert.EqualValues(t, len(content), attrs.Size)
	assert.Equal(t, fs.FileMode(0o600), attrs.Perm())
}

func TestCreateEmptyFile(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.Create(ctx, "empty", 0o640))

	attrs, err := cl.Stat(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, attrs.Size)
}

func TestReadFileRoundTrip(t *testing.T) {
	// Chunk size chosen so the transfer does not divide evenly.
	cl, dir := newTestClient(t, sshbridge.WithChunkSize(333))
	ctx := context.Background()

	content := randomBytes(t, 10000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.bin"), content, 0o644))

	var sink bytes.Buffer
	var progress []int64

	n, err := cl.ReadFile(ctx, "src.bin", &sink, func(transferred, total int64) bool {
		assert.EqualValues(t, len(content), total, "declared size comes from the preceding stat")
		progress = append(progress, transferred)
		return true
	})

	require.NoError(t, err)
	assert.EqualValues(t, len(content), n)
	assert.Equal(t, content, sink.Bytes())

	require.NotEmpty(t, progress)
	assert.EqualValues(t, len(content), progress[len(progress)-1])
	assert.True(t, sort.SliceIsSorted(progress, func(i, j int) bool { return progress[i] < progress[j] }))
}

func TestWriteFileRoundTrip(t *testing.T) {
	cl, dir := newTestClient(t, sshbridge.WithChunkSize(128))
	ctx := context.Background()

	content := randomBytes(t, 1000)

	n, err := cl.WriteFile(ctx, "out.bin", bytes.NewReader(content), int64(len(content)), 0o644, nil)
	require.NoError(t, err)
	assert.EqualValues(t, len(content), n)

	got, err := os.ReadFile(filepath.Join(dir, "out.bin"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadFileCancel(t *testing.T) {
	cl, dir := newTestClient(t, sshbridge.WithChunkSize(8))
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "big"), randomBytes(t, 64), 0o644))

	var sink bytes.Buffer

	n, err := cl.ReadFile(ctx, "big", &sink, func(transferred, total int64) bool {
		return false
	})

	require.ErrorIs(t, err, sshbridge.ErrCancelled)
	assert.EqualValues(t, 8, n, "cancellation takes effect at the chunk boundary")

	// A subsequent operation must still work: cancellation cleans up
	// the handles it opened.
	_, err = cl.Stat(ctx, "big")
	require.NoError(t, err)
}

func TestReadFileMissing(t *testing.T) {
	cl, _ := newTestClient(t)

	var sink bytes.Buffer
	_, err := cl.ReadFile(context.Background(), "no-such-file", &sink, nil)

	var openErr *sshbridge.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, sink.Len())
}

func TestReadDir(t *testing.T) {
	cl, dir := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	entries, err := cl.ReadDir(ctx, ".")
	require.NoError(t, err)
	require.Len(t, entries, 3, "self and parent markers must be filtered out")

	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		assert.NotContains(t, []string{".", ".."}, ent.Name)
		assert.NotEmpty(t, ent.Longname)
		names = append(names, ent.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)
}

func TestRenameOverwritesTarget(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.WriteFileBytes(ctx, "old", []byte("payload"), 0o644, nil))
	require.NoError(t, cl.WriteFileBytes(ctx, "new", []byte("stale"), 0o644, nil))

	require.NoError(t, cl.Rename(ctx, "old", "new"))

	_, err := cl.Stat(ctx, "old")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	got, err := cl.ReadFileBytes(ctx, "new", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestMkdirRemoveDirectory(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.Mkdir(ctx, "d", 0o755))

	attrs, err := cl.Stat(ctx, "d")
	require.NoError(t, err)
	assert.True(t, attrs.IsDir())

	require.NoError(t, cl.RemoveDirectory(ctx, "d"))

	_, err = cl.Stat(ctx, "d")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRemoveRefusesDirectory(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.Mkdir(ctx, "d", 0o755))
	require.Error(t, cl.Remove(ctx, "d"))

	require.NoError(t, cl.Create(ctx, "f", 0o644))
	require.NoError(t, cl.Remove(ctx, "f"))
}

func TestSymlinkReadLink(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.Create(ctx, "target", 0o644))
	require.NoError(t, cl.Symlink(ctx, "target", "link"))

	got, err := cl.ReadLink(ctx, "link")
	require.NoError(t, err)
	assert.Equal(t, "target", got)

	attrs, err := cl.Lstat(ctx, "link")
	require.NoError(t, err)
	assert.NotZero(t, attrs.Mode&fs.ModeSymlink)
}

func TestRealPath(t *testing.T) {
	cl, dir := newTestClient(t)

	resolved, err := cl.RealPath(context.Background(), ".")
	require.NoError(t, err)

	// TempDir itself may contain symlinks (macOS /tmp); resolve both
	// sides before comparing.
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestChmod(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.Create(ctx, "f", 0o644))
	require.NoError(t, cl.Chmod(ctx, "f", 0o600))

	attrs, err := cl.Stat(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), attrs.Perm())
}

func TestStatVFS(t *testing.T) {
	cl, _ := newTestClient(t)

	st, err := cl.StatVFS(context.Background(), ".")
	if err != nil {
		t.Skipf("statvfs not supported here: %v", err)
	}

	assert.NotZero(t, st.TotalSpace())
	assert.LessOrEqual(t, st.FreeSpace(), st.TotalSpace())
}

func TestSubsystemLifecycle(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, cl.OpenSubsystem(ctx))
	// Re-opening replaces the prior handle; at most one is live.
	require.NoError(t, cl.OpenSubsystem(ctx))

	require.NoError(t, cl.Create(ctx, "f", 0o644))

	require.NoError(t, cl.CloseSubsystem(ctx))

	// Operations lazily derive a fresh subsystem afterwards.
	_, err := cl.Stat(ctx, "f")
	require.NoError(t, err)
}

func TestCloseThenSubmit(t *testing.T) {
	cl, _ := newTestClient(t)

	require.NoError(t, cl.Close())
	require.NoError(t, cl.Close(), "close is idempotent")

	_, err := cl.Stat(context.Background(), ".")
	assert.ErrorIs(t, err, sshbridge.ErrClosed)

	err = cl.Mkdir(context.Background(), "d", 0o755)
	assert.ErrorIs(t, err, sshbridge.ErrClosed)
}

func TestConcurrentCallers(t *testing.T) {
	cl, _ := newTestClient(t)
	ctx := context.Background()

	content := randomBytes(t, 2048)
	require.NoError(t, cl.WriteFileBytes(ctx, "shared.bin", content, 0o644, nil))

	const callers = 16

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			switch i % 3 {
			case 0:
				_, errs[i] = cl.Stat(ctx, "shared.bin")
			case 1:
				_, errs[i] = cl.ReadFileBytes(ctx, "shared.bin", nil)
			default:
				_, errs[i] = cl.ReadDir(ctx, ".")
			}
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		assert.NoErrorf(t, err, "caller %d", i)
	}
}

func TestWalk(t *testing.T) {
	cl, dir := newTestClient(t)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "f1"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "f2"), []byte("2"), 0o644))

	var files []string

	walker := cl.Walk(context.Background(), "a")
	for walker.Step() {
		require.NoError(t, walker.Err())
		if !walker.Stat().IsDir() {
			files = append(files, walker.Stat().Name())
		}
	}

	sort.Strings(files)
	assert.Equal(t, []string{"f1", "f2"}, files)
}

func TestWriteFileReportsBytesOnFailure(t *testing.T) {
	cl, _ := newTestClient(t, sshbridge.WithChunkSize(4))
	ctx := context.Background()

	boom := errors.New("source exploded")
	src := &failingReader{data: []byte("12345678"), failAfter: 8, err: boom}

	n, err := cl.WriteFile(ctx, "partial", src, sshbridge.SizeUnknown, 0o644, nil)

	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 8, n, "the byte count achieved before the failure is reported")
}

// failingReader yields its data and then a hard error instead of EOF.
type failingReader struct {
	data      []byte
	failAfter int
	err       error

	off int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.off >= r.failAfter {
		return 0, r.err
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}
