package sink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFile fails writes or syncs on demand.
type failingFile struct {
	failWrite bool
	failSync  bool
	lines     []byte
}

func (f *failingFile) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errors.New("device full")
	}
	f.lines = append(f.lines, p...)
	return len(p), nil
}

func (f *failingFile) Sync() error {
	if f.failSync {
		return errors.New("sync failed")
	}
	return nil
}

func (f *failingFile) Close() error { return nil }

func TestAppendWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.WriteBanner(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, s.Append("first record"))
	require.NoError(t, s.Append("second record"))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "=== Logger Started at 2026-08-25T10:00:00Z ===", lines[0])
	assert.Equal(t, "first record", lines[1])
	assert.Equal(t, "second record", lines[2])
}

func TestAppendIsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append("from first open"))
	require.NoError(t, s.Close())

	// Reopening must not truncate.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append("from second open"))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from first open\nfrom second open\n", string(data))
}

func TestAppendSurfacesWriteFailure(t *testing.T) {
	file := &failingFile{failWrite: true}
	s := NewSink(file)

	err := s.Append("doomed")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "device full")
}

func TestAppendSurfacesSyncFailure(t *testing.T) {
	file := &failingFile{failSync: true}
	s := NewSink(file)

	err := s.Append("written but not durable")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}

func TestAppendAfterClose(t *testing.T) {
	s := NewSink(&failingFile{})
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Append("too late"), ErrClosed)

	// Close is idempotent.
	assert.NoError(t, s.Close())
}

// TestConcurrentAppend checks the internal lock serializes writers: every
// line must land intact, never interleaved mid-line.
func TestConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	s, err := Open(path)
	require.NoError(t, err)

	writers := 8
	perWriter := 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			line := strings.Repeat(string(rune('a'+w)), 40)
			for i := 0; i < perWriter; i++ {
				assert.NoError(t, s.Append(line))
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, writers*perWriter)
	for _, line := range lines {
		require.Len(t, line, 40)
		assert.Equal(t, strings.Repeat(line[:1], 40), line)
	}
}
