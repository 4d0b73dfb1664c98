package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
)

type collector struct {
	mu   sync.Mutex
	data []byte
}

func (c *collector) flush(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(c.data, p...)
}

func (c *collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.data)
}

func TestProgressBatcher_FlushOnSize(t *testing.T) {
	var c collector
	bp := telemetry.NewProgressBatcher(5, time.Hour, c.flush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("123"))
	require.NoError(t, err)
	assert.Empty(t, c.String())

	_, err = bp.Write([]byte("456"))
	require.NoError(t, err)
	assert.Equal(t, "123456", c.String())
}

func TestProgressBatcher_FlushOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c collector
		bp := telemetry.NewProgressBatcher(100, 50*time.Millisecond, c.flush)
		defer func() { _ = bp.Close() }()

		_, err := bp.Write([]byte("concat: 6 file(s)\n"))
		require.NoError(t, err)
		assert.Empty(t, c.String())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, "concat: 6 file(s)\n", c.String())
	})
}

func TestProgressBatcher_HoldsPartialLine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c collector
		bp := telemetry.NewProgressBatcher(100, 50*time.Millisecond, c.flush)

		_, err := bp.Write([]byte("rename: 1 file(s)\nwrote dist/"))
		require.NoError(t, err)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, "rename: 1 file(s)\n", c.String())

		_, err = bp.Write([]byte("css\n"))
		require.NoError(t, err)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, "rename: 1 file(s)\nwrote dist/css\n", c.String())

		require.NoError(t, bp.Close())
	})
}

func TestProgressBatcher_SizeLimitEmitsWholeLines(t *testing.T) {
	var c collector
	bp := telemetry.NewProgressBatcher(8, time.Hour, c.flush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("abc\ndefgh"))
	require.NoError(t, err)
	assert.Equal(t, "abc\n", c.String())

	bp.Flush()
	assert.Equal(t, "abc\ndefgh", c.String())
}

func TestProgressBatcher_ManualFlush(t *testing.T) {
	var c collector
	bp := telemetry.NewProgressBatcher(100, time.Hour, c.flush)
	defer func() { _ = bp.Close() }()

	_, err := bp.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Empty(t, c.String())

	bp.Flush()
	assert.Equal(t, "hello", c.String())
}

func TestProgressBatcher_CloseFlushes(t *testing.T) {
	var c collector
	bp := telemetry.NewProgressBatcher(100, time.Hour, c.flush)

	_, err := bp.Write([]byte("pending"))
	require.NoError(t, err)

	require.NoError(t, bp.Close())
	assert.Equal(t, "pending", c.String())

	_, err = bp.Write([]byte("fail"))
	require.ErrorIs(t, err, telemetry.ErrBatcherClosed)

	require.NoError(t, bp.Close(), "second Close is a no-op")
}

func TestProgressBatcher_ConcurrentWrites(t *testing.T) {
	var c collector
	bp := telemetry.NewProgressBatcher(20, 10*time.Millisecond, c.flush)

	const workers, iterations = 10, 100

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for j := range iterations {
				_, _ = bp.Write([]byte("a"))
				if j%10 == 0 {
					bp.Flush()
				}
			}
		})
	}

	wg.Wait()
	require.NoError(t, bp.Close())
	assert.Len(t, c.String(), workers*iterations)
}
