//go:build integration && !windows

package rod_test

import (
	"bytes"
	"log/slog"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the manager's concurrent logging.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBrowserManager(t *testing.T) {
	t.Parallel()

	t.Run("replaces the browser after max pages and logs it", func(t *testing.T) {
		t.Parallel()

		var logs syncBuffer
		manager, err := rod.NewBrowserManager(
			rod.WithMaxPages(2),
			rod.WithManagerLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)
		require.NoError(t, err)
		defer manager.Close()

		first := manager.LauncherPID()
		for range 2 {
			_, release, err := manager.Page()
			require.NoError(t, err)
			release()
		}
		assert.Equal(t, first, manager.LauncherPID())

		_, release, err := manager.Page()
		require.NoError(t, err)
		release()

		assert.NotEqual(t, first, manager.LauncherPID())
		assert.Contains(t, logs.String(), "browser recycled")
		assert.Contains(t, logs.String(), "pages=2")
	})

	t.Run("waits for pages in use before replacing the browser", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.LauncherPID()
		_, releaseA, err := manager.Page()
		require.NoError(t, err)
		_, releaseB, err := manager.Page()
		require.NoError(t, err)

		opened := make(chan error, 1)
		go func() {
			_, release, err := manager.Page()
			if err == nil {
				release()
			}
			opened <- err
		}()

		select {
		case <-opened:
			t.Fatal("page opened while the old browser still had pages in use")
		case <-time.After(200 * time.Millisecond):
		}
		assert.Equal(t, first, manager.LauncherPID())

		releaseA()
		releaseB()
		releaseB()

		require.NoError(t, <-opened)
		assert.NotEqual(t, first, manager.LauncherPID())
	})

	t.Run("refuses pages after close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NoError(t, manager.Close())

		_, _, err = manager.Page()

		assert.Equal(t, newsgather.EINVALID, newsgather.ErrorCode(err))
		assert.Zero(t, manager.LauncherPID())
	})

	t.Run("kills the launcher process on close", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)

		pid := fetcher.LauncherPID()
		require.NotZero(t, pid)
		// Signal 0 only checks that the process exists.
		require.NoError(t, syscall.Kill(pid, syscall.Signal(0)))

		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close(), "second Close is a no-op")

		time.Sleep(100 * time.Millisecond)
		assert.Error(t, syscall.Kill(pid, syscall.Signal(0)))
	})
}
