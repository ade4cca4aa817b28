package gather_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/gather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements newsgather.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ newsgather.DomainLimiter = gather.NewDomainLimiter(1)
	})

	t.Run("delays the second request to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := gather.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("does not delay requests to other hosts", func(t *testing.T) {
		t.Parallel()

		limiter := gather.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "other.example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, 2, limiter.Len())
	})

	t.Run("returns an error when the context ends first", func(t *testing.T) {
		t.Parallel()

		limiter := gather.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		limiter := gather.NewDomainLimiter(200)

		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = limiter.Wait(context.Background(), "example.com")
			}()
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, 1, limiter.Len())
	})
}
