package gather

import (
	"context"
	"time"

	"github.com/fwojciec/newsgather"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is called before each retry with the attempt about to be made.
type RetryFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying up to three times with delays of
// 1s, 2s and 4s.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, onRetry, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but with configurable delays,
// one retry per delay. Errors coded EINVALID or ENOTFOUND are returned
// without retrying.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		markup, err := fetch(ctx, url)
		if err == nil {
			return markup, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || permanent(err) {
			break
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if onRetry != nil {
			onRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

func permanent(err error) bool {
	switch newsgather.ErrorCode(err) {
	case newsgather.EINVALID, newsgather.ENOTFOUND:
		return true
	}
	return false
}
