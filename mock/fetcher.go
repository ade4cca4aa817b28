package mock

import (
	"context"

	"github.com/fwojciec/newsgather"
)

var (
	_ newsgather.Fetcher       = (*Fetcher)(nil)
	_ newsgather.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of newsgather.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Close calls CloseFn, or does nothing when it is not set.
func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of newsgather.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
