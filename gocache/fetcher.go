// Package gocache provides an in-memory caching decorator for
// newsgather.Fetcher on top of patrickmn/go-cache. A gather run fetches the
// search page and then every result; repeated runs within the TTL, and
// concurrent requests for the same URL, hit the browser only once.
package gocache

import (
	"context"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long fetched markup stays cached.
const DefaultTTL = 10 * time.Minute

// Ensure Fetcher implements newsgather.Fetcher at compile time.
var _ newsgather.Fetcher = (*Fetcher)(nil)

// Fetcher caches the markup returned by the wrapped Fetcher, keyed by URL.
// Failed fetches are not cached. Fetcher is safe for concurrent use.
type Fetcher struct {
	next  newsgather.Fetcher
	cache *cache.Cache
	group singleflight.Group
}

// NewFetcher wraps next with a cache whose entries expire after ttl.
// A ttl of zero or less selects DefaultTTL.
func NewFetcher(next newsgather.Fetcher, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Fetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Fetch returns the cached markup for url, fetching it on a miss.
// Concurrent misses for the same URL share a single underlying fetch, which
// outlives the cancellation of any one caller; a canceled caller stops
// waiting and gets its context error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if v, ok := f.cache.Get(url); ok {
		return v.(string), nil
	}

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(url, func() (any, error) {
		html, err := f.next.Fetch(shared, url)
		if err != nil {
			return "", err
		}
		f.cache.SetDefault(url, html)
		return html, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Len returns the number of cached pages, expired ones included until the
// next cleanup.
func (f *Fetcher) Len() int {
	return f.cache.ItemCount()
}

// Close flushes the cache and closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	f.cache.Flush()
	return f.next.Close()
}
