package newsgather

import "context"

// Fetcher retrieves rendered markup from URLs. It is the browser capability
// the gatherer drives; the extraction core never calls it.
type Fetcher interface {
	// Fetch navigates to the URL, waits for client-side rendering to
	// finish and returns the resulting markup.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
