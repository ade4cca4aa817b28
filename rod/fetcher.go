// Package rod provides the browser capability on top of go-rod: a headless
// Chrome that renders news pages, including client-side redirects, before
// handing their markup to the extraction core.
package rod

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/newsgather"
)

// DefaultFetchTimeout bounds a single page load when the caller's context
// has no earlier deadline.
const DefaultFetchTimeout = 10 * time.Second

// DefaultSettleTime is how long the DOM must stay unchanged before a page
// counts as rendered.
const DefaultSettleTime = 500 * time.Millisecond

// serializeJS serializes the document including open shadow roots, which
// page.HTML would otherwise leave out. Shadow content ends up inside
// <template shadowrootmode> elements.
const serializeJS = `() => {
	const roots = [];
	const collect = (scope) => {
		for (const el of scope.querySelectorAll('*')) {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				collect(el.shadowRoot);
			}
		}
	};
	collect(document);
	const root = document.documentElement;
	if (roots.length === 0 || typeof root.getHTML !== 'function') {
		return root.outerHTML;
	}
	return '<html>' + root.getHTML({shadowRoots: roots}) + '</html>';
}`

// Ensure Fetcher implements newsgather.Fetcher at compile time.
var _ newsgather.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	managerOpts []ManagerOption
	timeout     time.Duration
	settle      time.Duration
	logger      *slog.Logger
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of a single Fetch call.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleTime sets how long the DOM must be stable before the markup is
// read. Defaults to DefaultSettleTime; zero disables the wait.
func WithSettleTime(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithLogger sets the logger used to report redirects and browser
// recycling.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		settle:  DefaultSettleTime,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}

	managerOpts := append([]ManagerOption{WithManagerLogger(f.logger)}, f.managerOpts...)
	manager, err := NewBrowserManager(managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL, follows any redirects, waits for the DOM to
// settle and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", newsgather.Errorf(newsgather.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return "", err
	}
	defer release()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if f.settle > 0 {
		if err := page.WaitDOMStable(f.settle, 0); err != nil {
			return "", err
		}
	}

	if info, err := page.Info(); err == nil && info.URL != url {
		f.logger.Warn("redirect", "from", url, "to", info.URL)
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
