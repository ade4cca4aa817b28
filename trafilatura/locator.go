// Package trafilatura provides a newsgather.ContentLocator backed by
// go-trafilatura.
package trafilatura

import (
	"net/url"
	"unicode/utf8"

	"github.com/fwojciec/newsgather"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Locator implements newsgather.ContentLocator at compile time.
var _ newsgather.ContentLocator = (*Locator)(nil)

// Locator wraps go-trafilatura to find the main content of a page.
//
// Trafilatura runs in precision mode. Below its minimum extraction size it
// would otherwise rescue short pages with a plain-text dump of the whole
// body, navigation included. Short or failed extractions go to the fallback
// locator when one is set.
type Locator struct {
	opts     trafilatura.Options
	minText  int
	fallback newsgather.ContentLocator
}

// Option configures a Locator.
type Option func(*Locator)

// WithFallback sets the locator used for pages too short for trafilatura.
func WithFallback(fallback newsgather.ContentLocator) Option {
	return func(l *Locator) {
		l.fallback = fallback
	}
}

// NewLocator creates a new Locator. pageURL may be nil.
func NewLocator(pageURL *url.URL, opts ...Option) *Locator {
	cfg := trafilatura.DefaultConfig()
	l := &Locator{
		opts: trafilatura.Options{
			Config:         cfg,
			EnableFallback: true,
			Focus:          trafilatura.FavorPrecision,
			OriginalURL:    pageURL,
		},
		minText: cfg.MinExtractedSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the content node trafilatura extracts from doc. doc is
// left untouched, so the fallback sees the page as parsed.
func (l *Locator) Locate(doc *html.Node) ([]*html.Node, error) {
	if doc == nil {
		return nil, newsgather.Errorf(newsgather.ENOCONTENT, "no document")
	}

	result, err := trafilatura.ExtractDocument(doc, l.opts)
	switch {
	case err != nil:
		err = newsgather.Errorf(newsgather.ENOCONTENT, "trafilatura: %v", err)
	case result == nil || result.ContentNode == nil:
		err = newsgather.Errorf(newsgather.ENOCONTENT, "trafilatura found no content")
	case utf8.RuneCountInString(result.ContentText) >= l.minText || l.fallback == nil:
		return []*html.Node{result.ContentNode}, nil
	}

	if l.fallback != nil {
		return l.fallback.Locate(doc)
	}
	return nil, err
}
