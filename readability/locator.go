// Package readability provides a newsgather.ContentLocator backed by
// go-readability, the Mozilla Readability port.
package readability

import (
	"net/url"

	"github.com/fwojciec/newsgather"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Locator implements newsgather.ContentLocator at compile time.
var _ newsgather.ContentLocator = (*Locator)(nil)

// Locator wraps go-readability to find the main content of a page.
type Locator struct {
	pageURL *url.URL
}

// NewLocator creates a new Locator. pageURL is used by readability to
// resolve relative links and may be nil.
func NewLocator(pageURL *url.URL) *Locator {
	return &Locator{pageURL: pageURL}
}

// Locate returns the readability content node. Readability works on its own
// copy of doc, so the returned node does not belong to doc.
func (l *Locator) Locate(doc *html.Node) ([]*html.Node, error) {
	if doc == nil {
		return nil, newsgather.Errorf(newsgather.ENOCONTENT, "no document")
	}

	article, err := readability.FromDocument(doc, l.pageURL)
	if err != nil {
		return nil, newsgather.Errorf(newsgather.ENOCONTENT, "readability: %v", err)
	}
	if article.Node == nil {
		return nil, newsgather.Errorf(newsgather.ENOCONTENT, "readability found no content")
	}

	return []*html.Node{article.Node}, nil
}
