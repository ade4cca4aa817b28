package mock

import (
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

var _ newsgather.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of newsgather.ArticleExtractor.
type ArticleExtractor struct {
	ExtractFn func(markup string, cfg *newsgather.CleanerConfig) (string, error)
}

func (e *ArticleExtractor) Extract(markup string, cfg *newsgather.CleanerConfig) (string, error) {
	return e.ExtractFn(markup, cfg)
}

var _ newsgather.ContentLocator = (*ContentLocator)(nil)

// ContentLocator is a mock implementation of newsgather.ContentLocator.
type ContentLocator struct {
	LocateFn func(doc *html.Node) ([]*html.Node, error)
}

func (l *ContentLocator) Locate(doc *html.Node) ([]*html.Node, error) {
	return l.LocateFn(doc)
}
