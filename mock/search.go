package mock

import "github.com/fwojciec/newsgather"

var _ newsgather.SearchResultParser = (*SearchResultParser)(nil)

// SearchResultParser is a mock implementation of newsgather.SearchResultParser.
type SearchResultParser struct {
	ParseFn func(markup string) ([]newsgather.NewsArticle, error)
}

func (p *SearchResultParser) Parse(markup string) ([]newsgather.NewsArticle, error) {
	return p.ParseFn(markup)
}
