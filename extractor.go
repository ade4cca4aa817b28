package newsgather

import "golang.org/x/net/html"

// ArticleExtractor turns a rendered article page into Markdown.
type ArticleExtractor interface {
	// Extract parses markup, locates the main article content, strips the
	// subtrees selected by cfg and renders the rest as Markdown.
	//
	// Returns EPARSE when markup does not yield an element tree,
	// ENOCONTENT when no article container can be found and EEMPTY when
	// the rendered Markdown is blank.
	Extract(markup string, cfg *CleanerConfig) (string, error)
}

// ContentLocator finds the main content containers of a parsed page.
type ContentLocator interface {
	// Locate returns the containers holding article content, in document
	// order. The returned nodes may belong to doc or to a copy of it; the
	// caller owns them either way. Returns ENOCONTENT when nothing
	// plausible is found.
	Locate(doc *html.Node) ([]*html.Node, error)
}
