package newsgather

import "golang.org/x/net/html"

// Converter converts a parsed HTML subtree to Markdown.
type Converter interface {
	// Convert renders n and its descendants as Markdown in document order.
	// The input should already be filtered (see CleanerConfig).
	Convert(n *html.Node) (string, error)
}
