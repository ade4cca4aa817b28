package goquery

import (
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

// FilterTags prunes, in place, every subtree below n whose root element is
// stripped by cfg. Nodes are visited depth-first in pre-order, so the
// descendants of a pruned node are never inspected. Attributes of surviving
// nodes are left as they are.
//
// FilterTags reports false when n itself is stripped by cfg; n is then left
// untouched and the caller is expected to drop it. Running FilterTags twice
// with the same config changes nothing the second time.
func FilterTags(n *html.Node, cfg *newsgather.CleanerConfig) bool {
	if n == nil {
		return false
	}
	if n.Type == html.ElementNode && cfg.Removes(n.Data) {
		return false
	}
	pruneChildren(n, cfg)
	return true
}

func pruneChildren(n *html.Node, cfg *newsgather.CleanerConfig) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && cfg.Removes(c.Data) {
			n.RemoveChild(c)
		} else {
			pruneChildren(c, cfg)
		}
		c = next
	}
}
