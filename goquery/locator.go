package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

// Ensure HeuristicLocator implements newsgather.ContentLocator at compile time.
var _ newsgather.ContentLocator = (*HeuristicLocator)(nil)

// contentSelector matches the elements whose text counts towards a
// container's score.
const contentSelector = "p, h1, h2, h3, h4, h5, h6, li, pre, blockquote"

// noiseSelector matches page chrome whose text never counts.
const noiseSelector = "nav, footer, aside, header, form"

// HeuristicLocator finds the main article content of a page.
//
// Outermost article elements win when the page has any. Otherwise text held
// by paragraphs, headings, list items, preformatted blocks and quotes is
// credited to the nearest enclosing main, section, div or body element (or
// any element with role="main"), half of it to the container above that,
// and the element with the most credited text wins; ties go to the element
// that comes first in the document. A body with text but no scored content
// is the last resort.
type HeuristicLocator struct{}

// NewHeuristicLocator creates a new HeuristicLocator.
func NewHeuristicLocator() *HeuristicLocator {
	return &HeuristicLocator{}
}

// Locate returns the containers holding the page's article content.
func (l *HeuristicLocator) Locate(root *html.Node) ([]*html.Node, error) {
	if root == nil {
		return nil, newsgather.Errorf(newsgather.ENOCONTENT, "no document")
	}
	doc := goquery.NewDocumentFromNode(root)

	articles := doc.Find("article").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("article").Length() == 0
	})
	if articles.Length() > 0 {
		return articles.Nodes, nil
	}

	if best := densestContainer(doc); best != nil {
		return []*html.Node{best}, nil
	}

	body := doc.Find("body").First()
	if body.Length() > 0 && strings.TrimSpace(body.Text()) != "" {
		return body.Nodes, nil
	}

	return nil, newsgather.Errorf(newsgather.ENOCONTENT, "no article content found")
}

// densestContainer returns the candidate container with the highest score,
// or nil when no content element holds any text.
func densestContainer(doc *goquery.Document) *html.Node {
	scores := make(map[*html.Node]int)
	doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(noiseSelector).Length() > 0 {
			return
		}
		// Nested content elements (li inside blockquote, p inside li)
		// are already counted by their outer element.
		if s.ParentsFiltered(contentSelector).Length() > 0 {
			return
		}
		n := len(strings.TrimSpace(collapseSpace(s.Text())))
		if n == 0 {
			return
		}
		// The enclosing container gets the full credit and the one above
		// it half, so stories split across sibling wrappers still pull
		// their common parent up.
		if c := nearestContainer(s.Get(0)); c != nil {
			scores[c] += n
			if gp := nearestContainer(c); gp != nil {
				scores[gp] += n / 2
			}
		}
	})

	var best *html.Node
	bestScore := 0
	doc.Find(`main, section, div, body, [role="main"]`).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if scores[n] > bestScore {
			best, bestScore = n, scores[n]
		}
	})
	return best
}

// nearestContainer walks up from n to the closest candidate container.
func nearestContainer(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.Data {
		case "main", "section", "div", "body":
			return p
		}
		if role, _ := attr(p, "role"); role == "main" {
			return p
		}
	}
	return nil
}
