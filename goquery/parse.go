// Package goquery implements the extraction core on top of goquery and
// golang.org/x/net/html: search results parsing, tag filtering, main
// content location and Markdown rendering.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

// parseMarkup is the single place where permissive HTML parsing happens.
// The tokenizer pass rejects input without a single element tag; the HTML5
// parser would otherwise invent an html/head/body skeleton for plain text.
func parseMarkup(markup string) (*goquery.Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, newsgather.Errorf(newsgather.EPARSE, "empty markup")
	}
	if !hasElement(markup) {
		return nil, newsgather.Errorf(newsgather.EPARSE, "markup contains no elements")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, newsgather.Errorf(newsgather.EPARSE, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// hasElement reports whether markup contains at least one start tag.
func hasElement(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			return true
		}
	}
}

// attr returns the value of the named attribute and whether it is present.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
