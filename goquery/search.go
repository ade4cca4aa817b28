package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsgather"
)

// Ensure SearchParser implements newsgather.SearchResultParser at compile time.
var _ newsgather.SearchResultParser = (*SearchParser)(nil)

// DefaultBaseURL resolves the relative links of Google News result pages
// ("./articles/...", "./read/...").
const DefaultBaseURL = "https://news.google.com/"

// DefaultEntrySelector matches result cards on Google News and on common
// news search layouts.
const DefaultEntrySelector = `article, .news-item, .result, [data-result]`

// resultsContainerSelector matches the region of a page that holds search
// results. Its presence tells an empty results page apart from markup that
// is not a results page at all.
const resultsContainerSelector = `main, [role="main"], #search, .search-results, c-wiz`

// headlineSelector matches elements carrying a result card's headline.
const headlineSelector = `h3, h4, h2, [role="heading"]`

// SearchParser extracts candidate articles from search results markup.
// SearchParser is safe for concurrent use.
type SearchParser struct {
	baseURL       string
	entrySelector string
}

// SearchParserOption configures a SearchParser.
type SearchParserOption func(*SearchParser)

// WithBaseURL sets the URL relative result links are resolved against.
// Defaults to DefaultBaseURL.
func WithBaseURL(u string) SearchParserOption {
	return func(p *SearchParser) {
		p.baseURL = u
	}
}

// WithEntrySelector sets the CSS selector matching result cards.
// Defaults to DefaultEntrySelector.
func WithEntrySelector(sel string) SearchParserOption {
	return func(p *SearchParser) {
		p.entrySelector = sel
	}
}

// NewSearchParser creates a new SearchParser.
func NewSearchParser(opts ...SearchParserOption) *SearchParser {
	p := &SearchParser{
		baseURL:       DefaultBaseURL,
		entrySelector: DefaultEntrySelector,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the articles listed in markup, deduplicated by URL and in
// order of first appearance.
//
// Result cards are matched by the entry selector. On pages without any card
// every anchor is treated as an entry of its own. Entries lacking a usable
// URL or a headline are skipped.
func (p *SearchParser) Parse(markup string) ([]newsgather.NewsArticle, error) {
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, newsgather.Errorf(newsgather.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parseMarkup(markup)
	if err != nil {
		return nil, err
	}

	// Script text would otherwise leak into anchor and headline text.
	FilterTags(doc.Get(0), newsgather.SearchCleanerConfig())

	entries := doc.Find(p.entrySelector)
	anchorsOnly := false
	if entries.Length() == 0 {
		entries = doc.Find("a[href]")
		anchorsOnly = true
	}
	if entries.Length() == 0 && doc.Find(resultsContainerSelector).Length() == 0 {
		return nil, newsgather.Errorf(newsgather.EPARSE, "no search results in markup")
	}

	seen := make(map[string]struct{})
	articles := []newsgather.NewsArticle{}

	entries.Each(func(_ int, entry *goquery.Selection) {
		var article newsgather.NewsArticle
		if anchorsOnly {
			article = anchorEntry(base, entry)
		} else {
			article = cardEntry(base, entry)
		}
		if article.URL == "" || article.Headline == "" {
			return
		}
		if _, ok := seen[article.URL]; ok {
			return
		}
		seen[article.URL] = struct{}{}
		articles = append(articles, article)
	})

	return articles, nil
}

// cardEntry reads a result card: the first usable link is the URL, the
// first heading (or else the first non-empty link text) is the headline.
func cardEntry(base *url.URL, card *goquery.Selection) newsgather.NewsArticle {
	var article newsgather.NewsArticle
	var linkText string

	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		resolved := resolveHref(base, a.AttrOr("href", ""))
		if resolved == "" {
			return true
		}
		if article.URL == "" {
			article.URL = resolved
		}
		if resolved == article.URL {
			linkText = cleanText(a.Text())
		}
		return linkText == ""
	})

	card.Find(headlineSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		article.Headline = cleanText(h.Text())
		return article.Headline == ""
	})
	if article.Headline == "" {
		article.Headline = linkText
	}
	return article
}

// anchorEntry reads a bare anchor: a heading inside it wins over its text.
func anchorEntry(base *url.URL, a *goquery.Selection) newsgather.NewsArticle {
	article := newsgather.NewsArticle{
		URL: resolveHref(base, a.AttrOr("href", "")),
	}
	a.Find(headlineSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		article.Headline = cleanText(h.Text())
		return article.Headline == ""
	})
	if article.Headline == "" {
		article.Headline = cleanText(a.Text())
	}
	return article
}

// resolveHref resolves href against base and returns the absolute URL, or
// "" for hrefs that cannot point at an article (fragments, javascript:,
// mailto: and other non-HTTP schemes).
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// cleanText trims s and collapses its inner whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
