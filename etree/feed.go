// Package etree parses RSS and Atom search feeds with beevik/etree. Google
// News serves the same results as its HTML search page under /rss/search,
// which is far cheaper to fetch and needs no browser.
package etree

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/newsgather"
)

// Ensure FeedParser implements newsgather.SearchResultParser at compile time.
var _ newsgather.SearchResultParser = (*FeedParser)(nil)

// FeedParser extracts candidate articles from RSS 2.0, RSS 1.0 and Atom
// feeds. FeedParser is safe for concurrent use.
type FeedParser struct{}

// NewFeedParser creates a new FeedParser.
func NewFeedParser() *FeedParser {
	return &FeedParser{}
}

// Parse returns the feed's items in document order, deduplicated by link.
// Items without an absolute http(s) link or a title are skipped. A feed
// without items yields an empty slice; markup that is not a feed at all
// yields EPARSE.
func (p *FeedParser) Parse(markup string) ([]newsgather.NewsArticle, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, newsgather.Errorf(newsgather.EPARSE, "empty feed")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return nil, newsgather.Errorf(newsgather.EPARSE, "parsing feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, newsgather.Errorf(newsgather.EPARSE, "empty feed XML")
	}

	var items []*etree.Element
	switch root.Tag {
	case "rss":
		if channel := root.SelectElement("channel"); channel != nil {
			items = channel.SelectElements("item")
		}
	case "RDF":
		items = root.SelectElements("item")
	case "feed":
		items = root.SelectElements("entry")
	default:
		return nil, newsgather.Errorf(newsgather.EPARSE, "unsupported feed root <%s>", root.Tag)
	}

	seen := make(map[string]struct{})
	articles := []newsgather.NewsArticle{}
	for _, item := range items {
		article := newsgather.NewsArticle{
			URL:      itemLink(item),
			Headline: itemTitle(item),
		}
		if article.URL == "" || article.Headline == "" {
			continue
		}
		if _, ok := seen[article.URL]; ok {
			continue
		}
		seen[article.URL] = struct{}{}
		articles = append(articles, article)
	}
	return articles, nil
}

// itemTitle returns the item title with whitespace collapsed. Google News
// appends " - Publisher" to every title; the suffix is dropped when the item
// names its source.
func itemTitle(item *etree.Element) string {
	el := item.SelectElement("title")
	if el == nil {
		return ""
	}
	title := strings.Join(strings.Fields(el.Text()), " ")

	if src := item.SelectElement("source"); src != nil {
		name := strings.Join(strings.Fields(src.Text()), " ")
		if name != "" {
			if trimmed, ok := strings.CutSuffix(title, " - "+name); ok && trimmed != "" {
				title = trimmed
			}
		}
	}
	return title
}

// itemLink returns the item's link: the text of an RSS <link>, or the href
// of an Atom <link> that is either unqualified or rel="alternate".
func itemLink(item *etree.Element) string {
	for _, el := range item.SelectElements("link") {
		href := el.SelectAttrValue("href", "")
		if href == "" {
			href = el.Text()
		} else if rel := el.SelectAttrValue("rel", "alternate"); rel != "alternate" {
			continue
		}
		if u := absoluteHTTP(href); u != "" {
			return u
		}
	}
	return ""
}

// absoluteHTTP returns raw when it is an absolute http(s) URL, else "".
func absoluteHTTP(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}
