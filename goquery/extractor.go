package goquery

import (
	"strings"

	"github.com/fwojciec/newsgather"
)

// Ensure ArticleExtractor implements newsgather.ArticleExtractor at compile time.
var _ newsgather.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleSeparator joins the renderings of pages holding more than one
// article container.
const ArticleSeparator = "\nNEW ARTICLE: "

// ArticleExtractor turns article markup into Markdown: parse, locate the
// content containers, strip tags per CleanerConfig, render.
//
// Every call parses its own tree, so ArticleExtractor is safe for concurrent
// use as long as its locator and converter are.
type ArticleExtractor struct {
	locator   newsgather.ContentLocator
	converter newsgather.Converter
}

// ExtractorOption configures an ArticleExtractor.
type ExtractorOption func(*ArticleExtractor)

// WithLocator sets the strategy used to find the main content.
// Defaults to HeuristicLocator.
func WithLocator(l newsgather.ContentLocator) ExtractorOption {
	return func(e *ArticleExtractor) {
		e.locator = l
	}
}

// WithConverter sets the Markdown renderer.
// Defaults to MarkdownConverter.
func WithConverter(c newsgather.Converter) ExtractorOption {
	return func(e *ArticleExtractor) {
		e.converter = c
	}
}

// NewArticleExtractor creates a new ArticleExtractor.
func NewArticleExtractor(opts ...ExtractorOption) *ArticleExtractor {
	e := &ArticleExtractor{
		locator:   NewHeuristicLocator(),
		converter: NewMarkdownConverter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the article content of markup as Markdown.
func (e *ArticleExtractor) Extract(markup string, cfg *newsgather.CleanerConfig) (string, error) {
	doc, err := parseMarkup(markup)
	if err != nil {
		return "", err
	}

	containers, err := e.locator.Locate(doc.Get(0))
	if err != nil {
		return "", err
	}
	if len(containers) == 0 {
		return "", newsgather.Errorf(newsgather.ENOCONTENT, "no article content found")
	}

	var parts []string
	for _, c := range containers {
		if !FilterTags(c, cfg) {
			continue
		}
		md, err := e.converter.Convert(c)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(md) != "" {
			parts = append(parts, md)
		}
	}

	if len(parts) == 0 {
		return "", newsgather.Errorf(newsgather.EEMPTY, "article has no renderable text")
	}
	return strings.Join(parts, ArticleSeparator), nil
}
