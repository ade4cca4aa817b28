package newsgather

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// NewsArticle is a candidate article found on a search results page.
// Two articles are the same article when their URLs match exactly.
type NewsArticle struct {
	URL      string `json:"url"`
	Headline string `json:"headline"`
}

// String returns the article headline.
func (a NewsArticle) String() string {
	return a.Headline
}

// SearchResultParser turns a search results page into candidate articles.
type SearchResultParser interface {
	// Parse returns the articles listed in markup in order of first
	// appearance, without duplicate URLs. Entries missing a URL or a
	// headline are skipped. A page with no results yields an empty slice;
	// EPARSE is reserved for markup that is not a results page at all.
	Parse(markup string) ([]NewsArticle, error)
}

// Article is an extracted article as persisted by an ArticleService.
type Article struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Headline    string    `json:"headline"`
	Content     string    `json:"content"` // Markdown
	ContentHash string    `json:"contentHash"`
	Tokens      int       `json:"tokens"`
	Query       string    `json:"query"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// HashContent returns the xxHash of content as 16 lowercase hex digits.
// It is the ContentHash of every stored or exported article.
func HashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ArticleService represents a service for managing extracted articles.
type ArticleService interface {
	// CreateArticle stores a new article. An existing article with the
	// same URL is replaced.
	CreateArticle(ctx context.Context, article *Article) error

	// FindArticleByURL retrieves an article by its source URL.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByURL(ctx context.Context, url string) (*Article, error)

	// FindArticles retrieves articles matching the filter, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleWriter persists extracted articles. ArticleService is an
// ArticleWriter; so are file exports.
type ArticleWriter interface {
	CreateArticle(ctx context.Context, article *Article) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	URL   *string `json:"url"`
	Query *string `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
