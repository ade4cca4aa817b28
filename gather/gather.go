// Package gather orchestrates news gathering. It searches for articles,
// fetches each article page through a browser, extracts Markdown and
// hands the results to the configured writers.
package gather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/newsgather"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of article pages fetched at once.
const DefaultConcurrency = 3

// SearchURL returns the Google News search page for query.
func SearchURL(query string) string {
	return "https://news.google.com/search?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US%3Aen"
}

// FeedSearchURL returns the Google News RSS search feed for query.
func FeedSearchURL(query string) string {
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(query) + "&hl=en-US&gl=US&ceid=US:en"
}

// Gatherer searches for news articles and extracts their content.
type Gatherer struct {
	Fetcher   newsgather.Fetcher
	Parser    newsgather.SearchResultParser
	Extractor newsgather.ArticleExtractor

	// SearchFetcher fetches results pages. Defaults to Fetcher.
	SearchFetcher newsgather.Fetcher
	// SearchURL builds the results page URL. Defaults to SearchURL.
	SearchURL func(query string) string

	// Writers receive every extracted article, in input order.
	Writers      []newsgather.ArticleWriter
	TokenCounter newsgather.TokenCounter
	RateLimiter  newsgather.DomainLimiter
	Concurrency  int
	RetryDelays  []time.Duration
	Logger       *slog.Logger
}

// Result holds the outcome of a GatherAll call.
type Result struct {
	Articles []*newsgather.Article
	Failed   int
	Bytes    int
	Tokens   int
}

// gathered holds the outcome of processing a single article.
type gathered struct {
	position int
	url      string
	article  *newsgather.Article
	err      error
}

// Search fetches the results page for query and parses it into articles.
func (g *Gatherer) Search(ctx context.Context, query string) ([]newsgather.NewsArticle, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newsgather.Errorf(newsgather.EINVALID, "search query required")
	}

	searchURL := SearchURL
	if g.SearchURL != nil {
		searchURL = g.SearchURL
	}
	fetcher := g.Fetcher
	if g.SearchFetcher != nil {
		fetcher = g.SearchFetcher
	}

	markup, err := g.fetch(ctx, fetcher, searchURL(query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	articles, err := g.Parser.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return articles, nil
}

// Gather fetches the article page at rawURL and extracts its content as
// Markdown.
func (g *Gatherer) Gather(ctx context.Context, rawURL string, cfg *newsgather.CleanerConfig) (string, error) {
	markup, err := g.fetch(ctx, g.Fetcher, rawURL)
	if err != nil {
		return "", err
	}
	return g.Extractor.Extract(markup, cfg)
}

// GatherAll gathers every article concurrently. Articles that fail are
// reported through progress and left out of the result; the rest are
// returned and written in input order. The error is non-nil only when ctx
// ends before all articles were processed.
func (g *Gatherer) GatherAll(ctx context.Context, articles []newsgather.NewsArticle, cfg *newsgather.CleanerConfig, progress newsgather.GatherProgressFunc) (*Result, error) {
	return g.gatherAll(ctx, "", articles, cfg, progress)
}

// GatherQuery searches for query and gathers up to limit of the articles
// found. A limit of zero or less gathers all of them.
func (g *Gatherer) GatherQuery(ctx context.Context, query string, limit int, cfg *newsgather.CleanerConfig, progress newsgather.GatherProgressFunc) (*Result, error) {
	articles, err := g.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return g.gatherAll(ctx, strings.TrimSpace(query), articles, cfg, progress)
}

func (g *Gatherer) gatherAll(ctx context.Context, query string, articles []newsgather.NewsArticle, cfg *newsgather.CleanerConfig, progress newsgather.GatherProgressFunc) (*Result, error) {
	concurrency := g.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(articles)
	resultCh := make(chan gathered, total)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	go func() {
		for i, a := range articles {
			eg.Go(func() error {
				resultCh <- g.process(egctx, i, query, a, cfg)
				return nil
			})
		}
		_ = eg.Wait()
		close(resultCh)
	}()

	// Progress is reported from this goroutine only.
	results := make([]gathered, total)
	completed := 0
	for r := range resultCh {
		completed++
		results[r.position] = r
		if progress != nil {
			progress(newsgather.GatherProgress{
				URL:       r.url,
				Completed: completed,
				Total:     total,
				Error:     r.err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Articles: []*newsgather.Article{}}
	for _, r := range results {
		if r.err != nil {
			res.Failed++
			continue
		}
		if err := g.write(ctx, r.article); err != nil {
			g.logger().Warn("write article", "url", r.url, "err", err)
			res.Failed++
			continue
		}
		res.Articles = append(res.Articles, r.article)
		res.Bytes += len(r.article.Content)
		res.Tokens += r.article.Tokens
	}
	return res, nil
}

// process gathers a single article.
func (g *Gatherer) process(ctx context.Context, position int, query string, a newsgather.NewsArticle, cfg *newsgather.CleanerConfig) gathered {
	result := gathered{position: position, url: a.URL}

	markdown, err := g.Gather(ctx, a.URL, cfg)
	if err != nil {
		result.err = err
		return result
	}

	article := &newsgather.Article{
		URL:         a.URL,
		Headline:    a.Headline,
		Content:     markdown,
		ContentHash: newsgather.HashContent(markdown),
		Query:       query,
		FetchedAt:   time.Now().UTC(),
	}
	if g.TokenCounter != nil {
		if tokens, err := g.TokenCounter.CountTokens(ctx, markdown); err == nil {
			article.Tokens = tokens
		} else {
			g.logger().Debug("count tokens", "url", a.URL, "err", err)
		}
	}

	result.article = article
	return result
}

// fetch waits for the host's rate limit and fetches rawURL with retries.
func (g *Gatherer) fetch(ctx context.Context, fetcher newsgather.Fetcher, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", newsgather.Errorf(newsgather.EINVALID, "invalid URL %q", rawURL)
	}

	if g.RateLimiter != nil {
		if err := g.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := g.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	onRetry := func(url string, attempt int, err error) {
		g.logger().Info("retry", "url", url, "attempt", attempt, "err", err)
	}
	return FetchWithRetryDelays(ctx, rawURL, fetcher.Fetch, onRetry, delays)
}

func (g *Gatherer) write(ctx context.Context, article *newsgather.Article) error {
	for _, w := range g.Writers {
		if err := w.CreateArticle(ctx, article); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gatherer) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}
