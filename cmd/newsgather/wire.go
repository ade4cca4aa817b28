package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/etree"
	"github.com/fwojciec/newsgather/gather"
	"github.com/fwojciec/newsgather/gocache"
	"github.com/fwojciec/newsgather/goquery"
	"github.com/fwojciec/newsgather/htmltomarkdown"
	newshttp "github.com/fwojciec/newsgather/http"
	"github.com/fwojciec/newsgather/readability"
	"github.com/fwojciec/newsgather/rod"
	ngslog "github.com/fwojciec/newsgather/slog"
	"github.com/fwojciec/newsgather/trafilatura"
)

// newGatherer wires a Gatherer from the command line. ext is nil for
// commands that do not extract articles. The returned function releases
// the browser.
func (m *Main) newGatherer(cli *CLI, rss bool, ext *ExtractFlags, logger *slog.Logger, stderr io.Writer) (*gather.Gatherer, func(), error) {
	fetcher, err := m.newFetcher(cli, logger, stderr)
	if err != nil {
		return nil, nil, err
	}
	if cli.CacheTTL > 0 {
		fetcher = gocache.NewFetcher(fetcher, cli.CacheTTL)
	}
	fetcher = ngslog.NewLoggingFetcher(fetcher, logger)

	g := &gather.Gatherer{
		Fetcher:     fetcher,
		Parser:      ngslog.NewLoggingSearchParser(goquery.NewSearchParser(), logger),
		RateLimiter: gather.NewDomainLimiter(cli.RateLimit),
		Concurrency: cli.Concurrency,
		Logger:      logger,
	}

	if rss {
		g.SearchURL = gather.FeedSearchURL
		g.Parser = ngslog.NewLoggingSearchParser(etree.NewFeedParser(), logger)
		if m.Fetcher == nil {
			g.SearchFetcher = ngslog.NewLoggingFetcher(newshttp.NewFetcher(newshttp.WithTimeout(cli.Timeout)), logger)
		}
	}

	if ext != nil {
		extractor, err := newExtractor(ext)
		if err != nil {
			_ = fetcher.Close()
			return nil, nil, err
		}
		g.Extractor = ngslog.NewLoggingExtractor(extractor, logger)
	}

	return g, func() { _ = fetcher.Close() }, nil
}

func (m *Main) newFetcher(cli *CLI, logger *slog.Logger, stderr io.Writer) (newsgather.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	switch cli.Browser {
	case "http":
		return newshttp.NewFetcher(newshttp.WithTimeout(cli.Timeout)), nil
	default:
		managerOpts := []rod.ManagerOption{rod.WithMaxPages(cli.Recycle)}
		if cli.Chrome != "" {
			managerOpts = append(managerOpts, rod.WithBrowserBin(cli.Chrome))
		}
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithLogger(logger),
			rod.WithManagerOptions(managerOpts...),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --browser=http")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}
}

func newExtractor(ext *ExtractFlags) (newsgather.ArticleExtractor, error) {
	var opts []goquery.ExtractorOption

	switch ext.Locator {
	case "", "heuristic":
	case "readability":
		opts = append(opts, goquery.WithLocator(readability.NewLocator(nil)))
	case "trafilatura":
		opts = append(opts, goquery.WithLocator(trafilatura.NewLocator(nil, trafilatura.WithFallback(goquery.NewHeuristicLocator()))))
	default:
		return nil, newsgather.Errorf(newsgather.EINVALID, "unknown locator %q", ext.Locator)
	}

	switch ext.Renderer {
	case "", "builtin":
	case "commonmark":
		opts = append(opts, goquery.WithConverter(htmltomarkdown.NewConverter()))
	default:
		return nil, newsgather.Errorf(newsgather.EINVALID, "unknown renderer %q", ext.Renderer)
	}

	return goquery.NewArticleExtractor(opts...), nil
}
