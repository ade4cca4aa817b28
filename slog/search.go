package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/newsgather"
)

var _ newsgather.SearchResultParser = (*LoggingSearchParser)(nil)

// LoggingSearchParser wraps a SearchResultParser with logging.
type LoggingSearchParser struct {
	next   newsgather.SearchResultParser
	logger *slog.Logger
}

// NewLoggingSearchParser creates a new LoggingSearchParser.
func NewLoggingSearchParser(next newsgather.SearchResultParser, logger *slog.Logger) *LoggingSearchParser {
	return &LoggingSearchParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the number of articles found.
func (p *LoggingSearchParser) Parse(markup string) (articles []newsgather.NewsArticle, err error) {
	defer func(begin time.Time) {
		p.logger.Info("search results",
			"bytes", len(markup),
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(markup)
}
