package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/newsgather"
)

var _ newsgather.ArticleExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an ArticleExtractor with logging.
type LoggingExtractor struct {
	next   newsgather.ArticleExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next newsgather.ArticleExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs input and output sizes.
func (e *LoggingExtractor) Extract(markup string, cfg *newsgather.CleanerConfig) (md string, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"bytes", len(markup),
			"markdown", len(md),
			"duration", time.Since(begin),
			"code", newsgather.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(markup, cfg)
}
