package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/gather"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Articles newsgather.ArticleService
	Gatherer *gather.Gatherer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string        `help:"Database path" env:"NEWSGATHER_DB" type:"path"`
	LogLevel    string        `name:"log-level" default:"warn" enum:"debug,info,warn,error" env:"NEWSGATHER_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	Browser     string        `default:"rod" enum:"rod,http" env:"NEWSGATHER_BROWSER" help:"Page fetcher: rod renders pages in Chrome, http fetches raw markup"`
	Chrome      string        `env:"NEWSGATHER_CHROME" help:"Path to the Chrome or Chromium binary"`
	Recycle     int           `name:"recycle-after" default:"75" help:"Pages Chrome renders before it is restarted (0 never restarts)"`
	Timeout     time.Duration `default:"10s" env:"NEWSGATHER_TIMEOUT" help:"Per-page fetch timeout"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent article fetches"`
	RateLimit   float64       `name:"rate-limit" default:"1" help:"Requests per second to each host"`
	CacheTTL    time.Duration `name:"cache-ttl" default:"10m" help:"How long fetched pages are reused (0 disables)"`

	Search  SearchCmd  `cmd:"" help:"Search Google News and list the articles found"`
	Extract ExtractCmd `cmd:"" help:"Extract a single article page as Markdown"`
	Gather  GatherCmd  `cmd:"" help:"Search, extract every article found and save them"`
	List    ListCmd    `cmd:"" help:"List saved articles"`
	Show    ShowCmd    `cmd:"" help:"Print a saved article"`
}

// ExtractFlags selects how article pages are turned into Markdown.
type ExtractFlags struct {
	Locator     string `default:"heuristic" enum:"heuristic,readability,trafilatura" help:"Content locator (heuristic, readability, trafilatura)"`
	Renderer    string `default:"builtin" enum:"builtin,commonmark" help:"Markdown renderer (builtin, commonmark)"`
	KeepLinks   bool   `name:"keep-links" help:"Keep links and their text"`
	KeepImages  bool   `name:"keep-images" help:"Keep images"`
	KeepScripts bool   `name:"keep-scripts" help:"Keep script text"`
	KeepSources bool   `name:"keep-sources" help:"Keep media source elements"`
}

// CleanerConfig returns the tag filter policy selected by the flags.
// Everything is removed unless kept explicitly.
func (f *ExtractFlags) CleanerConfig() *newsgather.CleanerConfig {
	return &newsgather.CleanerConfig{
		RemoveScriptTags: !f.KeepScripts,
		RemoveATags:      !f.KeepLinks,
		RemoveImgTags:    !f.KeepImages,
		RemoveSourceTags: !f.KeepSources,
	}
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	Limit int    `short:"n" help:"Maximum number of articles to list (0 lists all)"`
	RSS   bool   `name:"rss" help:"Use the Google News RSS feed instead of the results page"`
	JSON  bool   `name:"json" help:"Print articles as JSON lines"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL          string `arg:"" help:"Article URL"`
	ExtractFlags `embed:""`
}

// GatherCmd is the "gather" subcommand.
type GatherCmd struct {
	Query        string `arg:"" help:"Search query"`
	Limit        int    `short:"n" default:"10" help:"Maximum number of articles to gather (0 gathers all)"`
	RSS          bool   `name:"rss" help:"Use the Google News RSS feed instead of the results page"`
	Out          string `short:"o" type:"path" help:"Also write articles as Markdown files below this directory"`
	ExtractFlags `embed:""`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Query string `help:"Only list articles gathered for this query"`
	Limit int    `short:"n" default:"50" help:"Maximum number of articles to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL  string `arg:"" help:"Article URL"`
	Full bool   `help:"Print frontmatter before the content"`
}
