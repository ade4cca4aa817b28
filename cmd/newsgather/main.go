package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/gemini"
	"github.com/fwojciec/newsgather/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, they replace the browser
	// and the Gemini tokenizer.
	Fetcher      newsgather.Fetcher
	TokenCounter newsgather.TokenCounter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// commands that read or write the article database.
var storageCommands = []string{"gather", "list", "show"}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsgather"),
		kong.Description("Gather news articles as clean Markdown"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsgather --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	deps.Logger = newLogger(stderr, cli.LogLevel)

	if slices.Contains(storageCommands, cmd) {
		if cli.DB != "" {
			m.DBPath = cli.DB
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set NEWSGATHER_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Articles = sqlite.NewArticleService(m.DB)
	}

	switch cmd {
	case "search":
		g, closeFn, err := m.newGatherer(cli, cli.Search.RSS, nil, deps.Logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Gatherer = g
	case "extract":
		g, closeFn, err := m.newGatherer(cli, false, &cli.Extract.ExtractFlags, deps.Logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Gatherer = g
	case "gather":
		g, closeFn, err := m.newGatherer(cli, cli.Gather.RSS, &cli.Gather.ExtractFlags, deps.Logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()

		tc := m.TokenCounter
		if tc == nil {
			counter, err := gemini.NewTokenCounter(gemini.DefaultModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			tc = counter
		}
		g.TokenCounter = tc
		g.Writers = []newsgather.ArticleWriter{deps.Articles}
		deps.Gatherer = g
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func defaultDBPath() string {
	if path := os.Getenv("NEWSGATHER_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsgather.db"
	}
	dir := filepath.Join(home, ".newsgather")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsgather.db")
}
