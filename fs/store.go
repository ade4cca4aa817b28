// Package fs exports extracted articles as Markdown files with YAML
// frontmatter, one file per article, laid out by host and path.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsgather"
)

// Ensure ArticleStore implements newsgather.ArticleWriter at compile time.
var _ newsgather.ArticleWriter = (*ArticleStore)(nil)

// ArticleStore writes articles with atomic update semantics.
// Articles are saved to a temporary directory, then moved atomically on Commit.
// ArticleStore is safe for concurrent use.
type ArticleStore struct {
	baseDir string
	name    string
	mu      sync.Mutex
}

// NewArticleStore creates a new ArticleStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewArticleStore(baseDir, name string) *ArticleStore {
	return &ArticleStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ArticleStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ArticleStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// CreateArticle writes article to the temporary directory.
func (s *ArticleStore) CreateArticle(ctx context.Context, article *newsgather.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(article.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatArticle(article)), 0644)
}

// Commit replaces the output directory with everything saved so far.
func (s *ArticleStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved so far.
func (s *ArticleStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.RemoveAll(s.tempDir())
}

// URLToPath converts an article URL to a relative file path below a
// directory named after the host.
// Example: https://example.com/news/2024/storm → example.com/news/2024/storm.md
//
// URLs differing only in their query string (Google News read links, for
// one) get a short hash of the query appended to stay distinct.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", newsgather.Errorf(newsgather.EINVALID, "invalid article URL: %v", err)
	}
	if u.Host == "" {
		return "", newsgather.Errorf(newsgather.EINVALID, "article URL has no host: %q", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		path += "index"
	}
	path = strings.TrimSuffix(path, ".html")
	path = strings.TrimSuffix(path, ".htm")

	if u.RawQuery != "" {
		path += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return filepath.Join(sanitize(u.Host), filepath.FromSlash(sanitizePath(path))+".md"), nil
}

// sanitizePath drops path segments that would escape the output directory.
func sanitizePath(p string) string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, sanitize(seg))
	}
	if len(parts) == 0 {
		return "index"
	}
	return strings.Join(parts, "/")
}

// sanitize replaces characters that are unsafe in file names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '*', '?', '"', '<', '>', '|', '\\':
			return '_'
		}
		return r
	}, s)
}

// FormatArticle formats an article with YAML frontmatter. Strings are
// double-quoted so headlines containing colons stay valid YAML.
func FormatArticle(article *newsgather.Article) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(strconv.Quote(article.URL))
	b.WriteString("\nheadline: ")
	b.WriteString(strconv.Quote(article.Headline))
	if article.Query != "" {
		b.WriteString("\nquery: ")
		b.WriteString(strconv.Quote(article.Query))
	}
	if !article.FetchedAt.IsZero() {
		b.WriteString("\nfetched: ")
		b.WriteString(article.FetchedAt.Format("2006-01-02"))
	}
	if article.Tokens > 0 {
		b.WriteString("\ntokens: ")
		b.WriteString(strconv.Itoa(article.Tokens))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(article.Content)
	return b.String()
}
