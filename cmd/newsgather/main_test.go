package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/newsgather/cmd/newsgather"
	"github.com/fwojciec/newsgather/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body><main><c-wiz>
<article><a class="headline" href="https://a.example.com/storm">Storm hits coast</a></article>
<article><a class="headline" href="https://b.example.com/budget">Council approves budget</a></article>
</c-wiz></main></body></html>`

var articlePages = map[string]string{
	"https://a.example.com/storm":  `<html><body><nav><a href="/">Home</a></nav><article><h1>Storm hits coast</h1><p>Heavy rain <a href="/rain">battered</a> the coast.</p><script>track()</script></article></body></html>`,
	"https://b.example.com/budget": `<html><body><article><h1>Council approves budget</h1><p>The vote passed.</p></article></body></html>`,
}

// newTestMain returns a Main backed by a temporary database and a fetcher
// serving fixed pages.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if strings.HasPrefix(url, "https://news.google.com/search") {
				return resultsPage, nil
			}
			return articlePages[url], nil
		},
		CloseFn: func() error { return nil },
	}
	m.TokenCounter = &mock.TokenCounter{
		CountTokensFn: func(_ context.Context, text string) (int, error) { return len(strings.Fields(text)), nil },
	}
	return m
}

func run(t *testing.T, m *main.Main, args ...string) (string, string) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	require.NoError(t, err, stderr.String())
	return stdout.String(), stderr.String()
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("searches Google News", func(t *testing.T) {
		t.Parallel()

		out, _ := run(t, newTestMain(t), "search", "weather")

		assert.Equal(t,
			"Storm hits coast\thttps://a.example.com/storm\nCouncil approves budget\thttps://b.example.com/budget\n",
			out)
	})

	t.Run("extracts a single article", func(t *testing.T) {
		t.Parallel()

		out, _ := run(t, newTestMain(t), "extract", "https://a.example.com/storm")

		assert.Equal(t, "# Storm hits coast\n\nHeavy rain the coast.\n", out)
	})

	t.Run("keeps links when asked", func(t *testing.T) {
		t.Parallel()

		out, _ := run(t, newTestMain(t), "extract", "https://a.example.com/storm", "--keep-links")

		assert.Contains(t, out, "[battered](/rain)")
		assert.NotContains(t, out, "track()")
	})

	t.Run("gathers, lists and shows articles", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		out, _ := run(t, m, "gather", "weather", "--rate-limit", "100")
		assert.Contains(t, out, "Saved 2 articles")

		out, _ = run(t, m, "list", "--query", "weather")
		assert.Contains(t, out, "Storm hits coast  https://a.example.com/storm")
		assert.Contains(t, out, "Council approves budget  https://b.example.com/budget")

		out, _ = run(t, m, "show", "https://b.example.com/budget")
		assert.Equal(t, "# Council approves budget\n\nThe vote passed.\n", out)
	})

	t.Run("returns an error for an article that was never gathered", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"show", "https://example.com/none"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "no saved article")
	})
}
