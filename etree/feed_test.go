package etree_test

import (
	"testing"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("parses Google News RSS items", func(t *testing.T) {
		t.Parallel()

		feed := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>"budget" - Google News</title>
  <link>https://news.google.com/search?q=budget</link>
  <item>
    <title>Council approves budget - City Herald</title>
    <link>https://news.google.com/rss/articles/AAA?oc=5</link>
    <source url="https://herald.example">City Herald</source>
  </item>
  <item>
    <title>Budget vote delayed</title>
    <link>https://news.google.com/rss/articles/BBB?oc=5</link>
  </item>
</channel>
</rss>`

		got, err := etree.NewFeedParser().Parse(feed)

		require.NoError(t, err)
		assert.Equal(t, []newsgather.NewsArticle{
			{URL: "https://news.google.com/rss/articles/AAA?oc=5", Headline: "Council approves budget"},
			{URL: "https://news.google.com/rss/articles/BBB?oc=5", Headline: "Budget vote delayed"},
		}, got)
	})

	t.Run("parses Atom entries", func(t *testing.T) {
		t.Parallel()

		feed := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example</title>
  <entry>
    <title>First entry</title>
    <link rel="self" href="https://example.com/feed/1"/>
    <link rel="alternate" href="https://example.com/1"/>
  </entry>
  <entry>
    <title>Second entry</title>
    <link href="https://example.com/2"/>
  </entry>
</feed>`

		got, err := etree.NewFeedParser().Parse(feed)

		require.NoError(t, err)
		assert.Equal(t, []newsgather.NewsArticle{
			{URL: "https://example.com/1", Headline: "First entry"},
			{URL: "https://example.com/2", Headline: "Second entry"},
		}, got)
	})

	t.Run("deduplicates by link keeping the first title", func(t *testing.T) {
		t.Parallel()

		feed := `<rss><channel>
<item><title>First</title><link>https://example.com/a</link></item>
<item><title>Second</title><link>https://example.com/a</link></item>
</channel></rss>`

		got, err := etree.NewFeedParser().Parse(feed)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "First", got[0].Headline)
	})

	t.Run("skips items without title or usable link", func(t *testing.T) {
		t.Parallel()

		feed := `<rss><channel>
<item><link>https://example.com/no-title</link></item>
<item><title>No link</title></item>
<item><title>Relative</title><link>/relative</link></item>
<item><title>Kept</title><link> https://example.com/kept </link></item>
</channel></rss>`

		got, err := etree.NewFeedParser().Parse(feed)

		require.NoError(t, err)
		assert.Equal(t, []newsgather.NewsArticle{
			{URL: "https://example.com/kept", Headline: "Kept"},
		}, got)
	})

	t.Run("returns an empty list for a feed without items", func(t *testing.T) {
		t.Parallel()

		got, err := etree.NewFeedParser().Parse(`<rss><channel><title>Nothing</title></channel></rss>`)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returns EPARSE for non-feed documents", func(t *testing.T) {
		t.Parallel()

		for _, markup := range []string{
			"",
			"not xml at all <",
			`<html><body><p>hello</p></body></html>`,
		} {
			_, err := etree.NewFeedParser().Parse(markup)
			assert.Equal(t, newsgather.EPARSE, newsgather.ErrorCode(err), "markup %q", markup)
		}
	})
}
