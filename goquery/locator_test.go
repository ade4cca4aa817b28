package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseDocument(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Get(0)
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestHeuristicLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("returns every outermost article element", func(t *testing.T) {
		t.Parallel()

		root := parseDocument(t, `<body>
<article id="one"><p>First</p><article id="nested"><p>Inner</p></article></article>
<div><article id="two"><p>Second</p></article></div>
</body>`)

		got, err := goquery.NewHeuristicLocator().Locate(root)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "one", attrOf(got[0], "id"))
		assert.Equal(t, "two", attrOf(got[1], "id"))
	})

	t.Run("picks the container holding the most text", func(t *testing.T) {
		t.Parallel()

		root := parseDocument(t, `<body>
<nav><p>Home World Politics Business Technology Science Health Sports Entertainment</p></nav>
<div id="story">
  <h1>Council approves new budget</h1>
  <p>The city council approved the new budget on Tuesday after months of debate.</p>
  <p>Officials said the plan funds road repairs and two new libraries.</p>
</div>
<div id="sidebar"><p>Most read</p></div>
<footer><p>Copyright notice and a long list of legal links that should never win.</p></footer>
</body>`)

		got, err := goquery.NewHeuristicLocator().Locate(root)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "story", attrOf(got[0], "id"))
	})

	t.Run("prefers the common parent of split story wrappers", func(t *testing.T) {
		t.Parallel()

		root := parseDocument(t, `<body>
<main id="content">
  <div><p>First part of the story with a fair amount of text in it.</p></div>
  <div><p>Second part of the story with a fair amount of text in it.</p></div>
  <div><p>Third part of the story with a fair amount of text in it.</p></div>
</main>
</body>`)

		got, err := goquery.NewHeuristicLocator().Locate(root)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "content", attrOf(got[0], "id"))
	})

	t.Run("falls back to body text", func(t *testing.T) {
		t.Parallel()

		root := parseDocument(t, `<body><span>Only loose text here</span></body>`)

		got, err := goquery.NewHeuristicLocator().Locate(root)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "body", got[0].Data)
	})

	t.Run("returns ENOCONTENT for an empty body", func(t *testing.T) {
		t.Parallel()

		root := parseDocument(t, `<html><head><title>Nothing</title></head><body>   </body></html>`)

		_, err := goquery.NewHeuristicLocator().Locate(root)

		require.Error(t, err)
		assert.Equal(t, newsgather.ENOCONTENT, newsgather.ErrorCode(err))
	})

	t.Run("returns ENOCONTENT for nil root", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewHeuristicLocator().Locate(nil)

		assert.Equal(t, newsgather.ENOCONTENT, newsgather.ErrorCode(err))
	})
}
