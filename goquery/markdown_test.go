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

// parseBody parses markup as a full document and returns its body element.
func parseBody(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := gq.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	body := doc.Find("body").Get(0)
	require.NotNil(t, body)
	return body
}

func TestMarkdownConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "renders headings with one hash per level",
			markup: `<h2>Sub</h2><h6>Deep</h6>`,
			want:   "## Sub\n\n###### Deep\n",
		},
		{
			name:   "separates paragraphs with a blank line",
			markup: `<p>One</p><p>Two</p>`,
			want:   "One\n\nTwo\n",
		},
		{
			name:   "wraps emphasis and strong text",
			markup: `<p><strong>Bold</strong> and <em>italic</em> text.</p>`,
			want:   "**Bold** and *italic* text.\n",
		},
		{
			name:   "keeps whitespace around emphasis outside the markers",
			markup: `<p>Hello<em> world </em>again</p>`,
			want:   "Hello *world* again\n",
		},
		{
			name:   "renders inline formatting inside headings",
			markup: `<h2>Breaking: <em>markets</em></h2>`,
			want:   "## Breaking: *markets*\n",
		},
		{
			name:   "renders links with text and href",
			markup: `<p>Read <a href="https://example.com/story">the story</a> now</p>`,
			want:   "Read [the story](https://example.com/story) now\n",
		},
		{
			name:   "renders anchors without href as plain text",
			markup: `<p>Go <a>home</a> now</p>`,
			want:   "Go home now\n",
		},
		{
			name:   "drops anchors without text",
			markup: `<p>See<a href="/x"></a> more</p>`,
			want:   "See more\n",
		},
		{
			name:   "renders images and skips images without src",
			markup: `<p><img src="/a.png" alt="A cat"> <img alt="no source"> <img src="/b.png"></p>`,
			want:   "![A cat](/a.png) ![](/b.png)\n",
		},
		{
			name:   "separates images from adjacent inline content",
			markup: `<p>See<img src="a.png">now</p><p><picture><img src="i.png" alt="pic"></picture><script>var x=1</script></p>`,
			want:   "See ![](a.png) now\n\n![pic](i.png) var x=1\n",
		},
		{
			name:   "renders unordered lists",
			markup: `<ul><li>First</li><li>Second</li></ul>`,
			want:   "- First\n- Second\n",
		},
		{
			name:   "numbers ordered list items",
			markup: `<ol><li>One</li><li>Two</li><li>Three</li></ol>`,
			want:   "1. One\n2. Two\n3. Three\n",
		},
		{
			name:   "indents nested lists by two spaces",
			markup: `<ul><li>Fruit<ul><li>Apple</li></ul></li><li>Veg</li></ul>`,
			want:   "- Fruit\n  - Apple\n- Veg\n",
		},
		{
			name:   "separates lists from following blocks",
			markup: `<ul><li>A</li></ul><p>After</p>`,
			want:   "- A\n\nAfter\n",
		},
		{
			name:   "turns line breaks into block breaks",
			markup: `<p>Line one<br>Line two</p>`,
			want:   "Line one\n\nLine two\n",
		},
		{
			name:   "renders unknown elements transparently",
			markup: `<p>Hello <span>big <custom-tag>world</custom-tag></span></p>`,
			want:   "Hello big world\n",
		},
		{
			name:   "collapses whitespace and blank lines",
			markup: "<div>\n\n  <p>  Spaced   out  </p>\n\n\n<div><div><p>Next</p></div></div></div>",
			want:   "Spaced out \n\nNext\n",
		},
		{
			name:   "renders preformatted text as a fenced block",
			markup: "<pre><code class=\"language-go\">func main() {\n\tprintln(\"hi\")\n}</code></pre>",
			want:   "```go\nfunc main() {\n\tprintln(\"hi\")\n}\n```\n",
		},
		{
			name:   "renders inline code with backticks",
			markup: `<p>Run <code>go build</code> now</p>`,
			want:   "Run `go build` now\n",
		},
		{
			name:   "prefixes blockquote lines",
			markup: `<blockquote><p>Quoted</p><p>Second</p></blockquote>`,
			want:   "> Quoted\n>\n> Second\n",
		},
		{
			name:   "renders script text like any other text",
			markup: `<p>Before</p><script>var x = 1;</script>`,
			want:   "Before\n\nvar x = 1;\n",
		},
		{
			name:   "renders declarative shadow roots",
			markup: `<story-body><template shadowrootmode="open"><p>Shadow text</p></template></story-body><template><p>Inert</p></template>`,
			want:   "Shadow text\n",
		},
		{
			name:   "skips noscript content",
			markup: `<p>Visible</p><noscript>Enable JavaScript</noscript>`,
			want:   "Visible\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := goquery.NewMarkdownConverter()
			got, err := c.Convert(parseBody(t, tt.markup))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("skips the document head", func(t *testing.T) {
		t.Parallel()

		doc, err := gq.NewDocumentFromReader(strings.NewReader(
			`<html><head><title>Page title</title><style>p { color: red }</style></head><body><p>Visible</p></body></html>`))
		require.NoError(t, err)

		got, err := goquery.NewMarkdownConverter().Convert(doc.Get(0))

		require.NoError(t, err)
		assert.Equal(t, "Visible\n", got)
	})

	t.Run("returns empty string for a tree without text", func(t *testing.T) {
		t.Parallel()

		got, err := goquery.NewMarkdownConverter().Convert(parseBody(t, `<div>   <img alt="x"> </div>`))

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("returns error for nil node", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewMarkdownConverter().Convert(nil)

		require.Error(t, err)
		assert.Equal(t, newsgather.EINVALID, newsgather.ErrorCode(err))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		markup := `<article><h1>T</h1><p>A <b>b</b> <a href="/c">c</a></p><ol><li>d</li></ol></article>`
		c := goquery.NewMarkdownConverter()

		first, err := c.Convert(parseBody(t, markup))
		require.NoError(t, err)
		second, err := c.Convert(parseBody(t, markup))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
