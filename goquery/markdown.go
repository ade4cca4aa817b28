package goquery

import (
	"strconv"
	"strings"

	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

// Ensure MarkdownConverter implements newsgather.Converter at compile time.
var _ newsgather.Converter = (*MarkdownConverter)(nil)

// MarkdownConverter renders a parsed HTML subtree as Markdown by walking it
// in document order. Rendering behaviour is looked up by tag name; elements
// without a rule are transparent and only their children are rendered.
//
// MarkdownConverter has no state and is safe for concurrent use.
type MarkdownConverter struct{}

// NewMarkdownConverter creates a new MarkdownConverter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Convert renders n and its descendants as Markdown. The result ends with a
// single newline, or is empty when n holds no renderable text.
func (c *MarkdownConverter) Convert(n *html.Node) (string, error) {
	if n == nil {
		return "", newsgather.Errorf(newsgather.EINVALID, "nil node")
	}

	w := &mdWriter{}
	w.node(n)

	out := w.String()
	if strings.TrimSpace(out) == "" {
		return "", nil
	}
	return out + "\n", nil
}

// renderFunc renders a single element into w.
type renderFunc func(w *mdWriter, n *html.Node)

// rules maps tag names to their rendering behaviour. It is populated in init
// because the rules recurse back into mdWriter.node.
var rules map[string]renderFunc

func init() {
	rules = map[string]renderFunc{
		"h1": renderHeading(1),
		"h2": renderHeading(2),
		"h3": renderHeading(3),
		"h4": renderHeading(4),
		"h5": renderHeading(5),
		"h6": renderHeading(6),

		"em":     renderWrapped("*"),
		"i":      renderWrapped("*"),
		"strong": renderWrapped("**"),
		"b":      renderWrapped("**"),

		"a":          renderLink,
		"img":        renderImage,
		"ul":         renderList(false),
		"ol":         renderList(true),
		"br":         renderBreak,
		"hr":         renderBreak,
		"pre":        renderPre,
		"code":       renderCode,
		"blockquote": renderBlockquote,

		"tr": renderRow,
		"td": renderCell,
		"th": renderCell,

		"head":     renderNothing,
		"style":    renderNothing,
		"noscript": renderNothing,
		"template": renderTemplate,
	}
	for _, tag := range []string{
		"p", "div", "section", "article", "main", "header", "footer",
		"aside", "nav", "figure", "figcaption", "address", "details",
		"summary", "dl", "dt", "dd", "table", "form", "fieldset",
	} {
		rules[tag] = renderBlock
	}
}

// mdWriter accumulates Markdown. Newlines and line prefixes are owed rather
// than written, so they only materialise in front of actual text. That keeps
// the output free of leading blank lines, trailing blank lines and runs of
// more than one blank line.
type mdWriter struct {
	buf strings.Builder

	pending int    // newlines owed before the next text, at most 2
	prefix  string // line prefix owed before the next text
	space   bool   // a separating space is owed before the next text

	// trimmedLead records that leading whitespace was dropped from the
	// very first text written, so wrappers can put the space back outside.
	trimmedLead bool

	items int // depth of list items (and inline wrappers) being rendered
	lists int // depth of lists being rendered
}

// String returns the Markdown written so far, without a trailing newline.
func (w *mdWriter) String() string {
	return w.buf.String()
}

// node renders n according to its type and tag rule.
func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
	case html.DocumentNode:
		w.children(n)
	case html.ElementNode:
		if rule, ok := rules[n.Data]; ok {
			rule(w, n)
			return
		}
		w.children(n)
	}
}

// children renders the children of n in document order.
func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

// atLineStart reports whether the next text would begin a new line.
func (w *mdWriter) atLineStart() bool {
	if w.buf.Len() == 0 || w.pending > 0 || w.prefix != "" {
		return true
	}
	s := w.buf.String()
	return s[len(s)-1] == '\n'
}

func (w *mdWriter) endsWithSpace() bool {
	s := w.buf.String()
	return len(s) > 0 && s[len(s)-1] == ' '
}

// text writes a text node with whitespace runs collapsed to single spaces.
func (w *mdWriter) text(s string) {
	s = collapseSpace(s)
	if s == "" {
		return
	}
	if w.atLineStart() {
		if s[0] == ' ' && w.buf.Len() == 0 {
			w.trimmedLead = true
		}
		s = strings.TrimLeft(s, " ")
	} else if s[0] == ' ' && (w.endsWithSpace() || w.space) {
		s = s[1:]
	}
	if s == "" {
		return
	}
	w.write(s)
}

// write flushes owed separators and writes s verbatim.
func (w *mdWriter) write(s string) {
	if w.buf.Len() > 0 && w.pending > 0 {
		w.buf.WriteString(strings.Repeat("\n", w.pending))
		w.space = false
	}
	w.pending = 0
	if w.prefix != "" {
		w.buf.WriteString(w.prefix)
		w.prefix = ""
		w.space = false
	}
	if w.space {
		if !w.atLineStart() && !w.endsWithSpace() {
			w.buf.WriteByte(' ')
		}
		w.space = false
	}
	w.buf.WriteString(s)
}

// softSpace owes a single space before the next text on the same line.
func (w *mdWriter) softSpace() {
	if !w.atLineStart() {
		w.space = true
	}
}

// blockBreak ends the current block. Inside list items it degrades to a
// space so that an item stays on a single line.
func (w *mdWriter) blockBreak() {
	if w.items > 0 {
		w.softSpace()
		return
	}
	w.prefix = ""
	w.space = false
	if w.buf.Len() > 0 {
		w.pending = 2
	}
}

// lineBreak ends the current line.
func (w *mdWriter) lineBreak() {
	w.prefix = ""
	w.space = false
	if w.buf.Len() > 0 && w.pending < 1 {
		w.pending = 1
	}
}

// inline renders the children of n on a scratch writer that keeps block
// content on one line. It returns the rendering and whether it began with
// whitespace.
func (w *mdWriter) inline(n *html.Node) (string, bool) {
	sub := &mdWriter{items: w.items + 1, lists: w.lists}
	sub.children(n)
	return sub.String(), sub.trimmedLead
}

// fragment writes an already rendered inline fragment, keeping the
// whitespace that surrounded its source outside of it.
func (w *mdWriter) fragment(s string, lead, trail bool) {
	if lead {
		w.softSpace()
	}
	w.write(s)
	if trail {
		w.softSpace()
	}
}

func renderNothing(*mdWriter, *html.Node) {}

// renderTemplate renders declarative shadow roots, which is how a browser
// serializes web component content; other templates are inert.
func renderTemplate(w *mdWriter, n *html.Node) {
	if _, ok := attr(n, "shadowrootmode"); ok {
		w.children(n)
	}
}

func renderBlock(w *mdWriter, n *html.Node) {
	w.blockBreak()
	w.children(n)
	w.blockBreak()
}

func renderHeading(level int) renderFunc {
	marker := strings.Repeat("#", level) + " "
	return func(w *mdWriter, n *html.Node) {
		w.blockBreak()
		if w.items == 0 {
			w.prefix = marker
		}
		w.children(n)
		w.blockBreak()
	}
}

func renderWrapped(mark string) renderFunc {
	return func(w *mdWriter, n *html.Node) {
		inner, lead := w.inline(n)
		trimmed := strings.TrimSpace(inner)
		if trimmed == "" {
			if lead {
				w.softSpace()
			}
			return
		}
		w.fragment(mark+trimmed+mark, lead, strings.HasSuffix(inner, " "))
	}
}

// renderLink renders an anchor as [text](href). Anchors without an href are
// plain text; anchors without text carry nothing readable and are dropped.
func renderLink(w *mdWriter, n *html.Node) {
	href, ok := attr(n, "href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		w.children(n)
		return
	}
	inner, lead := w.inline(n)
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return
	}
	w.fragment("["+trimmed+"]("+href+")", lead, strings.HasSuffix(inner, " "))
}

// renderImage renders an image as ![alt](src), set apart from the inline
// content around it. Images without a src are dropped.
func renderImage(w *mdWriter, n *html.Node) {
	src, ok := attr(n, "src")
	src = strings.TrimSpace(src)
	if !ok || src == "" {
		return
	}
	alt, _ := attr(n, "alt")
	w.fragment("!["+strings.TrimSpace(collapseSpace(alt))+"]("+src+")", true, true)
}

func renderBreak(w *mdWriter, _ *html.Node) {
	w.blockBreak()
}

func renderList(ordered bool) renderFunc {
	return func(w *mdWriter, n *html.Node) {
		nested := w.lists > 0
		if nested {
			w.lineBreak()
		} else {
			w.blockBreak()
		}
		indent := strings.Repeat("  ", w.lists)
		w.lists++

		// Nested lists must break lines even inside an item.
		items := w.items
		w.items = 0

		num := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "li" {
				w.node(c)
				continue
			}
			num++
			marker := "- "
			if ordered {
				marker = strconv.Itoa(num) + ". "
			}
			w.lineBreak()
			w.prefix = indent + marker
			w.items++
			w.children(c)
			w.items--
			w.lineBreak()
		}

		w.items = items
		w.lists--
		if nested {
			w.lineBreak()
		} else {
			w.blockBreak()
		}
	}
}

// renderPre renders preformatted text as a fenced code block, keeping its
// text verbatim. A language-* class on an inner code element becomes the
// fence's info string.
func renderPre(w *mdWriter, n *html.Node) {
	code := strings.Trim(textContent(n), "\n")
	if strings.TrimSpace(code) == "" {
		return
	}
	w.blockBreak()
	w.write("```" + codeLanguage(n) + "\n" + code + "\n```")
	w.blockBreak()
}

func renderCode(w *mdWriter, n *html.Node) {
	raw := collapseSpace(textContent(n))
	code := strings.TrimSpace(raw)
	if code == "" {
		return
	}
	w.fragment("`"+code+"`", strings.HasPrefix(raw, " "), strings.HasSuffix(raw, " "))
}

func renderBlockquote(w *mdWriter, n *html.Node) {
	sub := &mdWriter{}
	sub.children(n)
	body := sub.String()
	if strings.TrimSpace(body) == "" {
		return
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}

	w.blockBreak()
	w.write(strings.Join(lines, "\n"))
	w.blockBreak()
}

func renderRow(w *mdWriter, n *html.Node) {
	w.lineBreak()
	w.children(n)
	w.lineBreak()
}

func renderCell(w *mdWriter, n *html.Node) {
	w.softSpace()
	w.children(n)
	w.softSpace()
}

// collapseSpace replaces every run of whitespace in s with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		default:
			b.WriteRune(r)
			inSpace = false
		}
	}
	return b.String()
}

// textContent concatenates all text below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// codeLanguage returns the language hint of the first code element below n.
func codeLanguage(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "code" {
			continue
		}
		class, _ := attr(c, "class")
		for _, name := range strings.Fields(class) {
			if lang, ok := strings.CutPrefix(name, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}
