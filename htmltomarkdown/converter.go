// Package htmltomarkdown provides a newsgather.Converter backed by the
// html-to-markdown library, for callers that prefer its CommonMark output
// (tables included) over the built-in renderer.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

// Ensure Converter implements newsgather.Converter at compile time.
var _ newsgather.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert renders n as Markdown. Like the built-in renderer, the result ends
// with a single newline or is empty.
func (c *Converter) Convert(n *html.Node) (string, error) {
	if n == nil {
		return "", newsgather.Errorf(newsgather.EINVALID, "nil node")
	}

	result, err := c.conv.ConvertNode(n)
	if err != nil {
		return "", err
	}

	md := strings.TrimSpace(string(result))
	if md == "" {
		return "", nil
	}
	return md + "\n", nil
}
