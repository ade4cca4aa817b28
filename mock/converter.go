package mock

import (
	"github.com/fwojciec/newsgather"
	"golang.org/x/net/html"
)

var _ newsgather.Converter = (*Converter)(nil)

// Converter is a mock implementation of newsgather.Converter.
type Converter struct {
	ConvertFn func(n *html.Node) (string, error)
}

func (c *Converter) Convert(n *html.Node) (string, error) {
	return c.ConvertFn(n)
}
