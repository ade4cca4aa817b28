package main

import (
	"fmt"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	article, err := deps.Articles.FindArticleByURL(deps.Ctx, c.URL)
	if err != nil {
		if newsgather.ErrorCode(err) == newsgather.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no saved article for %s\n", c.URL)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsgather.ErrorMessage(err))
		}
		return err
	}

	if c.Full {
		fmt.Fprint(deps.Stdout, fs.FormatArticle(article))
		return nil
	}
	fmt.Fprint(deps.Stdout, article.Content)
	return nil
}
