package main

import (
	"fmt"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/gather"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := newsgather.ArticleFilter{Limit: c.Limit}
	if c.Query != "" {
		filter.Query = &c.Query
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgather.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'newsgather gather' to collect some.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			a.FetchedAt.Format("2006-01-02 15:04"), gather.FormatTokens(a.Tokens), a.Headline, a.URL)
	}

	return nil
}
