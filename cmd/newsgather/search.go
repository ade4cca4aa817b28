package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/newsgather"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	articles, err := deps.Gatherer.Search(deps.Ctx, c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgather.ErrorMessage(err))
		return err
	}

	if c.Limit > 0 && len(articles) > c.Limit {
		articles = articles[:c.Limit]
	}

	if len(articles) == 0 {
		fmt.Fprintf(deps.Stdout, "No articles found for %q.\n", c.Query)
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	for _, a := range articles {
		if c.JSON {
			if err := enc.Encode(a); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", a.Headline, a.URL)
	}

	return nil
}
