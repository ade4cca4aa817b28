package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/newsgather"
	"github.com/fwojciec/newsgather/fs"
	"github.com/fwojciec/newsgather/gather"
)

// Run executes the gather command.
func (c *GatherCmd) Run(deps *Dependencies) error {
	var store *fs.ArticleStore
	if c.Out != "" {
		store = fs.NewArticleStore(filepath.Dir(c.Out), filepath.Base(c.Out))
		deps.Gatherer.Writers = append(deps.Gatherer.Writers, store)
	}

	progress := func(p newsgather.GatherProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.URL, p.Error)
			return
		}
		fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", p.Completed, p.Total, gather.TruncateURL(p.URL, 60))
	}

	result, err := deps.Gatherer.GatherQuery(deps.Ctx, c.Query, c.Limit, c.CleanerConfig(), progress)
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgather.ErrorMessage(err))
		return err
	}

	if store != nil {
		if len(result.Articles) == 0 {
			_ = store.Abort()
		} else if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing %s: %v\n", c.Out, err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Saved %d articles (%s, %s)",
		len(result.Articles), gather.FormatBytes(result.Bytes), gather.FormatTokens(result.Tokens))
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, ", %d failed", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}
