package main

import (
	"fmt"

	"github.com/fwojciec/newsgather"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	md, err := deps.Gatherer.Gather(deps.Ctx, c.URL, c.CleanerConfig())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgather.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, md)
	return nil
}
