package main

import (
	"fmt"

	"github.com/fwojciec/webqa"
)

// Run executes the evict command.
func (c *EvictCmd) Run(deps *Dependencies) error {
	result, err := deps.Maintainer.EvictExpired(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Evicted %d answers, %d search results, %d pages\n",
		result.Answers, result.SearchResults, result.Pages)
	return nil
}
