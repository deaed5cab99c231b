package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/webqa"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Maintainer.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tLIVE\tEXPIRED")
	fmt.Fprintf(w, "answers\t%d\t%d\n", stats.Answers.Live, stats.Answers.Expired)
	fmt.Fprintf(w, "search_results\t%d\t%d\n", stats.SearchResults.Live, stats.SearchResults.Expired)
	fmt.Fprintf(w, "pages\t%d\t%d\n", stats.Pages.Live, stats.Pages.Expired)
	return w.Flush()
}
