package main

import (
	"fmt"

	"github.com/fwojciec/webqa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		switch webqa.ErrorCode(err) {
		case webqa.ENORELEVANT, webqa.ENOANSWER:
			fmt.Fprintln(deps.Stdout, "No answer found.")
			return nil
		case webqa.EQUOTA:
			fmt.Fprintln(deps.Stderr, "error: search quota exceeded, try again later")
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	fmt.Fprintln(deps.Stdout)
	if answer.SourceTitle != "" {
		fmt.Fprintf(deps.Stdout, "Source: %s (%s)\n", answer.SourceTitle, answer.SourceURL)
	} else {
		fmt.Fprintf(deps.Stdout, "Source: %s\n", answer.SourceURL)
	}
	if answer.Cached {
		fmt.Fprintf(deps.Stdout, "Cached: %s\n", answer.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
