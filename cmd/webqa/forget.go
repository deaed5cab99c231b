package main

import (
	"fmt"

	"github.com/fwojciec/webqa"
)

// Run executes the forget command.
func (c *ForgetCmd) Run(deps *Dependencies) error {
	key := webqa.NormalizeQuery(c.Question)
	if key == "" {
		fmt.Fprintln(deps.Stderr, "error: question required")
		return webqa.Errorf(webqa.EINVALID, "question required")
	}

	if err := deps.Answers.DeleteAnswer(deps.Ctx, key); err != nil {
		if webqa.ErrorCode(err) == webqa.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no cached answer for %q. Use 'webqa history' to see cached answers.\n", c.Question)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Forgot answer for %q\n", c.Question)
	return nil
}
