package main

import (
	"fmt"

	"github.com/fwojciec/webqa"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	answers, err := deps.Answers.FindAnswers(deps.Ctx, webqa.AnswerFilter{
		IncludeExpired: c.All,
		Limit:          c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	if len(answers) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached answers. Use 'webqa ask' to answer a question.")
		return nil
	}

	if c.Export != "" {
		return c.export(deps, answers)
	}

	for _, a := range answers {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Question, a.SourceURL)
	}
	return nil
}

func (c *HistoryCmd) export(deps *Dependencies, answers []*webqa.Answer) error {
	exporter := deps.Export(c.Export)
	for _, a := range answers {
		if err := exporter.Save(a); err != nil {
			_ = exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
			return err
		}
	}
	if err := exporter.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d answers to %s\n", len(answers), c.Export)
	return nil
}
