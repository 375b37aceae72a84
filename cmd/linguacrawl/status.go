package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/linguacrawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if err := c.printCheckpoint(deps); err != nil {
		return err
	}
	if deps.Pages == nil {
		return nil
	}
	if c.Language != "" {
		return c.printPages(deps)
	}
	return c.printLanguages(deps)
}

func (c *StatusCmd) printCheckpoint(deps *Dependencies) error {
	status, err := deps.Checkpoints.LoadStatus(deps.Ctx)
	if linguacrawl.ErrorCode(err) == linguacrawl.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No checkpoint found. Use 'linguacrawl crawl' to start one.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linguacrawl.ErrorMessage(err))
		return err
	}

	byClass := make(map[linguacrawl.PriorityClass]int)
	for i := range status.Pending {
		byClass[status.PendingClass(i)]++
	}

	if deps.CheckpointPath != "" {
		fmt.Fprintf(deps.Stdout, "Stored in: %s\n", deps.CheckpointPath)
	}
	fmt.Fprintf(deps.Stdout, "Processed: %d\n", len(status.Processed))
	fmt.Fprintf(deps.Stdout, "Pending:   %d (target %d, unknown %d, off_target %d)\n",
		len(status.Pending),
		byClass[linguacrawl.ClassTarget],
		byClass[linguacrawl.ClassUnknown],
		byClass[linguacrawl.ClassOffTarget])
	fmt.Fprintf(deps.Stdout, "Attempts:  %d\n", status.Attempts)
	if len(status.Pending) > 0 {
		fmt.Fprintf(deps.Stdout, "Next:      %s\n", status.Pending[0])
	}
	return nil
}

func (c *StatusCmd) printLanguages(deps *Dependencies) error {
	counts, err := deps.Pages.CountByLanguage(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linguacrawl.ErrorMessage(err))
		return err
	}
	if len(counts) == 0 {
		return nil
	}

	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	fmt.Fprintln(deps.Stdout, "Pages by language:")
	for _, lang := range langs {
		fmt.Fprintf(deps.Stdout, "  %-8s %d\n", languageLabel(lang), counts[lang])
	}
	return nil
}

func (c *StatusCmd) printPages(deps *Dependencies) error {
	pages, err := deps.Pages.FindPages(deps.Ctx, linguacrawl.PageFilter{
		Language: &c.Language,
		Limit:    c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linguacrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Pages in %s (%d shown):\n", c.Language, len(pages))
	for _, p := range pages {
		fmt.Fprintf(deps.Stdout, "  %s  %s  %s\n", p.FetchedAt.Format("2006-01-02"), p.Class, p.URL)
	}
	return nil
}
