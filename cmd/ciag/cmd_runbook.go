package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/journal"
	"ciag/internal/pipeline"
	"ciag/internal/runbook"
)

var runbookCmd = &cobra.Command{
	Use:   "runbook",
	Short: "Generate the pilot runbook",
	Long: "Generates pilot-runbook.md for the selected operator. Requires the\n" +
		"recommendation and risk register to exist.",
	Args: cobra.NoArgs,
	RunE: runRunbook,
}

func runRunbook(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	path := ws.RunbookPath(slug)

	doc, err := loadEvidenceIfPresent(ws.EvidencePath(slug))
	if err != nil {
		return err
	}
	changed, err := runbook.Generate(ws, sel, docTimestamp(doc))
	if err != nil {
		recordRun(pipeline.StageRunbook, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	recordRun(pipeline.StageRunbook, slug, path, outcomeFor(changed), "")
	fmt.Fprintf(cmd.OutOrStdout(), "Pilot runbook generated: %s\n", ws.Rel(path))
	return nil
}
