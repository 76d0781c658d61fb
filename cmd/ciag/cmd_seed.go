package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed or merge the evidence document for the selected operator",
	Long: "Creates docs/triage/TRG-<slug>/evidence.json from the placeholder\n" +
		"catalog, or merges missing placeholders into an existing document.\n" +
		"Items already present are left untouched.",
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageSeed, slug)
	path := ws.EvidencePath(slug)

	prev, err := loadEvidenceIfPresent(path)
	if err != nil {
		return err
	}
	doc, err := evidence.Seed(sel, prev, ws.Rel(ws.Selection()), nowUTC())
	if err != nil {
		recordRun(pipeline.StageSeed, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	changed, err := artifact.WriteJSONIfChanged(path, doc)
	if err != nil {
		return err
	}
	log.Info("evidence seeded", "items", len(doc.Items), "changed", changed)
	recordRun(pipeline.StageSeed, slug, path, outcomeFor(changed), "")
	fmt.Fprintf(cmd.OutOrStdout(), "Evidence seeded for %s (%d items)\n", slug, len(doc.Items))
	return nil
}
