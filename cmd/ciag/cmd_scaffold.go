package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
	"ciag/internal/policy"
	"ciag/internal/sales"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Create the triage directory for the selected operator",
	Long: "Creates docs/triage/TRG-<slug>/ with the memo, draft recommendation,\n" +
		"starter risk register, and evidence skeleton. Existing files are never\n" +
		"overwritten. Also writes the default governance policy if absent.",
	Args: cobra.NoArgs,
	RunE: runScaffold,
}

func runScaffold(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageScaffold, slug)

	created, err := sales.Scaffold(ws, sel, nowUTC().Format(time.RFC3339))
	if err != nil {
		recordRun(pipeline.StageScaffold, slug, ws.TriageDir(slug), journal.OutcomeFailed, err.Error())
		return err
	}
	for _, p := range created {
		log.Info("created", "path", ws.Rel(p))
	}

	if !artifact.Exists(ws.Policy()) {
		if _, err := artifact.WriteJSONIfChanged(ws.Policy(), policy.Default()); err != nil {
			return fmt.Errorf("write default policy: %w", err)
		}
		log.Info("created", "path", ws.Rel(ws.Policy()))
	}

	recordRun(pipeline.StageScaffold, slug, ws.TriageDir(slug), outcomeFor(len(created) > 0), "")
	fmt.Fprintf(cmd.OutOrStdout(), "Triage scaffold ready: %s\n", ws.TriageDir(slug))
	return nil
}
