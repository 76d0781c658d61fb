package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
	"ciag/internal/register"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive the risk register from the evidence document",
	Long: "Seeds a risk row per evidence system type and mitigates rows whose\n" +
		"system type has observed evidence. Existing rows are updated in place;\n" +
		"rows are never deleted.",
	Args: cobra.NoArgs,
	RunE: runDerive,
}

func runDerive(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageDerive, slug)
	path := ws.RiskRegisterPath(slug)

	doc, err := evidence.Load(ws.EvidencePath(slug))
	if err != nil {
		return err
	}
	reg, err := register.Load(path)
	if err != nil {
		return err
	}

	updated := register.Derive(doc, reg)
	data, err := reg.Bytes()
	if err != nil {
		return err
	}
	changed, err := artifact.WriteIfChanged(path, data)
	if err != nil {
		recordRun(pipeline.StageDerive, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	log.Info("register derived", "rows", len(reg.Rows), "updated", updated)
	recordRun(pipeline.StageDerive, slug, path, outcomeFor(changed), "")
	fmt.Fprintf(cmd.OutOrStdout(), "Risk register derived: %d row(s), %d updated\n", len(reg.Rows), updated)
	return nil
}
