package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
	"ciag/internal/recommend"
	"ciag/internal/register"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate the triage recommendation document",
	Args:  cobra.NoArgs,
	RunE:  runRecommend,
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageRecommend, slug)
	path := ws.RecommendationPath(slug)

	doc, err := evidence.Load(ws.EvidencePath(slug))
	if err != nil {
		return err
	}
	reg, err := register.Load(ws.RiskRegisterPath(slug))
	if err != nil {
		return err
	}

	md, sum := recommend.Render(sel, reg, doc, docTimestamp(doc))
	changed, err := artifact.WriteIfChanged(path, []byte(md))
	if err != nil {
		recordRun(pipeline.StageRecommend, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	log.Info("recommendation generated",
		"total", sum.TotalRisks, "open", sum.Open, "blockers", sum.Blockers)
	recordRun(pipeline.StageRecommend, slug, path, outcomeFor(changed), "")
	fmt.Fprintf(cmd.OutOrStdout(),
		"Recommendation generated: %d risk(s), %d mitigated, %d open, %d blocker(s)\n",
		sum.TotalRisks, sum.Mitigated, sum.Open, sum.Blockers)
	return nil
}
