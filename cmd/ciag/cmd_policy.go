package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
	"ciag/internal/policy"
	"ciag/internal/register"
)

var policyFlags struct {
	policyPath string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Apply the governance policy to the risk register",
	Long: "Promotes risk rows whose system type has evidence meeting the policy\n" +
		"threshold: status and likelihood from the mitigation mapping, evidence\n" +
		"id appended to evidence_refs, and the policy tag appended to notes.",
	Args: cobra.NoArgs,
	RunE: runPolicy,
}

func init() {
	policyCmd.Flags().StringVar(&policyFlags.policyPath, "policy", "", "governance policy file (default: workspace policy path)")
}

func runPolicy(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StagePolicy, slug)
	path := ws.RiskRegisterPath(slug)

	policyPath := policyFlags.policyPath
	if policyPath == "" {
		policyPath = ws.Policy()
	}
	pol, err := policy.Load(policyPath)
	if err != nil {
		return err
	}
	doc, err := evidence.Load(ws.EvidencePath(slug))
	if err != nil {
		return err
	}
	reg, err := register.Load(path)
	if err != nil {
		return err
	}

	promoted := policy.Apply(pol, doc, reg)
	data, err := reg.Bytes()
	if err != nil {
		return err
	}
	changed, err := artifact.WriteIfChanged(path, data)
	if err != nil {
		recordRun(pipeline.StagePolicy, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	log.Info("policy applied", "policy", pol.ID, "promoted", promoted)
	recordRun(pipeline.StagePolicy, slug, path, outcomeFor(changed), fmt.Sprintf("promoted=%d", promoted))
	fmt.Fprintf(cmd.OutOrStdout(), "Policy %s applied: %d row(s) promoted\n", pol.ID, promoted)
	return nil
}
