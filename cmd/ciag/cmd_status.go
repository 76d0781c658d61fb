package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/format"
	"ciag/internal/journal"
	"ciag/internal/manifest"
	"ciag/internal/register"
)

var statusFlags struct {
	markdown bool
	history  int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline state for the selected operator",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	f := statusCmd.Flags()
	f.BoolVar(&statusFlags.markdown, "markdown", false, "render tables as Markdown")
	f.IntVar(&statusFlags.history, "history", 10, "journal entries to show")
}

func tableMode() format.Mode {
	if statusFlags.markdown {
		return format.Markdown
	}
	return format.ASCII
}

func runStatus(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Operator: %s (%s)\n", sel.DisplayName(), slug)
	fmt.Fprintf(out, "Locations: %s  Confidence: %s\n",
		format.FmtScore(sel.Locations), format.FmtScore(sel.Confidence))
	if sel.Priority != "" || sel.OutreachStatus != "" {
		fmt.Fprintf(out, "Priority: %s  Outreach: %s\n", sel.Priority, sel.OutreachStatus)
	}
	fmt.Fprintln(out)

	printArtifacts(cmd, slug)
	printRisks(cmd, slug)
	printHistory(cmd, slug)
	return nil
}

func printArtifacts(cmd *cobra.Command, slug string) {
	artifacts := []struct {
		kind string
		path string
	}{
		{manifest.KindReachPrequal, ws.PrequalPath(slug)},
		{manifest.KindReachLetter, ws.ReachLetterPath(slug)},
		{manifest.KindSalesSource, ws.SalesSourcePath(slug)},
		{manifest.KindSalesOutreachLetter, ws.OutreachLetterPath(slug)},
		{manifest.KindSalesPipelineState, ws.PipelineStatePath(slug)},
		{manifest.KindTriageEvidence, ws.EvidencePath(slug)},
		{manifest.KindTriageRiskRegister, ws.RiskRegisterPath(slug)},
		{manifest.KindTriageRecommend, ws.RecommendationPath(slug)},
		{manifest.KindTriageRunbook, ws.RunbookPath(slug)},
	}

	tb := format.NewTable(tableMode())
	tb.Header("Kind", "Path", "Present")
	present := 0
	for _, a := range artifacts {
		ok := artifact.Exists(a.path)
		if ok {
			present++
		}
		tb.Row(a.kind, ws.Rel(a.path), format.BoolMark(ok))
	}
	tb.Footer("", "present", fmt.Sprintf("%d/%d", present, len(artifacts)))
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
}

func printRisks(cmd *cobra.Command, slug string) {
	reg, err := register.Load(ws.RiskRegisterPath(slug))
	if err != nil {
		return
	}
	open, mitigated := 0, 0
	for _, r := range reg.Rows {
		if r.Mitigated() {
			mitigated++
		} else {
			open++
		}
	}
	tb := format.NewTable(tableMode())
	tb.Header("Risk", "System", "Severity", "Status")
	for _, r := range reg.Rows {
		tb.Row(r.RiskID, r.SystemType, r.Severity, r.Status)
	}
	tb.Footer("", "", fmt.Sprintf("open %d", open), fmt.Sprintf("mitigated %d", mitigated))
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
}

func printHistory(cmd *cobra.Command, slug string) {
	j, err := journal.Open(ws.Journal())
	if err != nil {
		return
	}
	defer j.Close()
	entries, err := j.BySlug(slug)
	if err != nil || len(entries) == 0 {
		return
	}
	if n := statusFlags.history; n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	tb := format.NewTable(tableMode())
	tb.Header("At", "Step", "Outcome", "Artifact")
	for _, e := range entries {
		tb.Row(e.CreatedAt, e.Step, e.Outcome, format.Truncate(e.ArtifactPath, 48))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
}
