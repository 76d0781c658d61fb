package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ciag/internal/journal"
	"ciag/internal/pipeline"
	"ciag/internal/sales"
)

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Render reach and sales artifacts for the selected operator",
	Long: "Renders out/reach/<slug>/ (prequal record, invite letter) and\n" +
		"out/sales/<slug>/ (source snapshot, outreach letter, pipeline state).\n" +
		"Local artifacts only; nothing is sent.",
	Args: cobra.NoArgs,
	RunE: runSales,
}

func runSales(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()

	changed, err := sales.Run(ws, sel, nowUTC().Format(time.RFC3339))
	if err != nil {
		recordRun(pipeline.StageSales, slug, ws.SalesSourcePath(slug), journal.OutcomeFailed, err.Error())
		return err
	}
	recordRun(pipeline.StageSales, slug, ws.SalesSourcePath(slug), outcomeFor(changed > 0), "")
	fmt.Fprintf(cmd.OutOrStdout(), "Sales artifacts ready (%d changed): %s\n", changed, ws.Rel(ws.SalesSourcePath(slug)))
	return nil
}
