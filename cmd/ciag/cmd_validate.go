package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/journal"
	"ciag/internal/manifest"
	"ciag/internal/pipeline"
)

var validateFlags struct {
	verify bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the run manifest for the selected operator",
	Long: "Fails closed when any required artifact kind is missing from the\n" +
		"manifest, or when a recorded path no longer exists on disk. With\n" +
		"--verify, every artifact is also re-hashed against its recorded SHA-256.",
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateFlags.verify, "verify", false, "re-hash every artifact against its recorded sha256")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	path := ws.ManifestPath(slug)

	count, err := manifest.Validate(ws, slug)
	if err != nil {
		recordRun(pipeline.StageValidate, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	if validateFlags.verify {
		if err := manifest.Verify(ws, slug); err != nil {
			recordRun(pipeline.StageValidate, slug, path, journal.OutcomeFailed, err.Error())
			return err
		}
	}
	recordRun(pipeline.StageValidate, slug, path, journal.OutcomeUnchanged, fmt.Sprintf("artifacts=%d", count))
	fmt.Fprintf(cmd.OutOrStdout(), "Manifest valid: %d artifact(s)\n", count)
	return nil
}
