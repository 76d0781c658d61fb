package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/manifest"
	"ciag/internal/pipeline"
)

var manifestFlags struct {
	tier1  string
	intake string
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write the run manifest for the selected operator",
	Long: "Writes out/manifests/<slug>.run.json with the SHA-256 of every\n" +
		"pipeline artifact present, plus the optional tier1 and intake inputs.",
	Args: cobra.NoArgs,
	RunE: runManifest,
}

func init() {
	f := manifestCmd.Flags()
	f.StringVar(&manifestFlags.tier1, "tier1", "", "tier-1 operator list input path")
	f.StringVar(&manifestFlags.intake, "intake", "", "intake response input path")
}

func runManifest(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageManifest, slug)
	path := ws.ManifestPath(slug)

	m, err := manifest.Build(ws, slug, manifestFlags.tier1, manifestFlags.intake, nowUTC())
	if err != nil {
		recordRun(pipeline.StageManifest, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	changed, err := manifest.Write(ws, m)
	if err != nil {
		recordRun(pipeline.StageManifest, slug, path, journal.OutcomeFailed, err.Error())
		return err
	}
	log.Info("manifest written", "artifacts", len(m.Artifacts), "changed", changed)
	recordRun(pipeline.StageManifest, slug, path, outcomeFor(changed), fmt.Sprintf("artifacts=%d", len(m.Artifacts)))
	fmt.Fprintf(cmd.OutOrStdout(), "Run manifest: %s (%d artifact(s))\n", ws.Rel(path), len(m.Artifacts))
	return nil
}
