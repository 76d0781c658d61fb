package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/logging"
	"ciag/internal/pipeline"
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake response tooling",
}

var intakeTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an intake response template for the selected operator",
	Args:  cobra.NoArgs,
	RunE:  runIntakeTemplate,
}

var intakeApplyCmd = &cobra.Command{
	Use:   "apply [intake-file]",
	Short: "Apply an intake response to the evidence document",
	Long: "Applies the operator's intake response: vendor, product, notes, and\n" +
		"confidence per system type. Null fields leave existing values alone;\n" +
		"answered systems are marked observed.",
	Args: cobra.MaximumNArgs(1),
	RunE: runIntakeApply,
}

func init() {
	intakeCmd.AddCommand(intakeTemplateCmd)
	intakeCmd.AddCommand(intakeApplyCmd)
}

func runIntakeTemplate(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	path := ws.IntakePath(slug)

	changed, err := artifact.WriteJSONIfChanged(path, evidence.Template(nowUTC()))
	if err != nil {
		return err
	}
	recordRun(pipeline.StageIntake, slug, path, outcomeFor(changed), "template")
	fmt.Fprintf(cmd.OutOrStdout(), "Intake template: %s\n", ws.Rel(path))
	return nil
}

func runIntakeApply(cmd *cobra.Command, args []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage(pipeline.StageIntake, slug)

	intakePath := ws.IntakePath(slug)
	if len(args) == 1 {
		intakePath = args[0]
	}
	resp, err := evidence.LoadIntake(intakePath)
	if err != nil {
		return err
	}
	doc, err := evidence.Load(ws.EvidencePath(slug))
	if err != nil {
		return err
	}

	applied := evidence.ApplyIntake(doc, resp, ws.Rel(intakePath), nowUTC())
	changed, err := artifact.WriteJSONIfChanged(ws.EvidencePath(slug), doc)
	if err != nil {
		return err
	}
	log.Info("intake applied", "systems", applied, "changed", changed)
	recordRun(pipeline.StageIntake, slug, ws.EvidencePath(slug), outcomeFor(changed), fmt.Sprintf("systems=%d", applied))
	fmt.Fprintf(cmd.OutOrStdout(), "Intake applied: %d evidence item(s) updated\n", applied)
	return nil
}
