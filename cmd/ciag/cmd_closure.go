package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var closureCmd = &cobra.Command{
	Use:   "closure [intake-file]",
	Short: "Run the intake closure loop",
	Long: "Chains intake apply, derive, policy, recommend, and runbook in one\n" +
		"invocation. The intake file defaults to fixtures/intake/<slug>.intake-response.json.",
	Args: cobra.MaximumNArgs(1),
	RunE: runClosure,
}

func runClosure(cmd *cobra.Command, args []string) error {
	steps := []struct {
		name string
		run  func(*cobra.Command, []string) error
		args []string
	}{
		{"intake apply", runIntakeApply, args},
		{"derive", runDerive, nil},
		{"policy", runPolicy, nil},
		{"recommend", runRecommend, nil},
		{"runbook", runRunbook, nil},
	}
	for _, s := range steps {
		if err := s.run(cmd, s.args); err != nil {
			return fmt.Errorf("closure step %s: %w", s.name, err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Closure loop complete")
	return nil
}
