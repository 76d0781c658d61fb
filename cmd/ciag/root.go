// ciag is the governance triage CLI: a deterministic, file-based pipeline
// that takes a selected hospitality operator from evidence seeding through
// risk derivation, policy application, recommendation, runbook, and an
// audit manifest.
//
// Usage:
//
//	ciag scaffold
//	ciag sales
//	ciag seed
//	ciag intake template | ciag intake apply [file]
//	ciag derive
//	ciag policy
//	ciag recommend
//	ciag runbook
//	ciag manifest [--tier1 <path>] [--intake <path>]
//	ciag validate [--verify]
//	ciag closure [intake-file]
//	ciag golden [--tier1 <path>] [--intake <path>]
//	ciag status
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ciag/internal/logging"
	"ciag/internal/workspace"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	root      string
	config    string
	logLevel  string
	logFormat string
}

// ws is the resolved workspace layout, set before any command runs.
var ws workspace.Layout

var rootCmd = &cobra.Command{
	Use:   "ciag",
	Short: "Governance-first AI compliance triage for hospitality operators",
	Long: "ciag runs a deterministic, fail-closed triage pipeline over file artifacts:\n" +
		"evidence seeding, intake application, risk-register derivation, policy\n" +
		"application, recommendation and runbook generation, and run manifests.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.root, "root", "", "workspace root (default: current directory)")
	pf.StringVar(&rootFlags.config, "config", "", "workspace layout file (YAML or JSON)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "log format: text or json")

	viper.SetEnvPrefix("CIAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("root", pf.Lookup("root"))
	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log-format", pf.Lookup("log-format"))

	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(salesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(intakeCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(runbookCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(closureCmd)
	rootCmd.AddCommand(goldenCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// setupRun initializes logging and resolves the workspace layout from the
// config file, flags, and CIAG_* environment variables.
func setupRun(cmd *cobra.Command, _ []string) error {
	logging.Init(
		logging.ParseLevel(viper.GetString("log-level")),
		viper.GetString("log-format"),
		cmd.ErrOrStderr(),
	)

	if cfg := viper.GetString("config"); cfg != "" {
		l, err := workspace.LoadFromPath(cfg)
		if err != nil {
			return fmt.Errorf("load workspace layout: %w", err)
		}
		ws = l
		return nil
	}
	root := viper.GetString("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	ws = workspace.Default(root)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
