package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ciag/internal/logging"
)

var goldenFlags struct {
	tier1  string
	intake string
}

var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Run the full pipeline end to end and assert its contract",
	Long: "Chains scaffold, sales, seed, closure, manifest, and validate, then\n" +
		"asserts the runbook's Locations renders numerically and, inside a git\n" +
		"work tree, that the tree is clean of unexpected changes.",
	Args: cobra.NoArgs,
	RunE: runGolden,
}

func init() {
	f := goldenCmd.Flags()
	f.StringVar(&goldenFlags.tier1, "tier1", "", "tier-1 operator list input path")
	f.StringVar(&goldenFlags.intake, "intake", "", "intake response input path")
}

var locationsLine = regexp.MustCompile(`\*\*Locations:\*\*\s*([^\n\r]+)`)

func runGolden(cmd *cobra.Command, _ []string) error {
	sel, err := loadSelection()
	if err != nil {
		return err
	}
	slug := sel.ResolvedSlug()
	log := logging.Stage("golden", slug)

	manifestFlags.tier1 = goldenFlags.tier1
	manifestFlags.intake = goldenFlags.intake

	var closureArgs []string
	if goldenFlags.intake != "" {
		closureArgs = []string{goldenFlags.intake}
	}
	steps := []struct {
		name string
		run  func(*cobra.Command, []string) error
		args []string
	}{
		{"scaffold", runScaffold, nil},
		{"sales", runSales, nil},
		{"seed", runSeed, nil},
		{"closure", runClosure, closureArgs},
		{"manifest", runManifest, nil},
		{"validate", runValidate, nil},
	}
	for _, s := range steps {
		if err := s.run(cmd, s.args); err != nil {
			return fmt.Errorf("golden step %s: %w", s.name, err)
		}
	}

	n, err := assertRunbookLocations(ws.RunbookPath(slug))
	if err != nil {
		return err
	}

	if dirty, err := gitDirty(ws.Root); err != nil {
		log.Warn("git check skipped", "error", err)
	} else if dirty != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), dirty)
		return fmt.Errorf("work tree dirty after golden path")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Golden path PASS: slug=%s locations=%s\n", slug, n)
	return nil
}

// assertRunbookLocations fails unless the runbook's Locations line carries a
// numeric value.
func assertRunbookLocations(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read runbook: %w", err)
	}
	m := locationsLine.FindSubmatch(data)
	if m == nil {
		return "", fmt.Errorf("Locations line not found in %s", path)
	}
	raw := strings.TrimSpace(string(m[1]))
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", fmt.Errorf("runbook Locations must be numeric, got %q", raw)
	}
	return raw, nil
}

// gitDirty returns `git status --porcelain` for root, or "" when root is not
// inside a git work tree.
func gitDirty(root string) (string, error) {
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		return "", nil
	}
	out, err := exec.Command("git", "-C", root, "status", "--porcelain").Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
