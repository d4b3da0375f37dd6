package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "a11ycheck",
	Short: "Evaluate accessibility checks against captured UI hierarchy snapshots",
	Long: `a11ycheck evaluates a set of accessibility checks against a captured UI
hierarchy snapshot and reports findings per element.

a11ycheck is offline: it reads a snapshot file, never a live UI, and never
mutates anything.

Examples:
	# Show available commands and global flags
	a11ycheck --help

	# Scan a snapshot
	a11ycheck scan snapshot.json

	# List checks
	a11ycheck checks list

	# Render a previously written binary result file
	a11ycheck report results.bin

	# Print build info
	a11ycheck version

Output:
	By default, commands write human-readable output to stdout.
	The scan command supports structured output via output flags (see
	"a11ycheck scan --help").`,
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
