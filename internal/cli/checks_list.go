package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checks"
)

var (
	checksListQuiet bool
	checksLocale    string
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Manage and list checks",
	Long: `Manage accessibility checks.

This command group helps you discover which checks exist and what each check
evaluates. Checks run during scans (see "a11ycheck scan --help").

Examples:
  # List all available checks
  a11ycheck checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checks",
	Long: `List all checks currently registered in this build.

Checks are sorted by kind name.

Examples:
  a11ycheck checks list

Output:
  A vertical list of checks:
    ----------------------------------------
    CHECK: {KIND}
    ----------------------------------------
    {TITLE}
    Category: {CATEGORY}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range checks.List() {
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), c.Kind().Name())
			} else if err := printCheck(cmd.OutOrStdout(), c); err != nil {
				return err
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [kind]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its kind name.

Examples:
  a11ycheck checks show class-name
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cks, err := checks.Resolve(args[0])
		if err != nil {
			return err
		}
		if len(cks) == 0 {
			return fmt.Errorf("check not found: %s", args[0])
		}
		return printCheck(cmd.OutOrStdout(), cks[0])
	},
}

func printCheck(w io.Writer, c checks.Check) error {
	title, err := c.Title(catalog.Builtin(), checksLocale)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", c.Kind().Name())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Category: %s\n", c.Category())
	fmt.Fprintln(w)
	return nil
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.PersistentFlags().StringVar(&checksLocale, "locale", "en", "Locale for check titles (default: en)")
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check kind names")
	checksCmd.AddCommand(checksShowCmd)
}
