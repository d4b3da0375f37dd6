package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/checks"
	"a11ycheck/internal/config"
	"a11ycheck/internal/engine"
	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/output"
)

var cfg = config.New()

// Flag names that also have config-file counterparts. Keep these in sync
// with mergeFileConfig, which uses Changed() to decide flag-vs-file
// precedence.
const (
	flagConfig        = "config"
	flagChecks        = "checks"
	flagLocale        = "locale"
	flagConcurrency   = "concurrency"
	flagSuppress      = "suppress"
	flagConsoleFormat = "console-format"
	flagConsoleFilter = "console-filter"
	flagOut           = "out"
	flagOutFormat     = "out-format"
	flagBinOut        = "bin-out"
	flagNoConsole     = "no-console"
)

var (
	scanConfigFile string
	scanSuppress   []string
)

var scanCmd = &cobra.Command{
	Use:   "scan <snapshot.json>",
	Short: "Evaluate accessibility checks against a snapshot",
	Long: `Evaluate accessibility checks against a captured UI hierarchy snapshot.

The snapshot is a JSON file describing the element tree of one screen, as
written by a capture tool. Elements are evaluated in depth-first preorder,
and results keep that order regardless of how many checks run concurrently.

Configuration:
	A YAML config file (--config) can set every scan option, including check
	parameters and suppressions. Flags given on the command line win over
	file values.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --bin-out: write results as binary wire messages, renderable later with "report"
	- --no-console: suppress the console sink (use with --out/--bin-out)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, check.result, run.finished).

Exit codes:
	0 = clean run, no findings
	1 = errors found
	2 = warnings found, no errors
	3 = fatal error (scan did not run)

Examples:
	# Scan with every registered check
	a11ycheck scan snapshot.json

	# Only the class-name check, findings only on console
	a11ycheck scan snapshot.json --checks class-name --console-filter ERROR,WARNING

	# Machine output for tooling
	a11ycheck scan snapshot.json --no-console --out results.ndjson

	# Keep the raw results for later rendering in another locale
	a11ycheck scan snapshot.json --bin-out results.bin
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if scanConfigFile != "" {
			if err := mergeFileConfig(cmd, cfg, scanConfigFile); err != nil {
				fatal(err)
			}
		}
		if cmd.Flags().Changed(flagSuppress) {
			s, err := parseSuppress(scanSuppress)
			if err != nil {
				fatal(err)
			}
			cfg.Suppress = s
		}
		if err := cfg.Validate(); err != nil {
			fatal(err)
		}

		h, err := hierarchy.ReadSnapshotFile(args[0])
		if err != nil {
			fatal(err)
		}
		cks, err := checks.Resolve(cfg.Checks)
		if err != nil {
			fatal(err)
		}
		if len(cks) == 0 {
			fatal(fmt.Errorf("no checks selected"))
		}

		mgr, err := buildSinks(cfg)
		if err != nil {
			fatal(err)
		}

		runner, err := engine.NewRunner(engine.Options{
			Concurrency: cfg.Concurrency,
			Parameters:  cfg.Parameters,
			Suppress:    cfg.Suppress,
		})
		if err != nil {
			fatal(err)
		}
		results, err := runner.Run(context.Background(), h, cks, nil)
		if err != nil {
			fatal(err)
		}

		cat := catalog.Builtin()
		if err := mgr.Write(output.Event{Type: "run.started", Checks: len(cks), Elements: h.Len()}); err != nil {
			fatal(err)
		}
		for _, res := range results {
			msg, err := renderMessage(cat, cfg.Locale, res)
			if err != nil {
				fatal(err)
			}
			if err := mgr.Write(output.NewRecord(res, msg)); err != nil {
				fatal(err)
			}
		}
		summary := engine.Summarize(results)
		code := engine.ExitCode(summary)
		err = mgr.Write(output.Event{
			Type:       "run.finished",
			Errors:     summary.Errors,
			Warnings:   summary.Warnings,
			Suppressed: summary.Suppressed,
			ExitCode:   code,
		})
		if err != nil {
			fatal(err)
		}
		if err := mgr.Close(); err != nil {
			fatal(err)
		}
		os.Exit(code)
	},
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(3)
}

// mergeFileConfig loads a YAML config file underneath the flags: file
// values apply only where the corresponding flag was not given.
func mergeFileConfig(cmd *cobra.Command, cfg *config.Config, path string) error {
	fileCfg := config.New()
	if err := config.LoadFile(fileCfg, path); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed(flagChecks) {
		cfg.Checks = fileCfg.Checks
	}
	if !changed(flagLocale) {
		cfg.Locale = fileCfg.Locale
	}
	if !changed(flagConcurrency) {
		cfg.Concurrency = fileCfg.Concurrency
	}
	if !changed(flagConsoleFormat) {
		cfg.Output.ConsoleFormat = fileCfg.Output.ConsoleFormat
	}
	if !changed(flagConsoleFilter) {
		cfg.Output.ConsoleFilter = fileCfg.Output.ConsoleFilter
	}
	if !changed(flagOut) {
		cfg.Output.Out = fileCfg.Output.Out
	}
	if !changed(flagOutFormat) {
		cfg.Output.OutFormat = fileCfg.Output.OutFormat
	}
	if !changed(flagBinOut) {
		cfg.Output.BinOut = fileCfg.Output.BinOut
	}
	if !changed(flagNoConsole) {
		cfg.Output.NoConsole = fileCfg.Output.NoConsole
	}

	// Parameters and suppressions have no full flag counterpart; the file
	// is their primary source. --suppress, when given, replaces the file's
	// suppressions afterwards.
	cfg.Parameters = fileCfg.Parameters
	cfg.Suppress = fileCfg.Suppress
	return nil
}

// parseSuppress turns --suppress entries into engine suppressions. An entry
// is either a check kind name (mute the whole check) or kind:id (mute one
// result ID).
func parseSuppress(entries []string) (engine.Suppressions, error) {
	s := make(engine.Suppressions)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		kind, idPart, hasID := strings.Cut(entry, ":")
		if !hasID {
			s[kind] = nil
			continue
		}
		id, err := strconv.ParseInt(idPart, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid suppress entry %q: result id must be an integer", entry)
		}
		// A whole-check suppression already covers every ID.
		if ids, ok := s[kind]; !ok || ids != nil {
			s[kind] = append(s[kind], int32(id))
		}
	}
	return s, nil
}

func buildSinks(cfg *config.Config) (*output.Manager, error) {
	mgr := output.NewManager()
	if !cfg.Output.NoConsole {
		if err := mgr.AddSink(output.NewConsoleSink(os.Stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilter)); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(fs); err != nil {
			return nil, err
		}
	}
	if cfg.Output.BinOut != "" {
		bs, err := output.NewBinarySink(cfg.Output.BinOut)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(bs); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

func renderMessage(cat catalog.Catalog, locale string, r checkresult.Result) (string, error) {
	c, ok := checks.ByKind(r.CheckKind())
	if !ok {
		return "", fmt.Errorf("no check registered for kind %s", r.CheckKind().Name())
	}
	return c.MessageForResult(cat, locale, r.ResultID(), r.Metadata())
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanConfigFile, flagConfig, "", "YAML config file; flags override file values")
	scanCmd.Flags().StringVar(&cfg.Checks, flagChecks, "", "Check selector as comma-separated kind names (empty = all checks)")
	scanCmd.Flags().StringVar(&cfg.Locale, flagLocale, cfg.Locale, "Locale for rendered messages (default: en)")
	scanCmd.Flags().IntVar(&cfg.Concurrency, flagConcurrency, cfg.Concurrency, "Concurrent check evaluations (default: 4)")
	scanCmd.Flags().StringSliceVar(&scanSuppress, flagSuppress, nil, "Suppress findings: a check kind name mutes the whole check, kind:id mutes one result ID (repeatable; comma-separated accepted)")

	scanCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson (default: text)")
	scanCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilter, flagConsoleFilter, nil, "Filter console output by classification (ERROR, WARNING, INFO, NOT_RUN, SUPPRESSED). Comma-separated.")
	scanCmd.Flags().StringVar(&cfg.Output.Out, flagOut, "", "Write structured output to this path")
	scanCmd.Flags().StringVar(&cfg.Output.OutFormat, flagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	scanCmd.Flags().StringVar(&cfg.Output.BinOut, flagBinOut, "", "Write results to this path as binary wire messages (render later with \"report\")")
	scanCmd.Flags().BoolVar(&cfg.Output.NoConsole, flagNoConsole, false, "Suppress console output (use with --out/--bin-out)")
}
