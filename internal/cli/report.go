package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/checks"
	"a11ycheck/internal/kinds"
	"a11ycheck/internal/output"
	"a11ycheck/internal/wire"
)

var (
	reportLocale string
	reportFormat string
	reportShort  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <results.bin>",
	Short: "Render a binary result file written by scan --bin-out",
	Long: `Render a binary result file written by a previous scan.

The file holds length-delimited binary wire messages, one per result. The
report command decodes them against the checks registered in this build and
renders localized messages, so the same results can be re-rendered in a
different locale or with a newer message catalog without re-running the scan.

Results whose check kind is unknown to this build are skipped with a warning
on stderr; the rest of the file is still rendered.

Examples:
	a11ycheck scan snapshot.json --bin-out results.bin
	a11ycheck report results.bin
	a11ycheck report results.bin --locale en --short
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open result file: %w", err)
		}
		defer f.Close()

		sink := output.NewConsoleSink(cmd.OutOrStdout(), reportFormat, nil)
		cat := catalog.Builtin()
		unknown := 0

		reader := bufio.NewReader(f)
		for {
			msg, err := wire.ReadDelimited(reader)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("read result file: %w", err)
			}

			res, err := wire.UnmarshalResult(msg, kinds.Default())
			if err != nil {
				var uk *kinds.UnknownKindError
				if errors.As(err, &uk) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipping result with unknown check kind %q\n", uk.KindName)
					unknown++
					continue
				}
				return fmt.Errorf("decode result: %w", err)
			}

			renderOne, err := renderReportMessage(cat, res)
			if err != nil {
				return err
			}
			if err := sink.Write(renderOne); err != nil {
				return err
			}
		}
		if err := sink.Close(); err != nil {
			return err
		}
		if unknown > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d result(s) skipped (unknown check kind)\n", unknown)
		}
		return nil
	},
}

func renderReportMessage(cat catalog.Catalog, res checkresult.Result) (output.Record, error) {
	c, ok := checks.ByKind(res.CheckKind())
	if !ok {
		return output.Record{}, fmt.Errorf("no check registered for kind %s", res.CheckKind().Name())
	}
	render := c.MessageForResult
	if reportShort {
		render = c.ShortMessageForResult
	}
	msg, err := render(cat, reportLocale, res.ResultID(), res.Metadata())
	if err != nil {
		return output.Record{}, fmt.Errorf("render result: %w", err)
	}
	return output.NewRecord(res, msg), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportLocale, "locale", "en", "Locale for rendered messages (default: en)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: text|json|ndjson (default: text)")
	reportCmd.Flags().BoolVar(&reportShort, "short", false, "Render abbreviated messages")
}
