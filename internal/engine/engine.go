// Package engine evaluates a set of checks over one hierarchy snapshot.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/checks"
	"a11ycheck/internal/hierarchy"
)

// Suppressions maps a check kind name to the result IDs to mute for that
// check. An empty ID list mutes every result the check produces.
type Suppressions map[string][]int32

func (s Suppressions) matches(r checkresult.Result) bool {
	ids, ok := s[r.CheckKind().Name()]
	if !ok {
		return false
	}
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == r.ResultID() {
			return true
		}
	}
	return false
}

// Options configures a Runner.
type Options struct {
	// Concurrency bounds how many checks evaluate at once. Must be >= 1.
	Concurrency int

	// Parameters is shared read-only tuning passed to every check.
	Parameters *checks.Parameters

	// Suppress reclassifies matching findings to SUPPRESSED instead of
	// dropping them, so reports still show what was muted.
	Suppress Suppressions
}

type Runner struct {
	opts Options
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", opts.Concurrency)
	}
	return &Runner{opts: opts}, nil
}

// Run evaluates the given checks over the snapshot, from fromRoot when it
// is non-nil. Checks run concurrently up to the configured limit; results
// are reassembled in check order, and each check's results keep their
// element order, so output is deterministic regardless of interleaving.
func (r *Runner) Run(ctx context.Context, h *hierarchy.Hierarchy, cks []checks.Check, fromRoot *hierarchy.Element) ([]checkresult.Result, error) {
	if h == nil {
		return nil, fmt.Errorf("hierarchy is nil")
	}

	perCheck := make([][]checkresult.Result, len(cks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, c := range cks {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perCheck[i] = c.Evaluate(h, fromRoot, r.opts.Parameters)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []checkresult.Result
	for _, results := range perCheck {
		for _, res := range results {
			if r.opts.Suppress.matches(res) && isFinding(res) {
				res = res.WithClassification(checkresult.ClassificationSuppressed)
			}
			out = append(out, res)
		}
	}
	return out, nil
}

// isFinding reports whether a result carries a defect worth muting; NOT_RUN
// records are kept as-is since they already state the check did not apply.
func isFinding(r checkresult.Result) bool {
	switch r.Classification() {
	case checkresult.ClassificationError, checkresult.ClassificationWarning, checkresult.ClassificationInfo:
		return true
	default:
		return false
	}
}

// Summary counts results by classification.
type Summary struct {
	Errors     int
	Warnings   int
	Infos      int
	NotRun     int
	Suppressed int
}

func Summarize(results []checkresult.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Classification() {
		case checkresult.ClassificationError:
			s.Errors++
		case checkresult.ClassificationWarning:
			s.Warnings++
		case checkresult.ClassificationInfo:
			s.Infos++
		case checkresult.ClassificationNotRun:
			s.NotRun++
		case checkresult.ClassificationSuppressed:
			s.Suppressed++
		}
	}
	return s
}

// ExitCode maps a finished run to the scan command's exit code contract:
// 0 = clean run, 1 = errors found, 2 = warnings only. Exit code 3 (fatal,
// scan did not run) is assigned by the caller.
func ExitCode(s Summary) int {
	if s.Errors > 0 {
		return 1
	}
	if s.Warnings > 0 {
		return 2
	}
	return 0
}
