package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/internal/probe"
	"github.com/leapstack-labs/datecol/internal/state"
	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// ErrProbeFailed is returned when a target was unreachable or a check did not match.
var ErrProbeFailed = errors.New("probe failed")

// ErrNoTargets is returned when no targets are configured.
var ErrNoTargets = errors.New("no targets configured (add targets to datecol.yaml)")

// ProbeOptions holds options for the probe command.
type ProbeOptions struct {
	Format      string
	Concurrency int
	Keep        bool
	NoRecord    bool
	Mode        string
}

// NewProbeCommand creates the probe command.
func NewProbeCommand() *cobra.Command {
	opts := &ProbeOptions{}

	cmd := &cobra.Command{
		Use:   "probe [target...]",
		Short: "Round-trip sample dates through configured databases",
		Long: `Write sample DATE and DATETIME values to each target, once bound as query
parameters and once as SQL literals, read them back and report what changed.

Without arguments every configured target is probed. --mode limits the run to
targets whose driver returns dates natively (standard) or as text
(sqlite-like). Results are recorded in the state database unless --no-record
is set.`,
		Example: `  datecol probe
  datecol probe local warehouse --format yaml
  datecol probe --mode sqlite-like
  datecol probe --concurrency 1 --keep`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, yaml (default from --output)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Targets probed at once (0 for all)")
	cmd.Flags().BoolVar(&opts.Keep, "keep", false, "Keep the probe tables")
	cmd.Flags().BoolVar(&opts.NoRecord, "no-record", false, "Do not record results in the state database")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "Only probe targets of this mode: standard, sqlite-like")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{dialect.Standard.String(), dialect.SQLiteLike.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.ValidArgsFunction = func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return targetNames(config.FromContext(cmd.Context())), cobra.ShellCompDirectiveNoFileComp
	}

	return cmd
}

func runProbe(cmd *cobra.Command, args []string, opts *ProbeOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	targets, err := selectTargets(cfg, args)
	if err != nil {
		return err
	}
	if opts.Mode != "" {
		mode, err := dialect.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		if targets = filterByMode(targets, mode); len(targets) == 0 {
			return fmt.Errorf("no %s targets among: %s", mode, strings.Join(targetNames(cfg), ", "))
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	results, err := probe.RunAll(ctx, targets, opts.Concurrency, probe.Options{
		Location: loc,
		Keep:     opts.Keep,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if !opts.NoRecord {
		if err := recordResults(ctx, cfg.StatePath, loc, results); err != nil {
			return err
		}
		logger.Debug("recorded probe results", "state", cfg.StatePath, "runs", len(results))
	}

	format := opts.Format
	if format == "" {
		format = cfg.Output
	}
	if err := render(cmd.OutOrStdout(), format, probeTable(results)); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d targets", ErrProbeFailed, failed, len(results))
	}
	return nil
}

// selectTargets returns the named targets, or every target when names is
// empty, sorted by name.
func selectTargets(cfg *config.Config, names []string) ([]probe.Target, error) {
	if len(cfg.Targets) == 0 {
		return nil, ErrNoTargets
	}
	if len(names) == 0 {
		names = targetNames(cfg)
	}

	seen := map[string]bool{}
	var targets []probe.Target
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		t, ok := cfg.Targets[name]
		if !ok {
			return nil, fmt.Errorf("unknown target %q (configured: %s)", name, strings.Join(targetNames(cfg), ", "))
		}
		targets = append(targets, probe.Target{Name: name, Config: t.AdapterConfig()})
	}
	slices.SortFunc(targets, func(a, b probe.Target) int { return strings.Compare(a.Name, b.Name) })
	return targets, nil
}

// filterByMode keeps the targets whose backend follows mode. Targets of an
// unregistered type are dropped.
func filterByMode(targets []probe.Target, mode dialect.Mode) []probe.Target {
	var out []probe.Target
	for _, t := range targets {
		if b, ok := adapter.Lookup(t.Config.Type); ok && b.Mode() == mode {
			out = append(out, t)
		}
	}
	return out
}

// targetMode names the mode of a target's backend, or "unknown".
func targetMode(typ string) string {
	if b, ok := adapter.Lookup(typ); ok {
		return b.Mode().String()
	}
	return "unknown"
}

func targetNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func recordResults(ctx context.Context, path string, loc *time.Location, results []*probe.Result) error {
	store := state.NewSQLiteStore(loc)
	if err := store.Open(path); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(); err != nil {
		return err
	}
	for _, r := range results {
		if err := store.RecordRun(ctx, toStateRun(r)); err != nil {
			return fmt.Errorf("failed to record run for %s: %w", r.Target, err)
		}
	}
	return nil
}

func toStateRun(r *probe.Result) *state.Run {
	run := &state.Run{
		ID:         r.ID,
		Target:     r.Target,
		Dialect:    r.Dialect,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Passed:     r.Passed(),
		Failed:     r.Failed(),
		Error:      r.Error,
	}
	for _, c := range r.Checks {
		run.Checks = append(run.Checks, state.Check{
			Sample:  c.Sample,
			Kind:    c.Kind.String(),
			Path:    c.Path,
			Want:    c.Want,
			Got:     c.Got,
			Matched: c.Matched,
			Error:   c.Error,
		})
	}
	return run
}

func probeTable(results []*probe.Result) tabular {
	out := tabular{
		header: []string{"TARGET", "MODE", "SAMPLE", "KIND", "PATH", "WANT", "GOT", "OK", "ERROR"},
		doc:    results,
	}
	var summary []string
	for _, r := range results {
		mode := targetMode(r.Dialect)
		if r.Error != "" {
			out.rows = append(out.rows, []string{r.Target, mode, "-", "-", "-", "-", "-", yesNo(false), r.Error})
			summary = append(summary, fmt.Sprintf("%s: unreachable", r.Target))
			continue
		}
		for _, c := range r.Checks {
			out.rows = append(out.rows, []string{
				r.Target, mode, c.Sample, c.Kind.String(), c.Path, c.Want, c.Got, yesNo(c.Matched), c.Error,
			})
		}
		summary = append(summary, fmt.Sprintf("%s: %d passed, %d failed", r.Target, r.Passed(), r.Failed()))
	}
	out.footer = strings.Join(summary, "\n")
	return out
}

func completeFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{config.OutputTable, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
}
