package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Format string
	Target string
	Limit  int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded probe runs",
		Long: `List probe runs recorded in the state database, most recent first.
With a run id, show the checks of that run.`,
		Example: `  datecol history
  datecol history --target local --limit 5
  datecol history 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, yaml (default from --output)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "Only runs of this target")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum runs listed (0 for all)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store := state.NewSQLiteStore(loc)
	if err := store.Open(cfg.StatePath); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(); err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = cfg.Output
	}

	if len(args) == 1 {
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), format, runTable(run))
	}

	runs, err := store.ListRuns(ctx, opts.Target, opts.Limit)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), format, runsTable(runs))
}

const stampLayout = time.DateTime + " MST"

func runsTable(runs []*state.Run) tabular {
	out := tabular{
		header: []string{"ID", "TARGET", "DIALECT", "STARTED", "TOOK", "PASSED", "FAILED", "ERROR"},
		doc:    historyDocs(runs),
	}
	for _, r := range runs {
		out.rows = append(out.rows, []string{
			r.ID,
			r.Target,
			r.Dialect,
			r.StartedAt.Time().Format(stampLayout),
			r.FinishedAt.Time().Sub(r.StartedAt.Time()).Round(time.Millisecond).String(),
			strconv.Itoa(r.Passed),
			strconv.Itoa(r.Failed),
			r.Error,
		})
	}
	out.footer = fmt.Sprintf("(%d runs)", len(runs))
	return out
}

func runTable(run *state.Run) tabular {
	out := tabular{
		header: []string{"SAMPLE", "KIND", "PATH", "WANT", "GOT", "OK", "ERROR"},
		doc:    newHistoryDoc(run),
	}
	for _, c := range run.Checks {
		out.rows = append(out.rows, []string{c.Sample, c.Kind, c.Path, c.Want, c.Got, yesNo(c.Matched), c.Error})
	}
	out.footer = fmt.Sprintf("%s %s at %s: %d passed, %d failed",
		run.Target, run.ID, run.StartedAt.Time().Format(stampLayout), run.Passed, run.Failed)
	if run.Error != "" {
		out.footer += "\nerror: " + run.Error
	}
	return out
}

// historyDoc is the json and yaml shape of a recorded run.
type historyDoc struct {
	ID         string         `json:"id" yaml:"id"`
	Target     string         `json:"target" yaml:"target"`
	Dialect    string         `json:"dialect" yaml:"dialect"`
	StartedAt  string         `json:"started_at" yaml:"started_at"`
	FinishedAt string         `json:"finished_at" yaml:"finished_at"`
	Passed     int            `json:"passed" yaml:"passed"`
	Failed     int            `json:"failed" yaml:"failed"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Checks     []historyCheck `json:"checks,omitempty" yaml:"checks,omitempty"`
}

type historyCheck struct {
	Sample  string `json:"sample" yaml:"sample"`
	Kind    string `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Want    string `json:"want" yaml:"want"`
	Got     string `json:"got" yaml:"got"`
	Matched bool   `json:"matched" yaml:"matched"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newHistoryDoc(r *state.Run) historyDoc {
	d := historyDoc{
		ID:         r.ID,
		Target:     r.Target,
		Dialect:    r.Dialect,
		StartedAt:  r.StartedAt.String(),
		FinishedAt: r.FinishedAt.String(),
		Passed:     r.Passed,
		Failed:     r.Failed,
		Error:      r.Error,
	}
	for _, c := range r.Checks {
		d.Checks = append(d.Checks, historyCheck{
			Sample:  c.Sample,
			Kind:    c.Kind,
			Path:    c.Path,
			Want:    c.Want,
			Got:     c.Got,
			Matched: c.Matched,
			Error:   c.Error,
		})
	}
	return d
}

func historyDocs(runs []*state.Run) []historyDoc {
	docs := make([]historyDoc, 0, len(runs))
	for _, r := range runs {
		docs = append(docs, newHistoryDoc(r))
	}
	return docs
}
