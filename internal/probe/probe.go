// Package probe round-trips sample date values through a live database and
// reports whether each one comes back as written.
//
// Every sample is written twice: once bound as a query parameter and once
// rendered into the INSERT text as a literal. Both rows are read back through
// the column codec and compared with what the codec promises: a DATE keeps its
// calendar date and a DATETIME keeps its instant at millisecond precision.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/datecol"
	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/schema"
)

// Paths a sample is written through.
const (
	PathBound   = "bound"
	PathLiteral = "literal"
)

// Sample is one named value to round-trip.
type Sample struct {
	Name  string
	Value datetime.DateTime
}

// DefaultSamples returns the builtin sample set in loc. It includes dates at
// year boundaries that fall in an ISO week of the neighbouring year.
func DefaultSamples(loc *time.Location) []Sample {
	return []Sample{
		{"midday", datetime.Of(2024, time.March, 15, 10, 30, 0, 123456000, loc)},
		{"midnight", datetime.Of(2024, time.June, 1, 0, 0, 0, 0, loc)},
		{"leap-day", datetime.Of(2024, time.February, 29, 23, 59, 59, 999000000, loc)},
		{"year-end", datetime.Of(2024, time.December, 30, 12, 0, 0, 0, loc)},
		{"new-year", datetime.Of(2021, time.January, 1, 8, 15, 0, 0, loc)},
		{"pre-epoch", datetime.Of(1969, time.July, 20, 20, 17, 40, 0, loc)},
	}
}

// Check is the outcome for one sample, column kind and write path.
type Check struct {
	Sample  string       `json:"sample" yaml:"sample"`
	Kind    datecol.Kind `json:"kind" yaml:"kind"`
	Path    string       `json:"path" yaml:"path"`
	Want    string       `json:"want" yaml:"want"`
	Got     string       `json:"got" yaml:"got"`
	Matched bool         `json:"matched" yaml:"matched"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
	// Raw is the value the driver returned.
	Raw any `json:"-" yaml:"-"`
}

// Result is the report for one target.
type Result struct {
	ID         string            `json:"id" yaml:"id"`
	Target     string            `json:"target" yaml:"target"`
	Dialect    string            `json:"dialect" yaml:"dialect"`
	StartedAt  datetime.DateTime `json:"started_at" yaml:"started_at"`
	FinishedAt datetime.DateTime `json:"finished_at" yaml:"finished_at"`
	Checks     []Check           `json:"checks" yaml:"checks"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Passed returns the number of matching checks.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Matched {
			n++
		}
	}
	return n
}

// Failed returns the number of checks that did not match.
func (r *Result) Failed() int {
	return len(r.Checks) - r.Passed()
}

// OK reports whether the target was reached and every check matched.
func (r *Result) OK() bool {
	return r.Error == "" && r.Failed() == 0
}

// Options configure a probe.
type Options struct {
	// Location is the zone samples are rendered and compared in.
	// A nil Location means time.Local.
	Location *time.Location
	// Samples default to DefaultSamples(Location).
	Samples []Sample
	// Keep leaves the probe table in place after the run.
	Keep   bool
	Logger *slog.Logger
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) samples() []Sample {
	if len(o.Samples) > 0 {
		return o.Samples
	}
	return DefaultSamples(o.location())
}

// Run probes one connected adapter. Failures of individual checks are
// recorded in the result; an error is returned only when the probe table
// cannot be created or queried.
func Run(ctx context.Context, target string, a adapter.Adapter, opts Options) (*Result, error) {
	logger := adapter.DiscardIfNil(opts.Logger).With("target", target)
	loc := opts.location()
	d := a.Dialect()

	res := &Result{
		ID:        uuid.NewString(),
		Target:    target,
		Dialect:   d.Name,
		StartedAt: datetime.Now(loc),
	}
	defer func() { res.FinishedAt = datetime.Now(loc) }()

	tbl := probeTable("datecol_probe_"+res.ID[:8], loc)
	if err := a.Exec(ctx, tbl.CreateTableSQL(d)); err != nil {
		return res, fmt.Errorf("failed to create probe table: %w", err)
	}
	if !opts.Keep {
		defer func() {
			if err := a.Exec(context.WithoutCancel(ctx), "DROP TABLE IF EXISTS "+d.QuoteIdentifier(tbl.Name)); err != nil {
				logger.Warn("failed to drop probe table", "table", tbl.Name, "error", err)
			}
		}()
	}
	logger.Debug("created probe table", "table", tbl.Name, "dialect", d.Name)

	for _, s := range opts.samples() {
		for _, path := range []string{PathBound, PathLiteral} {
			checks, err := roundTrip(ctx, a, tbl, s, path, loc)
			if err != nil {
				return res, err
			}
			res.Checks = append(res.Checks, checks...)
		}
	}

	logger.Info("probe finished", "passed", res.Passed(), "failed", res.Failed())
	return res, nil
}

func probeTable(name string, loc *time.Location) *schema.Table {
	t := schema.NewTable(name)
	t.Text("id").PrimaryKey()
	t.Text("sample")
	t.Text("path")
	for _, col := range []*schema.Column{datecol.Date(t, "day"), datecol.DateTime(t, "at")} {
		col.Nullable().Type.(*datecol.ColumnType).Location = loc
	}
	return t
}

// roundTrip writes s through path and returns one check per date column.
func roundTrip(ctx context.Context, a adapter.Adapter, tbl *schema.Table, s Sample, path string, loc *time.Location) ([]Check, error) {
	d := a.Dialect()
	id := uuid.NewString()
	row := schema.Row{"id": id, "sample": s.Name, "path": path, "day": s.Value, "at": s.Value}

	checks := []Check{
		{Sample: s.Name, Kind: datecol.KindDate, Path: path, Want: expected(s.Value, datecol.KindDate, loc)},
		{Sample: s.Name, Kind: datecol.KindDateTime, Path: path, Want: expected(s.Value, datecol.KindDateTime, loc)},
	}
	fail := func(err error) []Check {
		for i := range checks {
			checks[i].Error = err.Error()
		}
		return checks
	}

	var err error
	switch path {
	case PathBound:
		var args []any
		if args, err = tbl.InsertArgs(row); err == nil {
			err = a.Exec(ctx, tbl.InsertSQL(d), args...)
		}
	default:
		var q string
		if q, err = tbl.InsertLiteralSQL(d, row); err == nil {
			err = a.Exec(ctx, q)
		}
	}
	if err != nil {
		return fail(fmt.Errorf("write: %w", err)), nil
	}

	raw, err := readBack(ctx, a, tbl, id)
	if err != nil {
		return nil, err
	}

	for i, col := range []string{"day", "at"} {
		c := &checks[i]
		c.Raw = raw[i]
		ct := mustColumnType(tbl, col)
		v, err := ct.ValueFromDB(d, raw[i])
		if err != nil {
			c.Error = err.Error()
			c.Got = fmt.Sprint(raw[i])
			continue
		}
		switch x := v.(type) {
		case datetime.DateTime:
			c.Got = render(x, ct.Kind, loc)
			c.Matched = c.Got == c.Want
		default:
			// Text the codec leaves to the caller.
			c.Got = fmt.Sprint(x)
			c.Error = "value returned undecoded"
		}
	}
	return checks, nil
}

// readBack selects the raw driver values of the date columns of one row.
func readBack(ctx context.Context, a adapter.Adapter, tbl *schema.Table, id string) ([]any, error) {
	d := a.Dialect()
	q := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = %s",
		d.QuoteIdentifier("day"), d.QuoteIdentifier("at"),
		d.QuoteIdentifier(tbl.Name), d.QuoteIdentifier("id"), d.FormatPlaceholder(1))

	rows, err := a.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read probe row: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("probe row %s not found", id)
	}
	raw := make([]any, 2)
	if err := rows.Scan(&raw[0], &raw[1]); err != nil {
		return nil, fmt.Errorf("failed to scan probe row: %w", err)
	}
	return raw, rows.Err()
}

func mustColumnType(tbl *schema.Table, name string) *datecol.ColumnType {
	col, ok := tbl.Column(name)
	if !ok {
		panic("probe: missing column " + name)
	}
	return col.Type.(*datecol.ColumnType)
}

// expected renders what a sample should read back as.
func expected(v datetime.DateTime, kind datecol.Kind, loc *time.Location) string {
	return render(v.TruncateMillis(), kind, loc)
}

func render(v datetime.DateTime, kind datecol.Kind, loc *time.Location) string {
	t := v.In(loc).Time()
	if kind == datecol.KindDate {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02 15:04:05.000")
}
