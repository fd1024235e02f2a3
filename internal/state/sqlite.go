package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/datecol/pkg/datecol"
	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/dialect"
	"github.com/leapstack-labs/datecol/pkg/schema"

	// sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on modernc.org/sqlite. Timestamps are stored
// through datecol DATETIME columns in UTC and returned in the store's location.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	loc    *time.Location
	runs   *schema.Table
	checks *schema.Table
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store that reports timestamps in loc.
// A nil loc means time.Local.
func NewSQLiteStore(loc *time.Location) *SQLiteStore {
	if loc == nil {
		loc = time.Local
	}
	return &SQLiteStore{
		loc:    loc,
		runs:   runsTable(),
		checks: checksTable(),
	}
}

func runsTable() *schema.Table {
	t := schema.NewTable("runs")
	t.Text("id").PrimaryKey()
	t.Text("target")
	t.Text("dialect")
	utcDateTime(t, "started_at")
	utcDateTime(t, "finished_at")
	t.Integer("passed")
	t.Integer("failed")
	t.Text("error").Nullable()
	return t
}

func checksTable() *schema.Table {
	t := schema.NewTable("run_checks")
	t.Text("id").PrimaryKey()
	t.Text("run_id")
	t.Text("sample")
	t.Text("kind")
	t.Text("path")
	t.Text("want")
	t.Text("got")
	t.Integer("matched")
	t.Text("error").Nullable()
	return t
}

func utcDateTime(t *schema.Table, name string) {
	col := datecol.DateTime(t, name)
	col.Type.(*datecol.ColumnType).Location = time.UTC
}

// Open opens the database at path, creating parent directories as needed.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// RecordRun stores run and its checks in one transaction. Empty ids are
// filled with new UUIDs.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	if s.db == nil {
		return errNotOpened
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insert(ctx, tx, s.runs, schema.Row{
		"id":          run.ID,
		"target":      run.Target,
		"dialect":     run.Dialect,
		"started_at":  run.StartedAt,
		"finished_at": run.FinishedAt,
		"passed":      run.Passed,
		"failed":      run.Failed,
		"error":       nullableString(run.Error),
	}); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for i := range run.Checks {
		c := &run.Checks[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.RunID = run.ID
		if err := s.insert(ctx, tx, s.checks, schema.Row{
			"id":      c.ID,
			"run_id":  c.RunID,
			"sample":  c.Sample,
			"kind":    c.Kind,
			"path":    c.Path,
			"want":    c.Want,
			"got":     c.Got,
			"matched": c.Matched,
			"error":   nullableString(c.Error),
		}); err != nil {
			return fmt.Errorf("failed to record check %s: %w", c.Sample, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) insert(ctx context.Context, tx *sql.Tx, t *schema.Table, row schema.Row) error {
	args, err := t.InsertArgs(row)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, t.InsertSQL(dialect.SQLite), args...)
	return err
}

// ListRuns returns the most recent runs first, without their checks.
// An empty target lists every target; a limit of zero or less lists all runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, target string, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	d := dialect.SQLite
	var args []any
	where := ""
	if target != "" {
		where = "target"
		args = append(args, target)
	}
	q := s.runs.SelectSQL(d, where) + ` ORDER BY "started_at" DESC, "id"`
	if limit > 0 {
		args = append(args, limit)
		q += " LIMIT " + d.FormatPlaceholder(len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		row, err := s.runs.ScanRow(d, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run, err := s.runFromRow(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a run with its checks in recording order.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	d := dialect.SQLite
	row, err := s.runs.ScanRow(d, s.db.QueryRowContext(ctx, s.runs.SelectSQL(d, "id"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run, err := s.runFromRow(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.checks.SelectSQL(d, "run_id")+" ORDER BY rowid", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		row, err := s.checks.ScanRow(d, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		run.Checks = append(run.Checks, Check{
			ID:      str(row["id"]),
			RunID:   str(row["run_id"]),
			Sample:  str(row["sample"]),
			Kind:    str(row["kind"]),
			Path:    str(row["path"]),
			Want:    str(row["want"]),
			Got:     str(row["got"]),
			Matched: num(row["matched"]) != 0,
			Error:   str(row["error"]),
		})
	}
	return run, rows.Err()
}

func (s *SQLiteStore) runFromRow(row schema.Row) (*Run, error) {
	id := str(row["id"])
	started, err := s.stamp(row, "started_at")
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	finished, err := s.stamp(row, "finished_at")
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &Run{
		ID:         id,
		Target:     str(row["target"]),
		Dialect:    str(row["dialect"]),
		StartedAt:  started,
		FinishedAt: finished,
		Passed:     int(num(row["passed"])),
		Failed:     int(num(row["failed"])),
		Error:      str(row["error"]),
	}, nil
}

func (s *SQLiteStore) stamp(row schema.Row, col string) (datetime.DateTime, error) {
	d, ok := row[col].(datetime.DateTime)
	if !ok {
		return datetime.DateTime{}, fmt.Errorf("column %s: expected a timestamp, got %T", col, row[col])
	}
	return d.In(s.loc), nil
}

var errNotOpened = errors.New("database not opened")

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int64 {
	n, _ := v.(int64)
	return n
}
