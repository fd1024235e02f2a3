// Package state keeps the history of probe runs in a local SQLite database.
package state

import (
	"context"
	"errors"

	"github.com/leapstack-labs/datecol/pkg/datetime"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded probe of one target.
type Run struct {
	ID         string
	Target     string
	Dialect    string
	StartedAt  datetime.DateTime
	FinishedAt datetime.DateTime
	Passed     int
	Failed     int
	// Error is set when the target could not be probed at all.
	Error  string
	Checks []Check
}

// Check is the outcome of writing one sample through one path and reading it back.
type Check struct {
	ID      string
	RunID   string
	Sample  string
	Kind    string
	Path    string
	Want    string
	Got     string
	Matched bool
	Error   string
}

// Store persists probe runs.
type Store interface {
	Close() error
	Migrate() error
	RecordRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, target string, limit int) ([]*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
}
