package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/internal/cli/testutil"
	"github.com/leapstack-labs/datecol/pkg/datecol"

	// sqlite adapter for probe targets.
	_ "github.com/leapstack-labs/datecol/pkg/adapters/sqlite"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Output = config.OutputJSON
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")
	cfg.Targets = map[string]config.TargetConfig{
		"local": {Type: "sqlite", Database: ":memory:"},
	}
	return cfg
}

func run(cfg *config.Config, cmd *cobra.Command, args ...string) testutil.Result {
	return testutil.Execute(config.WithConfig(context.Background(), cfg), cmd, args...)
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRenderCommand(), "render <value>...", []string{"kind", "pattern"}},
		{NewParseCommand(), "parse <text>...", []string{"kind", "pattern"}},
		{NewProbeCommand(), "probe [target...]", []string{"format", "concurrency", "keep", "no-record", "mode"}},
		{NewHistoryCommand(), "history [run-id]", []string{"format", "target", "limit"}},
		{NewREPLCommand(), "repl", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "datetime literal",
			args: []string{"2024-03-15 10:30:00.123456"},
			want: "'2024-03-15 10:30:00.123456'\n",
		},
		{
			name: "date literal",
			args: []string{"--kind", "date", "2024-03-15T22:30:00Z"},
			want: "'2024-03-15'\n",
		},
		{
			name: "epoch millis",
			args: []string{"0"},
			want: "'1970-01-01 00:00:00.000000'\n",
		},
		{
			name: "calendar year at year end",
			args: []string{"2024-12-30"},
			want: "'2024-12-30 00:00:00.000000'\n",
		},
		{
			name: "several values",
			args: []string{"-k", "date", "2024-03-15", "2024-03-16"},
			want: "'2024-03-15'\n'2024-03-16'\n",
		},
		{
			name: "pattern",
			args: []string{"--pattern", "dd.MM.yyyy", "2024-03-15"},
			want: "15.03.2024\n",
		},
		{
			name:    "unreadable value",
			args:    []string{"yesterday"},
			wantErr: "cannot read",
		},
		{
			name:    "bad kind",
			args:    []string{"--kind", "week", "2024-03-15"},
			wantErr: "week",
		},
		{
			name:    "bad pattern",
			args:    []string{"--pattern", "QQ", "2024-03-15"},
			wantErr: "unsupported letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(testConfig(t), NewRenderCommand(), tt.args...)
			if tt.wantErr != "" {
				require.Error(t, res.Err)
				assert.Contains(t, res.Err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Out)
		})
	}
}

func TestRenderParse_LocaleDigits(t *testing.T) {
	cfg := testConfig(t)
	cfg.Locale = "bn"

	res := run(cfg, NewRenderCommand(), "--pattern", "dd.MM.yyyy", "2024-03-15")
	require.NoError(t, res.Err)
	assert.Equal(t, "১৫.০৩.২০২৪\n", res.Out)

	res = run(cfg, NewParseCommand(), "--kind", "date", "--pattern", "dd.MM.yyyy", "১৫.০৩.২০২৪")
	require.NoError(t, res.Err)
	assert.Equal(t, "2024-03-15T00:00:00Z\n", res.Out)

	res = run(cfg, NewRenderCommand(), "--kind", "date", "2024-03-15")
	require.NoError(t, res.Err)
	assert.Equal(t, "'2024-03-15'\n", res.Out, "SQL literals stay ASCII")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "sqlite datetime",
			args: []string{"2024-03-15 10:30:00"},
			want: "2024-03-15T10:30:00Z\n",
		},
		{
			name: "sqlite date",
			args: []string{"--kind", "date", "2024-03-15"},
			want: "2024-03-15T00:00:00Z\n",
		},
		{
			name: "pattern",
			args: []string{"--pattern", "dd.MM.yyyy", "15.03.2024"},
			want: "2024-03-15T00:00:00Z\n",
		},
		{
			name:    "sqlite rejects iso text",
			args:    []string{"2024-03-15T10:30:00Z"},
			wantErr: datecol.ErrUnparsableLiteral,
		},
		{
			name:    "standard dialect leaves text",
			dialect: "duckdb",
			args:    []string{"2024-03-15 10:30:00"},
			wantErr: errUndecoded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.dialect != "" {
				cfg.Dialect = tt.dialect
			}
			res := run(cfg, NewParseCommand(), tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Out)
		})
	}
}

func TestREPL_Handle(t *testing.T) {
	cfg := testConfig(t)
	s, err := newSession(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := &repl{session: s, cfg: cfg, out: out, errOut: errOut}

	steps := []struct {
		line    string
		wantOut string
		wantErr string
	}{
		{line: "", wantOut: ""},
		{line: ".kind", wantOut: "datetime\n"},
		{line: ".kind date", wantOut: ""},
		{line: "render 2024-03-15T10:30:00Z", wantOut: "'2024-03-15'\n"},
		{line: ".dialect", wantOut: "sqlite\n"},
		{line: "parse 2024-03-15", wantOut: "2024-03-15T00:00:00Z\n"},
		{line: ".dialect oracle", wantErr: "unknown dialect"},
		{line: ".dialect POSTGRES", wantOut: ""},
		{line: "parse 2024-03-15", wantErr: "undecoded"},
		{line: ".pattern dd/MM/yyyy", wantOut: ""},
		{line: "render 2024-03-15", wantOut: "15/03/2024\n"},
		{line: ".pattern", wantOut: ""},
		{line: "frobnicate", wantErr: "unknown command"},
	}

	for _, step := range steps {
		out.Reset()
		errOut.Reset()
		assert.False(t, r.handle(step.line), "line %q", step.line)
		assert.Equal(t, step.wantOut, out.String(), "line %q", step.line)
		if step.wantErr == "" {
			assert.Empty(t, errOut.String(), "line %q", step.line)
		} else {
			assert.Contains(t, errOut.String(), step.wantErr, "line %q", step.line)
		}
	}

	out.Reset()
	r.handle(".show")
	assert.Contains(t, out.String(), "kind=date dialect=postgres mode=standard timezone=UTC pattern=(literal)")

	out.Reset()
	r.handle(".help")
	assert.Contains(t, out.String(), ".pattern")

	assert.True(t, r.handle(".quit"))
	assert.True(t, r.handle(" .EXIT "))
}

func TestResolveFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.Equal(t, config.OutputJSON, resolveFormat(config.OutputAuto, buf))
	assert.Equal(t, config.OutputJSON, resolveFormat("", buf))
	assert.Equal(t, config.OutputYAML, resolveFormat(config.OutputYAML, buf))
	assert.Equal(t, config.OutputTable, resolveFormat(config.OutputTable, buf))
}

func TestRenderFormats(t *testing.T) {
	out := tabular{
		header: []string{"NAME", "VALUE"},
		rows:   [][]string{{"a", "1"}, {"b", "2"}},
		doc:    []map[string]string{{"name": "a"}, {"name": "b"}},
		footer: "(2 rows)",
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, config.OutputTable, out))
	testutil.AssertNoANSI(t, buf.String())
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "(2 rows)")

	buf.Reset()
	require.NoError(t, render(&buf, config.OutputJSON, out))
	var fromJSON []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, out.doc, fromJSON)

	buf.Reset()
	require.NoError(t, render(&buf, config.OutputYAML, out))
	var fromYAML []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, out.doc, fromYAML)

	buf.Reset()
	require.NoError(t, render(&buf, config.OutputTable, tabular{header: []string{"X"}}))
	assert.Equal(t, "(0 rows)\n", buf.String())

	assert.ErrorContains(t, render(&buf, "csv", out), "unsupported output format")
}

func TestSelectTargets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Targets["archive"] = config.TargetConfig{Type: "sqlite"}

	targets, err := selectTargets(cfg, nil)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "archive", targets[0].Name)
	assert.Equal(t, "local", targets[1].Name)
	assert.Equal(t, ":memory:", targets[1].Config.Path)

	targets, err = selectTargets(cfg, []string{"local", "local"})
	require.NoError(t, err)
	assert.Len(t, targets, 1)

	_, err = selectTargets(cfg, []string{"missing"})
	assert.ErrorContains(t, err, "archive, local")

	_, err = selectTargets(config.Default(), nil)
	assert.ErrorIs(t, err, ErrNoTargets)
}

type probeDoc struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Error  string `json:"error"`
	Checks []struct {
		Sample  string `json:"sample"`
		Kind    string `json:"kind"`
		Path    string `json:"path"`
		Matched bool   `json:"matched"`
	} `json:"checks"`
}

func TestProbeAndHistory(t *testing.T) {
	cfg := testConfig(t)

	res := run(cfg, NewProbeCommand())
	require.NoError(t, res.Err)

	var probed []probeDoc
	require.NoError(t, json.Unmarshal([]byte(res.Out), &probed))
	require.Len(t, probed, 1)
	assert.Equal(t, "local", probed[0].Target)
	assert.Empty(t, probed[0].Error)

	require.NotEmpty(t, probed[0].Checks)
	for _, c := range probed[0].Checks {
		assert.True(t, c.Matched, "%s %s %s", c.Sample, c.Kind, c.Path)
	}

	hist := run(cfg, NewHistoryCommand())
	require.NoError(t, hist.Err)
	var runs []struct {
		ID     string `json:"id"`
		Target string `json:"target"`
		Passed int    `json:"passed"`
		Failed int    `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(hist.Out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, probed[0].ID, runs[0].ID)
	assert.Equal(t, len(probed[0].Checks), runs[0].Passed)
	assert.Zero(t, runs[0].Failed)

	detail := run(cfg, NewHistoryCommand(), "--format", "table", runs[0].ID)
	require.NoError(t, detail.Err)
	assert.Contains(t, detail.Out, "year-end")
	assert.Contains(t, detail.Out, "0 failed")

	table := run(cfg, NewProbeCommand(), "--no-record", "--format", "table")
	require.NoError(t, table.Err)
	assert.Contains(t, table.Out, "MODE")
	assert.Contains(t, table.Out, "sqlite-like")

	missing := run(cfg, NewHistoryCommand(), "no-such-run")
	assert.Error(t, missing.Err)
}

func TestProbe_NoRecordAndUnknownTarget(t *testing.T) {
	cfg := testConfig(t)

	cfg.Targets["legacy"] = config.TargetConfig{Type: "oracle"}

	res := run(cfg, NewProbeCommand(), "--no-record", "--format", "yaml")
	require.ErrorIs(t, res.Err, ErrProbeFailed)
	assert.ErrorContains(t, res.Err, "1 of 2 targets")
	assert.Contains(t, res.Out, "target: local")
	assert.Contains(t, res.Out, "target: legacy")

	hist := run(cfg, NewHistoryCommand())
	require.NoError(t, hist.Err)
	assert.JSONEq(t, "[]", hist.Out)

	res = run(cfg, NewProbeCommand(), "--no-record", "--mode", "sqlite-like")
	require.NoError(t, res.Err, "the oracle target has no mode and is skipped")
	assert.NotContains(t, res.Out, "legacy")

	res = run(cfg, NewProbeCommand(), "--no-record", "--mode", "standard")
	assert.ErrorContains(t, res.Err, "no standard targets among: legacy, local")

	res = run(cfg, NewProbeCommand(), "--mode", "native")
	assert.ErrorContains(t, res.Err, "unknown dialect mode")

	res = run(cfg, NewProbeCommand(), "nowhere")
	assert.ErrorContains(t, res.Err, `unknown target "nowhere"`)
}
