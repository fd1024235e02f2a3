package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/datecol/internal/cli/config"
)

// resolveFormat turns the auto format into table on a terminal and json
// everywhere else.
func resolveFormat(format string, w io.Writer) string {
	if format != "" && format != config.OutputAuto {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return config.OutputTable
	}
	return config.OutputJSON
}

// tabular is a result that can be shown as a table and encoded as a document.
type tabular struct {
	header []string
	rows   [][]string
	doc    any
	footer string
}

func render(w io.Writer, format string, out tabular) error {
	switch resolveFormat(format, w) {
	case config.OutputJSON:
		return renderJSON(w, out.doc)
	case config.OutputYAML:
		return renderYAML(w, out.doc)
	case config.OutputTable:
		return renderTable(w, out)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderTable(w io.Writer, out tabular) error {
	if len(out.rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(out.header))
	for i, h := range out.header {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range out.rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.Render()
	if out.footer != "" {
		_, _ = fmt.Fprintln(w, out.footer)
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
