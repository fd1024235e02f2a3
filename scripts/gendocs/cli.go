package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/datecol/internal/cli"
	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/pkg/adapter"
)

// settingDocs describes the datecol.yaml keys that map to environment variables.
var settingDocs = map[string]string{
	"dialect":    "Dialect whose mode render and parse use",
	"kind":       "Column kind, date or datetime",
	"timezone":   "IANA zone values are rendered and parsed in",
	"locale":     "BCP 47 locale whose digits --pattern values use",
	"output":     "Output format: auto, table, json or yaml",
	"state_path": "SQLite file holding probe history",
	"verbose":    "Log at debug level",
}

// generateCLIDocs writes index.md and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range visibleCommands(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), body, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line reference for datecol")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/datecol/cmd/datecol@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Settings")
	w.Paragraph("Settings are read from defaults, then " + InlineCode("datecol.yaml") +
		" (searched upward from the working directory), then environment variables, then flags.")
	w.Table([]string{"Key", "Environment", "Default", "Description"}, settingRows())

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, or a probe where a target failed a check or could not be reached"},
	})
	return w.Bytes()
}

// settingRows lists the scalar config keys with their environment variable
// and default value.
func settingRows() [][]string {
	defaults := reflect.ValueOf(config.Default()).Elem()
	typ := defaults.Type()

	var rows [][]string
	for i := range typ.NumField() {
		key := typ.Field(i).Tag.Get("koanf")
		if key == "" || typ.Field(i).Type.Kind() == reflect.Map {
			continue
		}
		def := fmt.Sprint(defaults.Field(i).Interface())
		rows = append(rows, []string{
			InlineCode(key),
			InlineCode(config.EnvPrefix + strings.ToUpper(key)),
			InlineCode(def),
			settingDocs[key],
		})
	}
	return rows
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cleanDescription(cmd.Short))
	w.GeneratedMarker()

	w.Header(1, "datecol "+cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", "datecol "+strings.TrimPrefix(cmd.UseLine(), cmd.Root().Name()+" "))

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		w.Table(flagHeaders, flagRows(cmd.LocalFlags()))
	}

	switch cmd.Name() {
	case "render", "parse":
		w.Header(2, "Pattern Letters")
		w.Paragraph("Values of " + InlineCode("--pattern") + " are built from these letters. " +
			"Text in single quotes is literal. Numeric fields use the digits of the configured locale.")
		w.Table([]string{"Letter", "Field"}, patternLetterRows)
	case "probe":
		w.Header(2, "Backends")
		w.Paragraph("Target types and the mode " + InlineCode("--mode") + " selects them by.")
		w.Table([]string{"Type", "Mode", "DATE column", "DATETIME column"}, backendRows())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

var patternLetterRows = [][]string{
	{InlineCode("Y"), "Year of era (the calendar year for common-era dates)"},
	{InlineCode("y"), "Proleptic year"},
	{InlineCode("x"), "ISO week-based year"},
	{InlineCode("M"), "Month"},
	{InlineCode("d"), "Day of month"},
	{InlineCode("H"), "Hour, 0 to 23"},
	{InlineCode("m"), "Minute"},
	{InlineCode("s"), "Second"},
	{InlineCode("S"), "Fraction of a second, one digit per letter"},
}

func backendRows() [][]string {
	var rows [][]string
	for _, b := range adapter.Backends() {
		rows = append(rows, []string{
			InlineCode(b.Name),
			b.Mode().String(),
			InlineCode(b.Dialect.DateType),
			InlineCode(b.Dialect.DateTimeType),
		})
	}
	return rows
}

var flagHeaders = []string{"Flag", "Type", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, f.Value.Type(), def, cleanDescription(f.Usage)})
	})
	return rows
}

// dedent strips the indentation shared by every non-blank line of s.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found || len(indent) < len(prefix) {
			prefix, found = indent, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
