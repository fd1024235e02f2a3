package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/datecol/pkg/datecol"
	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// generateDialectDocs writes the dialect reference page.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "dialects.md"), dialectPage(), 0600)
}

func dialectPage() []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "How each SQL backend stores and returns date columns")
	w.GeneratedMarker()
	w.Header(1, "Dialects")
	w.Paragraph("SQLite-like dialects store dates as text that is parsed on the way back. " +
		"Standard dialects return native values; text they return is left to the caller.")

	var rows [][]string
	for _, name := range dialect.List() {
		d := dialect.MustGet(name)
		rows = append(rows, []string{
			InlineCode(d.Name),
			d.Mode.String(),
			InlineCode(d.FormatPlaceholder(1)),
			InlineCode(d.DateType),
			InlineCode(d.DateTimeType),
		})
	}
	w.Table([]string{"Dialect", "Mode", "Placeholder", "DATE column", "DATETIME column"}, rows)

	w.Header(2, "Patterns")
	w.Table([]string{"Use", "Pattern"}, [][]string{
		{"DATE literal", InlineCode(datecol.DefaultDatePattern.String())},
		{"DATETIME literal", InlineCode(datecol.DefaultDateTimePattern.String())},
		{"SQLite DATE text", InlineCode(datecol.SQLiteDatePattern.String())},
		{"SQLite DATETIME text", InlineCode(datecol.SQLiteDateTimePattern.String())},
	})
	w.Paragraph(InlineCode("YYYY") + " is the year of era, the calendar year for common-era dates.")

	w.Header(2, "Dialect and Kind Matrix")
	w.Paragraph("What a column writes as a literal and how text handed back by the driver is read, for " +
		InlineCode(matrixSample.Format(time.RFC3339Nano)) + ".")
	w.Table([]string{"Dialect", "Kind", "Column type", "Literal", "Text read back"}, matrixRows())
	return w.Bytes()
}

var matrixSample = time.Date(2024, time.December, 30, 12, 34, 56, 789000000, time.UTC)

func matrixRows() [][]string {
	sample := datecol.NewDomain(datetime.New(matrixSample))
	var rows [][]string
	for _, name := range dialect.List() {
		d := dialect.MustGet(name)
		for _, kind := range []datecol.Kind{datecol.KindDate, datecol.KindDateTime} {
			c := datecol.ForDialect(kind, d, time.UTC)
			literal, err := c.ToLiteralText(sample)
			if err != nil {
				literal = err.Error()
			}
			colType := d.DateType
			text := datecol.SQLiteDatePattern
			if kind == datecol.KindDateTime {
				colType, text = d.DateTimeType, datecol.SQLiteDateTimePattern
			}
			rows = append(rows, []string{
				InlineCode(d.Name), kind.String(), InlineCode(colType), InlineCode(literal), readBack(c, text),
			})
		}
	}
	return rows
}

// readBack describes what c does with text in the layout of p.
func readBack(c datecol.Codec, p *datecol.Pattern) string {
	out, err := c.FromDriverValue(datecol.Text(p.Format(matrixSample)))
	switch {
	case err != nil:
		return "error: " + err.Error()
	case isText(out):
		return "left to the caller"
	default:
		return "parsed with " + InlineCode(p.String())
	}
}

func isText(v datecol.DriverValue) bool {
	_, ok := v.(datecol.Text)
	return ok
}
