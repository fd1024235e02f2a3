package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/datecol/internal/cli/config"
	"github.com/leapstack-labs/datecol/pkg/datecol"
	"github.com/leapstack-labs/datecol/pkg/datetime"
	"github.com/leapstack-labs/datecol/pkg/dialect"
)

// inputLayouts are tried in order when reading a value from the command line.
var inputLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// session holds the codec settings shared by render, parse and the repl.
type session struct {
	kind    datecol.Kind
	dialect *dialect.Dialect
	loc     *time.Location
	pattern *datecol.Pattern
}

func newSession(cfg *config.Config) (*session, error) {
	d, err := cfg.DialectValue()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &session{kind: cfg.Kind, dialect: d, loc: loc}, nil
}

func (s *session) codec() datecol.Codec {
	return datecol.ForDialect(s.kind, s.dialect, s.loc)
}

func (s *session) setKind(v string) error {
	k, err := datecol.ParseKind(v)
	if err != nil {
		return err
	}
	s.kind = k
	return nil
}

func (s *session) setDialect(name string) error {
	d, ok := dialect.Get(strings.ToLower(name))
	if !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)", name, strings.Join(dialect.List(), ", "))
	}
	s.dialect = d
	return nil
}

func (s *session) setPattern(layout string, cfg *config.Config) error {
	if layout == "" {
		s.pattern = nil
		return nil
	}
	p, err := datecol.CompilePattern(layout)
	if err != nil {
		return err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}
	s.pattern = p.WithLocale(tag)
	return nil
}

// readInput turns a command-line value into a driver value: "now", epoch
// milliseconds, RFC 3339 or a local date and time.
func (s *session) readInput(in string) (datecol.DriverValue, error) {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, "now") {
		return datecol.NewDomain(datetime.Now(s.loc)), nil
	}
	if ms, err := strconv.ParseInt(in, 10, 64); err == nil {
		return datecol.EpochMillis(ms), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, in); err == nil {
		return datecol.NewDomain(datetime.New(t)), nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, in, s.loc); err == nil {
			return datecol.NewDomain(datetime.New(t)), nil
		}
	}
	return nil, fmt.Errorf("cannot read %q as a date value", in)
}

// render writes the SQL literal for in, or the pattern text when a pattern is set.
func (s *session) render(w io.Writer, in string) error {
	v, err := s.readInput(in)
	if err != nil {
		return err
	}
	c := s.codec()

	// Epoch values have no literal form; decode them first.
	d, err := c.FromDriverValue(v)
	if err != nil {
		return err
	}
	dom, ok := d.(datecol.Domain)
	if !ok {
		return fmt.Errorf("cannot render %q", in)
	}

	if s.pattern != nil {
		_, err = fmt.Fprintln(w, s.pattern.Format(dom.In(s.loc).Time()))
		return err
	}
	lit, err := c.ToLiteralText(dom)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, lit)
	return err
}

// errUndecoded marks text a standard dialect hands back unparsed.
var errUndecoded = errors.New("left undecoded by a standard dialect")

// parse writes the instant text decodes to.
func (s *session) parse(w io.Writer, text string) error {
	if s.pattern != nil {
		t, err := s.pattern.Parse(text, s.loc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, datetime.New(t).String())
		return err
	}

	out, err := s.codec().FromDriverValue(datecol.Text(text))
	if err != nil {
		return err
	}
	switch x := out.(type) {
	case datecol.Domain:
		_, err = fmt.Fprintln(w, x.In(s.loc).String())
		return err
	case datecol.Text:
		return fmt.Errorf("%q %w (dialect %s)", string(x), errUndecoded, s.dialect.Name)
	default:
		return fmt.Errorf("unexpected decoded value %T", out)
	}
}
