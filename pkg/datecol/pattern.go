package datecol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type fieldKind int

const (
	fieldLiteral fieldKind = iota
	fieldYearOfEra
	fieldWeekYear
	fieldYear
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldSecond
	fieldFraction
)

var patternLetters = map[rune]fieldKind{
	'Y': fieldYearOfEra,
	'x': fieldWeekYear,
	'y': fieldYear,
	'M': fieldMonth,
	'd': fieldDay,
	'H': fieldHour,
	'm': fieldMinute,
	's': fieldSecond,
	'S': fieldFraction,
}

type field struct {
	kind  fieldKind
	width int
	lit   string
}

// Pattern is a compiled date pattern such as "YYYY-MM-dd HH:mm:ss.SSSSSS".
//
// Letters: Y year of era, y proleptic year, x week-based year, M month,
// d day, H hour (0-23), m minute, s second, S fraction of a second (one
// digit per letter). Text in single quotes is literal; '' is a quote.
// Other non-letters are literal as written.
//
// When parsing, Y and x are read as the calendar year of the common era.
// A numeric field followed by a literal or the end of input accepts one
// to nine digits; a field directly followed by another numeric field must
// have exactly its written width.
type Pattern struct {
	layout string
	fields []field
	locale language.Tag
	digits *[10]rune // nil means ASCII
}

// CompilePattern compiles layout.
func CompilePattern(layout string) (*Pattern, error) {
	var (
		fields []field
		lit    strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			fields = append(fields, field{kind: fieldLiteral, lit: lit.String()})
			lit.Reset()
		}
	}

	runes := []rune(layout)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'':
			if i+1 < len(runes) && runes[i+1] == '\'' {
				lit.WriteRune('\'')
				i++
				continue
			}
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("unterminated quote in pattern %q", layout)
			}
			lit.WriteString(string(runes[i+1 : end]))
			i = end
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			kind, ok := patternLetters[r]
			if !ok {
				return nil, fmt.Errorf("unsupported letter %q in pattern %q", r, layout)
			}
			width := 1
			for i+1 < len(runes) && runes[i+1] == r {
				width++
				i++
			}
			flush()
			fields = append(fields, field{kind: kind, width: width})
		default:
			lit.WriteRune(r)
		}
	}
	flush()

	return &Pattern{layout: layout, fields: fields, locale: language.Und}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(layout string) *Pattern {
	p, err := CompilePattern(layout)
	if err != nil {
		panic(err)
	}
	return p
}

// WithLocale returns a copy of p bound to tag. Numeric fields are written
// and read in the digits of the tag's default numbering system; literal
// text is unchanged.
func (p *Pattern) WithLocale(tag language.Tag) *Pattern {
	cp := *p
	cp.locale = tag
	cp.digits = localeDigits(tag)
	return &cp
}

// localeDigits returns the digits zero to nine for tag, or nil when they
// are ASCII.
func localeDigits(tag language.Tag) *[10]rune {
	pr := message.NewPrinter(tag)
	var digits [10]rune
	ascii := true
	for i := range digits {
		r, _ := utf8.DecodeRuneInString(pr.Sprintf("%v", number.Decimal(i)))
		digits[i] = r
		if r != rune('0'+i) {
			ascii = false
		}
	}
	if ascii {
		return nil
	}
	return &digits
}

// Locale returns the locale the pattern is bound to.
func (p *Pattern) Locale() language.Tag {
	return p.locale
}

// String returns the layout the pattern was compiled from.
func (p *Pattern) String() string {
	return p.layout
}

// Format renders t in its own location.
func (p *Pattern) Format(t time.Time) string {
	var b strings.Builder
	for _, f := range p.fields {
		if f.kind == fieldLiteral {
			b.WriteString(f.lit)
			continue
		}
		if p.digits == nil {
			p.formatField(&b, f, t)
			continue
		}
		var ascii strings.Builder
		p.formatField(&ascii, f, t)
		for _, r := range ascii.String() {
			if r >= '0' && r <= '9' {
				r = p.digits[r-'0']
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (p *Pattern) formatField(b *strings.Builder, f field, t time.Time) {
	switch f.kind {
	case fieldYearOfEra:
		year := t.Year()
		if year <= 0 {
			year = 1 - year
		}
		writeYear(b, year, f.width)
	case fieldWeekYear:
		year, _ := t.ISOWeek()
		writeYear(b, year, f.width)
	case fieldYear:
		writeYear(b, t.Year(), f.width)
	case fieldMonth:
		writePadded(b, int(t.Month()), f.width)
	case fieldDay:
		writePadded(b, t.Day(), f.width)
	case fieldHour:
		writePadded(b, t.Hour(), f.width)
	case fieldMinute:
		writePadded(b, t.Minute(), f.width)
	case fieldSecond:
		writePadded(b, t.Second(), f.width)
	case fieldFraction:
		writeFraction(b, t.Nanosecond(), f.width)
	}
}

// Parse reads s in loc. The whole input must match.
func (p *Pattern) Parse(s string, loc *time.Location) (time.Time, error) {
	year, month, day := 1970, 1, 1
	var hour, minute, sec, nsec int

	s = p.asciiDigits(s)
	pos := 0
	for i, f := range p.fields {
		if f.kind == fieldLiteral {
			if !strings.HasPrefix(s[pos:], f.lit) {
				return time.Time{}, fmt.Errorf("expected %q at offset %d", f.lit, pos)
			}
			pos += len(f.lit)
			continue
		}

		width := f.width
		if i+1 == len(p.fields) || p.fields[i+1].kind == fieldLiteral {
			width = digitRun(s[pos:], maxDigits)
			if width == 0 {
				return time.Time{}, fmt.Errorf("offset %d: expected digit", pos)
			}
		}
		if pos+width > len(s) {
			return time.Time{}, fmt.Errorf("input too short at offset %d", pos)
		}
		n, err := parseDigits(s[pos : pos+width])
		if err != nil {
			return time.Time{}, fmt.Errorf("offset %d: %w", pos, err)
		}
		pos += width

		switch f.kind {
		case fieldYearOfEra, fieldWeekYear, fieldYear:
			year = n
		case fieldMonth:
			month = n
		case fieldDay:
			day = n
		case fieldHour:
			hour = n
		case fieldMinute:
			minute = n
		case fieldSecond:
			sec = n
		case fieldFraction:
			nsec = scaleFraction(n, width)
		}
	}
	if pos != len(s) {
		return time.Time{}, fmt.Errorf("unexpected trailing text %q", s[pos:])
	}

	if err := checkRange("month", month, 1, 12); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("hour", hour, 0, 23); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("minute", minute, 0, 59); err != nil {
		return time.Time{}, err
	}
	if err := checkRange("second", sec, 0, 59); err != nil {
		return time.Time{}, err
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}
	return t, nil
}

const maxDigits = 9

// asciiDigits replaces the pattern's locale digits in s with ASCII digits.
func (p *Pattern) asciiDigits(s string) string {
	if p.digits == nil {
		return s
	}
	return strings.Map(func(r rune) rune {
		for i, d := range p.digits {
			if r == d {
				return rune('0' + i)
			}
		}
		return r
	}, s)
}

// digitRun returns the number of leading ASCII digits in s, at most limit.
func digitRun(s string, limit int) int {
	n := 0
	for n < len(s) && n < limit && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func parseDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("expected digit, got %q", s[i])
		}
	}
	return strconv.Atoi(s)
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s %d out of range [%d, %d]", name, v, lo, hi)
	}
	return nil
}

// scaleFraction converts a fraction read with width digits to nanoseconds.
func scaleFraction(n, width int) int {
	for ; width < 9; width++ {
		n *= 10
	}
	for ; width > 9; width-- {
		n /= 10
	}
	return n
}

func writeYear(b *strings.Builder, year, width int) {
	if width == 2 {
		writePadded(b, ((year%100)+100)%100, 2)
		return
	}
	writePadded(b, year, width)
}

func writePadded(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// writeFraction writes the leading width digits of nsec.
func writeFraction(b *strings.Builder, nsec, width int) {
	digits := fmt.Sprintf("%09d", nsec)
	if width <= 9 {
		b.WriteString(digits[:width])
		return
	}
	b.WriteString(digits)
	b.WriteString(strings.Repeat("0", width-9))
}
