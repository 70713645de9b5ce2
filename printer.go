package csvcore

import (
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/raceordie690/csvcore/internal/csvlog"
)

// Printer is the inverse of Parser: it writes Records (or raw field
// sequences) to a sink according to a Format, preserving round-trip with
// the Parser reading the same Format back.
//
// Like Parser, a Printer is not safe for concurrent use.
type Printer struct {
	w      io.Writer
	format Format

	sessionID uuid.UUID
	log       interface {
		Debugf(format string, args ...interface{})
		Warnf(format string, args ...interface{})
	}

	headerPrinted bool
	wroteAny      bool
}

// NewPrinter returns a Printer writing to w according to format.
func NewPrinter(w io.Writer, format Format) *Printer {
	id := uuid.New()
	return &Printer{
		w:         w,
		format:    format,
		sessionID: id,
		log:       csvlog.For("printer", id.String()),
	}
}

// SessionID returns this Printer's correlation id.
func (p *Printer) SessionID() uuid.UUID { return p.sessionID }

func (p *Printer) writeString(s string) error {
	_, err := io.WriteString(p.w, s)
	if err != nil {
		p.log.Warnf("write failed: %v", err)
		return &IOError{Session: p.sessionID, Err: err}
	}
	return nil
}

// println writes the record separator, if one is configured. With no
// separator configured, records run together (single-line embedding).
func (p *Printer) println() error {
	sep, ok := p.format.RecordSeparator()
	if !ok {
		return nil
	}
	return p.writeString(sep)
}

// printComment writes text as one or more comment lines, each prefixed by
// the comment marker and a space. Embedded newlines in text become
// separate comment lines. With no comment marker configured it writes
// nothing and returns nil.
func (p *Printer) printComment(text string) error {
	marker, ok := p.format.CommentMarker()
	if !ok {
		return nil
	}
	for _, line := range strings.Split(text, "\n") {
		if err := p.writeString(string(marker) + " " + line); err != nil {
			return err
		}
		if err := p.println(); err != nil {
			return err
		}
	}
	return nil
}

// printHeaders writes headerComments (if any), then the header row itself.
// It is idempotent: calling it more than once, or after a record has
// already been printed, is a no-op.
func (p *Printer) printHeaders() error {
	if p.headerPrinted || p.wroteAny {
		return nil
	}
	names, ok := p.format.Header()
	if !ok {
		return nil
	}
	for _, c := range p.format.HeaderComments() {
		if err := p.printComment(c); err != nil {
			return err
		}
	}
	if err := p.writeFields(names); err != nil {
		return err
	}
	p.headerPrinted = true
	return nil
}

// print encodes one field value per the quote policy and writes it followed
// by a delimiter. Callers generally want printRecord instead.
func (p *Printer) print(value string) error {
	if err := p.writeString(p.encode(value, false)); err != nil {
		return err
	}
	return p.writeString(string(p.format.Delimiter()))
}

// printRecord writes one record's fields, delimiter-separated, followed by
// the record separator. It implicitly prints the header first, if
// configured and not yet printed.
func (p *Printer) printRecord(values []string) error {
	if err := p.printHeaders(); err != nil {
		return err
	}
	return p.writeFields(values)
}

// writeFields writes one row of already-delimited fields followed by the
// record separator, bypassing header printing. Used both by printRecord
// (for data rows) and printHeaders (for the header row itself).
func (p *Printer) writeFields(values []string) error {
	delim := string(p.format.Delimiter())
	for i, v := range values {
		if i > 0 {
			if err := p.writeString(delim); err != nil {
				return err
			}
		}
		if err := p.writeString(p.encode(v, i == 0)); err != nil {
			return err
		}
	}
	p.wroteAny = true
	return p.println()
}

// Print writes a Record's values, reusing its null sentinel where the
// Format's nullString accounts for it.
func (p *Printer) Print(rec Record) error {
	return p.printRecord(rec.Values())
}

// PrintAll writes every record in recs in order.
func (p *Printer) PrintAll(recs []Record) error {
	for _, rec := range recs {
		if err := p.Print(rec); err != nil {
			return err
		}
	}
	return nil
}

// encode applies §4.5's quoting decision to one field value and returns
// its on-wire representation. firstField matters only for MINIMAL, where a
// leading comment marker in the first field must also trigger quoting
// (otherwise a reader would mistake the record for a comment line).
func (p *Printer) encode(value string, firstField bool) string {
	nullStr, hasNull := p.format.NullString()
	if hasNull && value == nullStr && p.format.QuotePolicy() == QuoteAllNonNull {
		return nullStr
	}

	quote, hasQuote := p.format.Quote()
	if !p.needsQuoting(value, firstField) {
		if p.format.QuotePolicy() == QuoteNone {
			return p.escapeUnquoted(value)
		}
		return value
	}
	if !hasQuote {
		// QuoteNone never reaches here (needsQuoting always false for it).
		return value
	}
	return string(quote) + p.escapeQuoted(value, quote) + string(quote)
}

func (p *Printer) needsQuoting(value string, firstField bool) bool {
	switch p.format.QuotePolicy() {
	case QuoteAll:
		return true
	case QuoteAllNonNull:
		nullStr, hasNull := p.format.NullString()
		return !(hasNull && value == nullStr)
	case QuoteNonNumeric:
		return !isNumeric(value)
	case QuoteNone:
		return false
	default: // QuoteMinimal
		return p.minimalNeedsQuoting(value, firstField)
	}
}

func (p *Printer) minimalNeedsQuoting(value string, firstField bool) bool {
	if strings.ContainsRune(value, p.format.Delimiter()) ||
		strings.ContainsAny(value, "\r\n") {
		return true
	}
	if quote, ok := p.format.Quote(); ok && strings.ContainsRune(value, quote) {
		return true
	}
	if firstField {
		if marker, ok := p.format.CommentMarker(); ok && strings.ContainsRune(value, marker) {
			return true
		}
	}
	return false
}

// escapeQuoted doubles interior quote characters, per §4.5 ("MINIMAL must
// use doubling for RFC 4180 compatibility" — this repo doubles for every
// policy, since an escape-prefixed quote inside a quoted field is
// equally valid and doubling is the more widely interoperable choice).
func (p *Printer) escapeQuoted(value string, quote rune) string {
	return strings.ReplaceAll(value, string(quote), string(quote)+string(quote))
}

// escapeUnquoted escape-prefixes every delimiter/quote/EOL occurrence, for
// QuoteNone output.
func (p *Printer) escapeUnquoted(value string) string {
	escape, ok := p.format.Escape()
	if !ok {
		return value
	}
	var b strings.Builder
	quote, hasQuote := p.format.Quote()
	delim := p.format.Delimiter()
	for _, r := range value {
		if r == delim || r == escape || r == '\r' || r == '\n' || (hasQuote && r == quote) {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isNumeric reports whether s is a number: optional sign, digits, optional
// fractional part, optional exponent.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	n := len(s)
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digitsStart := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	hasIntDigits := i > digitsStart
	hasFracDigits := false
	if i < n && s[i] == '.' {
		i++
		fracStart := i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		hasFracDigits = i > fracStart
	}
	if !hasIntDigits && !hasFracDigits {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == n
}
