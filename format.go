package csvcore

import "fmt"

// QuotePolicy controls when Printer quotes a field value.
type QuotePolicy int

const (
	// QuoteMinimal quotes only fields containing the delimiter, quote,
	// \r, \n, or (for the first field, if set) the comment marker.
	QuoteMinimal QuotePolicy = iota
	// QuoteAll quotes every field unconditionally.
	QuoteAll
	// QuoteAllNonNull quotes every field except the null sentinel, which
	// is written raw as the configured null string.
	QuoteAllNonNull
	// QuoteNonNumeric quotes every field that is not syntactically a number.
	QuoteNonNumeric
	// QuoteNone never quotes; delimiter/quote/EOL occurrences are instead
	// escape-prefixed. Requires Escape to be set.
	QuoteNone
)

func (p QuotePolicy) String() string {
	switch p {
	case QuoteMinimal:
		return "MINIMAL"
	case QuoteAll:
		return "ALL"
	case QuoteAllNonNull:
		return "ALL_NON_NULL"
	case QuoteNonNumeric:
		return "NON_NUMERIC"
	case QuoteNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// DuplicateHeaderMode controls how repeated header column names are handled.
type DuplicateHeaderMode int

const (
	// DuplicateDisallow rejects any repeated non-empty column name.
	DuplicateDisallow DuplicateHeaderMode = iota
	// DuplicateAllowEmpty allows repeats only among empty column names.
	DuplicateAllowEmpty
	// DuplicateAllowAll allows any repeat; the first occurrence of a name wins lookup.
	DuplicateAllowAll
)

func (m DuplicateHeaderMode) String() string {
	switch m {
	case DuplicateDisallow:
		return "DISALLOW"
	case DuplicateAllowEmpty:
		return "ALLOW_EMPTY"
	case DuplicateAllowAll:
		return "ALLOW_ALL"
	default:
		return "UNKNOWN"
	}
}

// noChar is the sentinel for an unset optional rune field (Quote, Escape,
// CommentMarker). A delimiter is never allowed to equal it since 0 is never
// a legal delimiter either.
const noChar rune = 0

// Format is an immutable configuration value describing the dialect a
// Lexer/Parser/Printer triple speaks. Build one with NewFormatBuilder, or
// start from a predefined format (Default, RFC4180, Excel, TDF, MySQL) and
// adjust it via Builder().
type Format struct {
	delimiter       rune
	quote           rune
	escape          rune
	commentMarker   rune
	recordSeparator *string

	ignoreSurroundingSpaces     bool
	ignoreEmptyLines            bool
	trailingDelimiterEmitsEmpty bool
	trim                        bool

	nullString *string
	quotePolicy QuotePolicy

	header                 *[]string
	skipHeaderRecord       bool
	allowMissingColumnNames bool
	duplicateHeaderMode    DuplicateHeaderMode
	headerComments         []string
}

// Delimiter returns the field delimiter.
func (f Format) Delimiter() rune { return f.delimiter }

// Quote returns the quote character and whether one is configured.
func (f Format) Quote() (rune, bool) { return f.quote, f.quote != noChar }

// Escape returns the escape character and whether one is configured.
func (f Format) Escape() (rune, bool) { return f.escape, f.escape != noChar }

// CommentMarker returns the comment character and whether one is configured.
func (f Format) CommentMarker() (rune, bool) { return f.commentMarker, f.commentMarker != noChar }

// RecordSeparator returns the configured separator and whether one is set.
// An unset separator means records are not separated at all (single-line
// embedding use, see Printer).
func (f Format) RecordSeparator() (string, bool) {
	if f.recordSeparator == nil {
		return "", false
	}
	return *f.recordSeparator, true
}

// IgnoreSurroundingSpaces reports whether unquoted leading/trailing
// whitespace around a field is skipped by the Lexer.
func (f Format) IgnoreSurroundingSpaces() bool { return f.ignoreSurroundingSpaces }

// IgnoreEmptyLines reports whether wholly-empty lines are suppressed.
func (f Format) IgnoreEmptyLines() bool { return f.ignoreEmptyLines }

// TrailingDelimiterEmitsEmpty reports whether a delimiter immediately
// preceding the record terminator yields a trailing empty field.
func (f Format) TrailingDelimiterEmitsEmpty() bool { return f.trailingDelimiterEmitsEmpty }

// Trim reports whether each field is trimmed of surrounding whitespace
// after tokenizing (distinct from IgnoreSurroundingSpaces, which affects
// tokenizing itself).
func (f Format) Trim() bool { return f.trim }

// NullString returns the configured null sentinel string and whether one is set.
func (f Format) NullString() (string, bool) {
	if f.nullString == nil {
		return "", false
	}
	return *f.nullString, true
}

// QuotePolicy returns the configured quoting policy.
func (f Format) QuotePolicy() QuotePolicy { return f.quotePolicy }

// Header returns the configured header list and whether one is set. An
// empty, non-nil slice means "consume the first record as the header".
func (f Format) Header() ([]string, bool) {
	if f.header == nil {
		return nil, false
	}
	out := make([]string, len(*f.header))
	copy(out, *f.header)
	return out, true
}

// SkipHeaderRecord reports whether the first record of the stream is
// discarded after an explicit header list is supplied.
func (f Format) SkipHeaderRecord() bool { return f.skipHeaderRecord }

// AllowMissingColumnNames reports whether null/empty header entries are tolerated.
func (f Format) AllowMissingColumnNames() bool { return f.allowMissingColumnNames }

// DuplicateHeaderMode returns the configured duplicate-header policy.
func (f Format) DuplicateHeaderMode() DuplicateHeaderMode { return f.duplicateHeaderMode }

// HeaderComments returns the comment lines to print above the header row.
func (f Format) HeaderComments() []string {
	out := make([]string, len(f.headerComments))
	copy(out, f.headerComments)
	return out
}

// Builder returns a Builder pre-populated with this Format's values, so a
// derived Format can be built by overriding only what differs.
func (f Format) Builder() *Builder {
	b := &Builder{f: f}
	return b
}

// Equal reports whether two Formats describe the same dialect.
func (f Format) Equal(o Format) bool {
	if f.delimiter != o.delimiter || f.quote != o.quote || f.escape != o.escape ||
		f.commentMarker != o.commentMarker || f.ignoreSurroundingSpaces != o.ignoreSurroundingSpaces ||
		f.ignoreEmptyLines != o.ignoreEmptyLines || f.trailingDelimiterEmitsEmpty != o.trailingDelimiterEmitsEmpty ||
		f.trim != o.trim || f.quotePolicy != o.quotePolicy || f.skipHeaderRecord != o.skipHeaderRecord ||
		f.allowMissingColumnNames != o.allowMissingColumnNames || f.duplicateHeaderMode != o.duplicateHeaderMode {
		return false
	}
	if (f.recordSeparator == nil) != (o.recordSeparator == nil) {
		return false
	}
	if f.recordSeparator != nil && *f.recordSeparator != *o.recordSeparator {
		return false
	}
	if (f.nullString == nil) != (o.nullString == nil) {
		return false
	}
	if f.nullString != nil && *f.nullString != *o.nullString {
		return false
	}
	if (f.header == nil) != (o.header == nil) {
		return false
	}
	if f.header != nil {
		if len(*f.header) != len(*o.header) {
			return false
		}
		for i := range *f.header {
			if (*f.header)[i] != (*o.header)[i] {
				return false
			}
		}
	}
	if len(f.headerComments) != len(o.headerComments) {
		return false
	}
	for i := range f.headerComments {
		if f.headerComments[i] != o.headerComments[i] {
			return false
		}
	}
	return true
}

// Builder constructs an immutable Format, validating its invariants on Build.
type Builder struct {
	f Format
}

// NewFormatBuilder returns a Builder seeded with csvcore's baseline
// defaults: comma delimiter, double-quote, CRLF separator, MINIMAL quoting,
// trailing delimiter emits empty (§9 open question, resolved true).
func NewFormatBuilder() *Builder {
	crlf := "\r\n"
	return &Builder{f: Format{
		delimiter:                   ',',
		quote:                       '"',
		recordSeparator:             &crlf,
		trailingDelimiterEmitsEmpty: true,
		quotePolicy:                 QuoteMinimal,
		duplicateHeaderMode:         DuplicateDisallow,
	}}
}

// WithDelimiter sets the field delimiter.
func (b *Builder) WithDelimiter(r rune) *Builder { b.f.delimiter = r; return b }

// WithQuote sets the quote character. Pass noChar-equivalent via WithNoQuote to disable.
func (b *Builder) WithQuote(r rune) *Builder { b.f.quote = r; return b }

// WithNoQuote disables quoting/encapsulation entirely.
func (b *Builder) WithNoQuote() *Builder { b.f.quote = noChar; return b }

// WithEscape sets the escape character.
func (b *Builder) WithEscape(r rune) *Builder { b.f.escape = r; return b }

// WithNoEscape clears the escape character.
func (b *Builder) WithNoEscape() *Builder { b.f.escape = noChar; return b }

// WithCommentMarker sets the comment character.
func (b *Builder) WithCommentMarker(r rune) *Builder { b.f.commentMarker = r; return b }

// WithNoCommentMarker clears the comment character.
func (b *Builder) WithNoCommentMarker() *Builder { b.f.commentMarker = noChar; return b }

// WithRecordSeparator sets the record separator string (typically "\n" or "\r\n").
func (b *Builder) WithRecordSeparator(s string) *Builder { b.f.recordSeparator = &s; return b }

// WithNoRecordSeparator disables inter-record separation (single-line embedding).
func (b *Builder) WithNoRecordSeparator() *Builder { b.f.recordSeparator = nil; return b }

// WithIgnoreSurroundingSpaces toggles whitespace skipping around unquoted fields.
func (b *Builder) WithIgnoreSurroundingSpaces(v bool) *Builder {
	b.f.ignoreSurroundingSpaces = v
	return b
}

// WithIgnoreEmptyLines toggles suppression of wholly-empty lines.
func (b *Builder) WithIgnoreEmptyLines(v bool) *Builder { b.f.ignoreEmptyLines = v; return b }

// WithTrailingDelimiterEmitsEmpty toggles whether a trailing delimiter
// yields an extra empty field (see spec.md §9 open question).
func (b *Builder) WithTrailingDelimiterEmitsEmpty(v bool) *Builder {
	b.f.trailingDelimiterEmitsEmpty = v
	return b
}

// WithTrim toggles per-field trimming after tokenizing.
func (b *Builder) WithTrim(v bool) *Builder { b.f.trim = v; return b }

// WithNullString sets the null sentinel string.
func (b *Builder) WithNullString(s string) *Builder { b.f.nullString = &s; return b }

// WithNoNullString clears the null sentinel.
func (b *Builder) WithNoNullString() *Builder { b.f.nullString = nil; return b }

// WithQuotePolicy sets the quoting policy used by Printer.
func (b *Builder) WithQuotePolicy(p QuotePolicy) *Builder { b.f.quotePolicy = p; return b }

// WithHeader sets an explicit header list. Pass an empty, non-nil slice
// (WithHeaderFromFirstRecord) to instead consume the first record as header.
func (b *Builder) WithHeader(names ...string) *Builder {
	cp := append([]string(nil), names...)
	b.f.header = &cp
	return b
}

// WithHeaderFromFirstRecord arranges for the first record of the stream to
// be consumed and used as the header.
func (b *Builder) WithHeaderFromFirstRecord() *Builder {
	empty := []string{}
	b.f.header = &empty
	return b
}

// WithNoHeader clears header resolution entirely (records are positional only).
func (b *Builder) WithNoHeader() *Builder { b.f.header = nil; return b }

// WithSkipHeaderRecord toggles discarding the stream's first record after
// an explicit header list is supplied via WithHeader.
func (b *Builder) WithSkipHeaderRecord(v bool) *Builder { b.f.skipHeaderRecord = v; return b }

// WithAllowMissingColumnNames toggles tolerance for null/empty header entries.
func (b *Builder) WithAllowMissingColumnNames(v bool) *Builder {
	b.f.allowMissingColumnNames = v
	return b
}

// WithDuplicateHeaderMode sets the duplicate-header policy.
func (b *Builder) WithDuplicateHeaderMode(m DuplicateHeaderMode) *Builder {
	b.f.duplicateHeaderMode = m
	return b
}

// WithHeaderComments sets comment lines printed above the header row.
func (b *Builder) WithHeaderComments(lines ...string) *Builder {
	b.f.headerComments = append([]string(nil), lines...)
	return b
}

// Build validates the accumulated settings and returns an immutable Format,
// or a *FormatError describing the first violated invariant.
func (b *Builder) Build() (Format, error) {
	f := b.f

	if f.delimiter == '\r' || f.delimiter == '\n' {
		return Format{}, &FormatError{Reason: "delimiter must not be CR or LF"}
	}
	if f.delimiter == noChar {
		return Format{}, &FormatError{Reason: "delimiter must be set"}
	}

	type namedChar struct {
		name string
		set  bool
		r    rune
	}
	chars := []namedChar{
		{"quote", f.quote != noChar, f.quote},
		{"escape", f.escape != noChar, f.escape},
		{"commentMarker", f.commentMarker != noChar, f.commentMarker},
	}
	for _, c := range chars {
		if !c.set {
			continue
		}
		if c.r == '\r' || c.r == '\n' {
			return Format{}, &FormatError{Reason: fmt.Sprintf("%s must not be CR or LF", c.name)}
		}
		if c.r == f.delimiter {
			return Format{}, &FormatError{Reason: fmt.Sprintf("%s must differ from delimiter", c.name)}
		}
	}
	for i := 0; i < len(chars); i++ {
		for j := i + 1; j < len(chars); j++ {
			if chars[i].set && chars[j].set && chars[i].r == chars[j].r {
				return Format{}, &FormatError{Reason: fmt.Sprintf("%s and %s must differ", chars[i].name, chars[j].name)}
			}
		}
	}

	if f.quotePolicy == QuoteNone && f.escape == noChar {
		return Format{}, &FormatError{Reason: "quote policy NONE requires an escape character"}
	}

	if f.header != nil && len(*f.header) > 0 {
		if err := validateHeaderList(*f.header, f.allowMissingColumnNames, f.duplicateHeaderMode); err != nil {
			return Format{}, err
		}
	}

	return f, nil
}

// validateHeaderList applies the §4.2 duplicate/missing-name checks to an
// explicit header list at Format-build time. Parser applies the same rules
// again at stream-header-resolution time, since a header consumed from the
// first record of the stream isn't known until the Parser runs.
func validateHeaderList(names []string, allowMissing bool, mode DuplicateHeaderMode) error {
	missing := 0
	for _, n := range names {
		if n == "" {
			missing++
		}
	}
	if missing > 0 && !allowMissing {
		return &FormatError{Reason: "header contains missing column names"}
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		if seen[n] {
			switch mode {
			case DuplicateDisallow:
				return &FormatError{Reason: fmt.Sprintf("duplicate header column %q at index %d", n, i)}
			case DuplicateAllowEmpty:
				return &FormatError{Reason: fmt.Sprintf("duplicate header column %q at index %d (ALLOW_EMPTY permits only empty duplicates)", n, i)}
			case DuplicateAllowAll:
				// allowed
			}
			continue
		}
		seen[n] = true
	}
	return nil
}

// Default is the baseline dialect: comma, double-quote, CRLF, MINIMAL
// quoting, empty lines suppressed.
var Default = mustBuild(NewFormatBuilder().WithIgnoreEmptyLines(true))

// RFC4180 is Default but without empty-line suppression, matching the
// letter of RFC 4180 (a blank line is a record with one empty field).
var RFC4180 = mustBuild(NewFormatBuilder().WithIgnoreEmptyLines(false))

// Excel is Default with empty-line suppression off and missing column
// names tolerated, matching how Excel exports CSV.
var Excel = mustBuild(NewFormatBuilder().
	WithIgnoreEmptyLines(false).
	WithAllowMissingColumnNames(true))

// TDF is tab-delimited, with surrounding whitespace ignored.
var TDF = mustBuild(NewFormatBuilder().
	WithDelimiter('\t').
	WithIgnoreSurroundingSpaces(true))

// MySQL matches the dialect produced by `mysqldump`/`SELECT ... INTO
// OUTFILE`: tab-delimited, backslash-escaped, \N for null, every non-null
// field quoted.
var MySQL = mustBuild(NewFormatBuilder().
	WithDelimiter('\t').
	WithEscape('\\').
	WithNullString(`\N`).
	WithQuotePolicy(QuoteAllNonNull).
	WithRecordSeparator("\n"))

func mustBuild(b *Builder) Format {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}
