package csvcore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlFormat is Format's on-disk YAML shape. Pointer fields distinguish
// "not present in the document" (preserve the builder default) from an
// explicit false/empty value.
type yamlFormat struct {
	Delimiter       string  `yaml:"delimiter,omitempty"`
	Quote           *string `yaml:"quote,omitempty"`
	Escape          *string `yaml:"escape,omitempty"`
	CommentMarker   *string `yaml:"commentMarker,omitempty"`
	RecordSeparator *string `yaml:"recordSeparator,omitempty"`

	IgnoreSurroundingSpaces     *bool `yaml:"ignoreSurroundingSpaces,omitempty"`
	IgnoreEmptyLines            *bool `yaml:"ignoreEmptyLines,omitempty"`
	TrailingDelimiterEmitsEmpty *bool `yaml:"trailingDelimiterEmitsEmpty,omitempty"`
	Trim                        *bool `yaml:"trim,omitempty"`

	NullString  *string `yaml:"nullString,omitempty"`
	QuotePolicy string  `yaml:"quotePolicy,omitempty"`

	Header                  *[]string `yaml:"header,omitempty"`
	SkipHeaderRecord        *bool     `yaml:"skipHeaderRecord,omitempty"`
	AllowMissingColumnNames *bool     `yaml:"allowMissingColumnNames,omitempty"`
	DuplicateHeaderMode     string    `yaml:"duplicateHeaderMode,omitempty"`
	HeaderComments          []string  `yaml:"headerComments,omitempty"`
}

func singleRune(s, field string) (rune, error) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("csvcore: %s must be exactly one character, got %q", field, s)
	}
	return rs[0], nil
}

func parseQuotePolicy(s string) (QuotePolicy, error) {
	switch strings.ToUpper(s) {
	case "MINIMAL":
		return QuoteMinimal, nil
	case "ALL":
		return QuoteAll, nil
	case "ALL_NON_NULL":
		return QuoteAllNonNull, nil
	case "NON_NUMERIC":
		return QuoteNonNumeric, nil
	case "NONE":
		return QuoteNone, nil
	default:
		return 0, fmt.Errorf("csvcore: unknown quote policy %q", s)
	}
}

func parseDuplicateHeaderMode(s string) (DuplicateHeaderMode, error) {
	switch strings.ToUpper(s) {
	case "DISALLOW":
		return DuplicateDisallow, nil
	case "ALLOW_EMPTY":
		return DuplicateAllowEmpty, nil
	case "ALLOW_ALL":
		return DuplicateAllowAll, nil
	default:
		return 0, fmt.Errorf("csvcore: unknown duplicate header mode %q", s)
	}
}

// FormatFromYAML builds a Format from a YAML document. Fields absent from
// the document keep NewFormatBuilder's defaults; an explicit empty string
// disables the corresponding optional (e.g. `quote: ""` is WithNoQuote).
func FormatFromYAML(data []byte) (Format, error) {
	var y yamlFormat
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Format{}, fmt.Errorf("csvcore: parsing format yaml: %w", err)
	}

	b := NewFormatBuilder()

	if y.Delimiter != "" {
		r, err := singleRune(y.Delimiter, "delimiter")
		if err != nil {
			return Format{}, err
		}
		b = b.WithDelimiter(r)
	}
	if y.Quote != nil {
		if *y.Quote == "" {
			b = b.WithNoQuote()
		} else {
			r, err := singleRune(*y.Quote, "quote")
			if err != nil {
				return Format{}, err
			}
			b = b.WithQuote(r)
		}
	}
	if y.Escape != nil {
		if *y.Escape == "" {
			b = b.WithNoEscape()
		} else {
			r, err := singleRune(*y.Escape, "escape")
			if err != nil {
				return Format{}, err
			}
			b = b.WithEscape(r)
		}
	}
	if y.CommentMarker != nil {
		if *y.CommentMarker == "" {
			b = b.WithNoCommentMarker()
		} else {
			r, err := singleRune(*y.CommentMarker, "commentMarker")
			if err != nil {
				return Format{}, err
			}
			b = b.WithCommentMarker(r)
		}
	}
	if y.RecordSeparator != nil {
		if *y.RecordSeparator == "" {
			b = b.WithNoRecordSeparator()
		} else {
			b = b.WithRecordSeparator(*y.RecordSeparator)
		}
	}
	if y.IgnoreSurroundingSpaces != nil {
		b = b.WithIgnoreSurroundingSpaces(*y.IgnoreSurroundingSpaces)
	}
	if y.IgnoreEmptyLines != nil {
		b = b.WithIgnoreEmptyLines(*y.IgnoreEmptyLines)
	}
	if y.TrailingDelimiterEmitsEmpty != nil {
		b = b.WithTrailingDelimiterEmitsEmpty(*y.TrailingDelimiterEmitsEmpty)
	}
	if y.Trim != nil {
		b = b.WithTrim(*y.Trim)
	}
	if y.NullString != nil {
		if *y.NullString == "" {
			b = b.WithNoNullString()
		} else {
			b = b.WithNullString(*y.NullString)
		}
	}
	if y.QuotePolicy != "" {
		p, err := parseQuotePolicy(y.QuotePolicy)
		if err != nil {
			return Format{}, err
		}
		b = b.WithQuotePolicy(p)
	}
	if y.Header != nil {
		b = b.WithHeader((*y.Header)...)
	}
	if y.SkipHeaderRecord != nil {
		b = b.WithSkipHeaderRecord(*y.SkipHeaderRecord)
	}
	if y.AllowMissingColumnNames != nil {
		b = b.WithAllowMissingColumnNames(*y.AllowMissingColumnNames)
	}
	if y.DuplicateHeaderMode != "" {
		m, err := parseDuplicateHeaderMode(y.DuplicateHeaderMode)
		if err != nil {
			return Format{}, err
		}
		b = b.WithDuplicateHeaderMode(m)
	}
	if y.HeaderComments != nil {
		b = b.WithHeaderComments(y.HeaderComments...)
	}

	return b.Build()
}

// MarshalYAML renders f as a yamlFormat, suitable for gopkg.in/yaml.v3 to
// encode. Every setting is written explicitly, except that an unset escape,
// comment marker, null string or header and empty header comments are
// omitted, which FormatFromYAML reads back as unset; the result therefore
// round-trips through FormatFromYAML. A header read from the first record
// is written as an empty list.
func (f Format) MarshalYAML() (interface{}, error) {
	y := yamlFormat{
		Delimiter:           string(f.Delimiter()),
		QuotePolicy:         f.QuotePolicy().String(),
		DuplicateHeaderMode: f.DuplicateHeaderMode().String(),
	}
	if q, ok := f.Quote(); ok {
		s := string(q)
		y.Quote = &s
	} else {
		empty := ""
		y.Quote = &empty
	}
	if e, ok := f.Escape(); ok {
		s := string(e)
		y.Escape = &s
	}
	if c, ok := f.CommentMarker(); ok {
		s := string(c)
		y.CommentMarker = &s
	}
	if sep, ok := f.RecordSeparator(); ok {
		y.RecordSeparator = &sep
	} else {
		empty := ""
		y.RecordSeparator = &empty
	}
	iss, iel, tde, trim := f.IgnoreSurroundingSpaces(), f.IgnoreEmptyLines(), f.TrailingDelimiterEmitsEmpty(), f.Trim()
	y.IgnoreSurroundingSpaces, y.IgnoreEmptyLines, y.TrailingDelimiterEmitsEmpty, y.Trim = &iss, &iel, &tde, &trim

	if ns, ok := f.NullString(); ok {
		y.NullString = &ns
	}
	if h, ok := f.Header(); ok {
		y.Header = &h
	}
	shr, amcn := f.SkipHeaderRecord(), f.AllowMissingColumnNames()
	y.SkipHeaderRecord, y.AllowMissingColumnNames = &shr, &amcn

	if hc := f.HeaderComments(); len(hc) > 0 {
		y.HeaderComments = hc
	}
	return y, nil
}
