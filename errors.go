package csvcore

import (
	"fmt"

	"github.com/google/uuid"
)

// IOError wraps a failure from the underlying character source, tagging it
// with the session (Parser or Printer) correlation id that observed it.
type IOError struct {
	Session uuid.UUID
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("csvcore[%s]: io error: %v", e.Session, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports an invalid Format at build time.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("csvcore: invalid format: %s", e.Reason)
}

// LexErrorKind classifies a lexing failure.
type LexErrorKind int

const (
	// LexUnterminatedQuote is raised when END is reached inside INQUOTE.
	LexUnterminatedQuote LexErrorKind = iota
	// LexBadCharAfterQuote is raised for an invalid character after a closing quote.
	LexBadCharAfterQuote
	// LexUnterminatedEscape is raised when END is reached inside an escape sequence.
	LexUnterminatedEscape
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnterminatedQuote:
		return "unterminated quote"
	case LexBadCharAfterQuote:
		return "invalid char after quote"
	case LexUnterminatedEscape:
		return "unterminated escape"
	default:
		return "unknown lex error"
	}
}

// LexError reports a failure in the tokenizer state machine.
type LexError struct {
	Kind LexErrorKind
	// Line is the line number on which the offending token began.
	Line uint64
	// Char is the offending character, or -1 if not applicable (e.g. EOF).
	Char rune
}

func (e *LexError) Error() string {
	if e.Char == END_OF_STREAM {
		return fmt.Sprintf("csvcore: %s at line %d: unexpected end of stream", e.Kind, e.Line)
	}
	return fmt.Sprintf("csvcore: %s at line %d: unexpected char %q", e.Kind, e.Line, e.Char)
}

// HeaderErrorKind classifies a header-resolution failure.
type HeaderErrorKind int

const (
	// HeaderMissingColumn reports a null or empty column name where names are required.
	HeaderMissingColumn HeaderErrorKind = iota
	// HeaderDuplicateColumn reports a column name collision disallowed by the duplicate-header mode.
	HeaderDuplicateColumn
)

func (k HeaderErrorKind) String() string {
	switch k {
	case HeaderMissingColumn:
		return "missing column name"
	case HeaderDuplicateColumn:
		return "duplicate column name"
	default:
		return "unknown header error"
	}
}

// HeaderError reports a failure resolving the header row.
type HeaderError struct {
	Kind HeaderErrorKind
	// Name is the conflicting column name, if applicable.
	Name string
	// Index is the column index at which the problem was observed.
	Index int
}

func (e *HeaderError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("csvcore: %s at column %d", e.Kind, e.Index)
	}
	return fmt.Sprintf("csvcore: %s %q at column %d", e.Kind, e.Name, e.Index)
}

// FieldErrorKind classifies a field-lookup failure.
type FieldErrorKind int

const (
	// FieldUnknownName reports that the header has no such column name.
	FieldUnknownName FieldErrorKind = iota
	// FieldMissingIndex reports that this record is shorter than the column's index.
	FieldMissingIndex
)

func (k FieldErrorKind) String() string {
	switch k {
	case FieldUnknownName:
		return "unknown field name"
	case FieldMissingIndex:
		return "missing field index"
	default:
		return "unknown field error"
	}
}

// FieldError reports a failure looking up a Record field by name or index.
type FieldError struct {
	Kind  FieldErrorKind
	Name  string
	Index int
}

func (e *FieldError) Error() string {
	if e.Kind == FieldUnknownName {
		return fmt.Sprintf("csvcore: %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("csvcore: %s: index %d", e.Kind, e.Index)
}
