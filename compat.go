package csvcore

import (
	"fmt"
	"io"
)

// Reader is an encoding/csv-compatible Reader built on top of Parser. It
// exists for callers migrating an existing encoding/csv integration onto
// csvcore's richer Format/Record model without a rewrite; new code should
// generally prefer Of/Parser directly.
type Reader struct {
	Comma            rune
	Comment          rune
	FieldsPerRecord  int
	TrimLeadingSpace bool

	r      io.Reader
	parser *Parser
}

// NewReader returns a Reader with encoding/csv's defaults: comma-delimited,
// no comment marker, double-quote encapsulation.
func NewReader(r io.Reader) *Reader {
	return &Reader{Comma: ',', r: r}
}

func (r *Reader) ensureParser() error {
	if r.parser != nil {
		return nil
	}
	if r.Comma == 0 {
		r.Comma = ','
	}
	b := NewFormatBuilder().
		WithDelimiter(r.Comma).
		WithNoHeader().
		WithIgnoreEmptyLines(false)
	if r.Comment != 0 {
		b = b.WithCommentMarker(r.Comment)
	}
	if r.TrimLeadingSpace {
		b = b.WithIgnoreSurroundingSpaces(true)
	}
	format, err := b.Build()
	if err != nil {
		return err
	}
	p, err := Of(r.r, format)
	if err != nil {
		return err
	}
	r.parser = p
	return nil
}

// Read returns the next record's raw field text, or io.EOF.
func (r *Reader) Read() ([]string, error) {
	if err := r.ensureParser(); err != nil {
		return nil, err
	}
	rec, err := r.parser.Next()
	if err != nil {
		return nil, err
	}
	fields := rec.Values()
	if r.FieldsPerRecord > 0 && len(fields) != r.FieldsPerRecord {
		return fields, fmt.Errorf("csvcore: record on line %d has %d fields, want %d", rec.Line(), len(fields), r.FieldsPerRecord)
	}
	if r.FieldsPerRecord == 0 {
		r.FieldsPerRecord = len(fields)
	}
	return fields, nil
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Writer is an encoding/csv-compatible Writer built on top of Printer.
type Writer struct {
	Comma   rune
	UseCRLF bool

	w       io.Writer
	printer *Printer
}

// NewWriter returns a Writer with encoding/csv's defaults: comma-delimited,
// LF record separator, MINIMAL quoting.
func NewWriter(w io.Writer) *Writer {
	return &Writer{Comma: ',', w: w}
}

func (w *Writer) ensurePrinter() error {
	if w.printer != nil {
		return nil
	}
	if w.Comma == 0 {
		w.Comma = ','
	}
	sep := "\n"
	if w.UseCRLF {
		sep = "\r\n"
	}
	format, err := NewFormatBuilder().
		WithDelimiter(w.Comma).
		WithNoHeader().
		WithRecordSeparator(sep).
		Build()
	if err != nil {
		return err
	}
	w.printer = NewPrinter(w.w, format)
	return nil
}

// Write writes one record.
func (w *Writer) Write(record []string) error {
	if err := w.ensurePrinter(); err != nil {
		return err
	}
	return w.printer.printRecord(record)
}

// WriteAll writes every record in records, then flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush is a compatibility no-op: Printer writes directly to w with no
// internal buffering of its own to flush.
func (w *Writer) Flush() error { return nil }
