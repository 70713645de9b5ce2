package csvcore

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/raceordie690/csvcore/internal/csvlog"
)

// Parser drives a Lexer, assembles Records, resolves header semantics once
// at construction, and exposes a finite, single-pass, pull-based sequence
// of Records via Next.
//
// A Parser is not safe for concurrent use (§5): it owns mutable tokenizer
// state. Two Parsers over two independent sources need no coordination.
type Parser struct {
	src    *CharSource
	lex    *Lexer
	format Format

	sessionID uuid.UUID
	log       interface {
		Debugf(format string, args ...interface{})
		Warnf(format string, args ...interface{})
	}

	closer io.Closer

	hdr *header

	recordNumber      uint64
	terminated        bool
	err               error
	pendingComment    string
	hasPendingComment bool
}

// Of returns a Parser reading r according to format. Byte-position
// tracking on Records is disabled; use OfTrackingBytes to enable it.
func Of(r io.Reader, format Format) (*Parser, error) {
	return newParser(NewCharSource(r), format, nil)
}

// OfTrackingBytes is Of, but additionally tracks byte offsets (assumes a
// UTF-8 source; see NewCharSourceTrackingBytes).
func OfTrackingBytes(r io.Reader, format Format) (*Parser, error) {
	return newParser(NewCharSourceTrackingBytes(r), format, nil)
}

// OfString returns a Parser reading s according to format.
func OfString(s string, format Format) (*Parser, error) {
	return newParser(NewCharSource(strings.NewReader(s)), format, nil)
}

// OfPath opens path and returns a Parser reading it according to format.
// Encoding conversion and BOM stripping are out of scope (spec.md §1): the
// file is assumed to already be UTF-8. Closing the Parser closes the file.
func OfPath(path string, format Format) (*Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	p, err := newParser(NewCharSource(f), format, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

func newParser(src *CharSource, format Format, closer io.Closer) (*Parser, error) {
	id := uuid.New()
	p := &Parser{
		src:       src,
		lex:       NewLexer(src, format),
		format:    format,
		sessionID: id,
		log:       csvlog.For("parser", id.String()),
		closer:    closer,
	}
	if err := p.resolveHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// SessionID returns this Parser's correlation id, also attached to its log
// lines and wrapped errors.
func (p *Parser) SessionID() uuid.UUID { return p.sessionID }

// Header returns the resolved header names and whether a header is bound
// to this Parser's Records at all.
func (p *Parser) Header() ([]string, bool) {
	if p.hdr == nil {
		return nil, false
	}
	out := make([]string, len(p.hdr.names))
	copy(out, p.hdr.names)
	return out, true
}

// Line returns the CharSource's current 1-based line number, live, even
// mid-record. Mirrors fastcsv.Reader.Position() in the retrieval pack.
func (p *Parser) Line() uint64 { return p.src.Line() }

// BytePosition returns the CharSource's current byte offset, or -1 if byte
// tracking was not enabled. Mirrors fastcsv.Reader.BytesRead().
func (p *Parser) BytePosition() int64 { return p.src.ByteOffset() }

// Close releases the underlying source, if the Parser owns it (OfPath).
// Safe to call on a partially consumed stream (§5): it does not read to
// EOF first.
func (p *Parser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *Parser) fail(err error) {
	p.err = &IOError{Session: p.sessionID, Err: err}
	if _, ok := err.(*LexError); ok {
		p.err = err // lex/header errors are already descriptive; don't double-wrap
	}
	if _, ok := err.(*HeaderError); ok {
		p.err = err
	}
	p.terminated = true
	p.log.Warnf("parser terminated: %v", p.err)
}

func (p *Parser) appendComment(s string) {
	if p.hasPendingComment {
		p.pendingComment += "\n" + s
	} else {
		p.pendingComment = s
		p.hasPendingComment = true
	}
}

// finalizeFields applies the §9 trailing-delimiter-empty resolution: when
// disabled, an empty last field of a record with more than one field is
// dropped. An empty quoted last field ("") is dropped the same way, since
// the field text alone does not show how it was written.
func finalizeFields(fields []string, emitEmpty bool) []string {
	if !emitEmpty && len(fields) > 1 && fields[len(fields)-1] == "" {
		return fields[:len(fields)-1]
	}
	return fields
}

// readRawFields drives the Lexer through exactly one record's worth of
// Tokens, accumulating COMMENT text into the pending-comment buffer along
// the way. It returns io.EOF only when there is truly no more data (no
// fields pending and no trailing unterminated content).
func (p *Parser) readRawFields() ([]string, error) {
	var fields []string
	var tkn Token
	for {
		tkn.Reset()
		if err := p.lex.Next(&tkn); err != nil {
			return nil, err
		}
		switch tkn.Kind {
		case TOKEN:
			fields = append(fields, tkn.Content())
		case EORECORD:
			fields = append(fields, tkn.Content())
			if p.format.IgnoreEmptyLines() && len(fields) == 1 && fields[0] == "" {
				fields = nil
				continue
			}
			return fields, nil
		case COMMENT:
			p.appendComment(tkn.Content())
			continue
		case EOF:
			if len(fields) > 0 || tkn.Content() != "" {
				fields = append(fields, tkn.Content())
				return fields, nil
			}
			return nil, io.EOF
		}
	}
}

// buildHeaderIndex applies §4.2's missing/duplicate-name rules to a
// resolved header name list, returning a name->index map or a HeaderError.
func buildHeaderIndex(names []string, allowMissing bool, mode DuplicateHeaderMode) (map[string]int, error) {
	firstEmpty := -1
	missing := 0
	for i, n := range names {
		if n == "" {
			missing++
			if firstEmpty == -1 {
				firstEmpty = i
			}
		}
	}
	if missing > 0 && !allowMissing {
		return nil, &HeaderError{Kind: HeaderMissingColumn, Index: firstEmpty}
	}

	idx := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		if _, exists := idx[n]; exists {
			switch mode {
			case DuplicateAllowAll:
				continue
			default:
				return nil, &HeaderError{Kind: HeaderDuplicateColumn, Name: n, Index: i}
			}
		}
		idx[n] = i
	}
	return idx, nil
}

// resolveHeader runs once at construction time, per §4.2: it may itself
// consume (or discard) the stream's first record.
func (p *Parser) resolveHeader() error {
	names, ok := p.format.Header()
	if !ok {
		return nil
	}

	if len(names) == 0 {
		fields, err := p.readRawFields()
		switch {
		case err == io.EOF:
			names = []string{}
		case err != nil:
			p.fail(err)
			return err
		default:
			names = finalizeFields(fields, p.format.TrailingDelimiterEmitsEmpty())
		}
	} else if p.format.SkipHeaderRecord() {
		if _, err := p.readRawFields(); err != nil && err != io.EOF {
			p.fail(err)
			return err
		}
	}

	idx, err := buildHeaderIndex(names, p.format.AllowMissingColumnNames(), p.format.DuplicateHeaderMode())
	if err != nil {
		p.fail(err)
		return err
	}
	p.hdr = &header{index: idx, names: names}
	p.log.Debugf("header resolved: %v", names)
	return nil
}

func (p *Parser) buildRecord(fields []string, line uint64, charPos, bytePos int64) Record {
	nullStr, hasNull := p.format.NullString()
	values := make([]Value, len(fields))
	for i, f := range fields {
		if p.format.Trim() {
			f = strings.TrimSpace(f)
		}
		v := Value{Text: f}
		if hasNull && f == nullStr {
			v.Null = true
		}
		values[i] = v
	}
	comment, hasComment := p.pendingComment, p.hasPendingComment
	p.pendingComment, p.hasPendingComment = "", false
	return Record{
		values:       values,
		hdr:          p.hdr,
		line:         line,
		charPos:      charPos,
		bytePos:      bytePos,
		comment:      comment,
		hasComment:   hasComment,
	}
}

// Next advances the Parser and returns the next Record, or io.EOF once the
// stream is exhausted. After any error (including io.EOF), the Parser is
// terminated: subsequent calls to Next continue to return io.EOF.
func (p *Parser) Next() (Record, error) {
	if p.terminated {
		return Record{}, io.EOF
	}

	line := p.src.Line()
	charPos := p.src.CharOffset()
	bytePos := p.src.ByteOffset()

	fields, err := p.readRawFields()
	if err != nil {
		if err == io.EOF {
			p.terminated = true
			return Record{}, io.EOF
		}
		p.fail(err)
		return Record{}, p.err
	}

	fields = finalizeFields(fields, p.format.TrailingDelimiterEmitsEmpty())
	rec := p.buildRecord(fields, line, charPos, bytePos)
	p.recordNumber++
	rec.recordNumber = p.recordNumber
	return rec, nil
}

// ReadAll drains the Parser and returns every remaining Record. A
// successful call returns err == nil, not err == io.EOF (mirrors the
// teacher's ReadAll / encoding/csv.Reader.ReadAll convention).
func (p *Parser) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
