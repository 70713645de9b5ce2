package csvcore

import "unicode"

type lexState int

const (
	stateBegin lexState = iota
	statePlain
	stateInQuote
	stateAfterQuote
	stateEscPlain
	stateEscQuote
)

type charClass int

const (
	classDelim charClass = iota
	classQuote
	classEscape
	classComment
	classEOL
	classWhitespace
	classOther
	classEnd
)

// Lexer is a switch-based state machine that turns a CharSource into a
// stream of Tokens according to a Format. It holds no token buffering of
// its own beyond the caller-supplied Token; callers drive it one token at
// a time via Next.
type Lexer struct {
	src    *CharSource
	format Format

	// atRecordStart is true only while the Lexer is still deciding the
	// first field of a record (so the comment-marker and empty-line
	// rules, which apply only at true record start, can be told apart
	// from the same BEGIN state reached after an ordinary delimiter).
	atRecordStart bool
}

// NewLexer returns a Lexer reading src according to format.
func NewLexer(src *CharSource, format Format) *Lexer {
	return &Lexer{src: src, format: format, atRecordStart: true}
}

func (lx *Lexer) classify(r rune) charClass {
	if r == END_OF_STREAM {
		return classEnd
	}
	if r == '\r' || r == '\n' {
		return classEOL
	}
	if q, ok := lx.format.Quote(); ok && r == q {
		return classQuote
	}
	if e, ok := lx.format.Escape(); ok && r == e {
		return classEscape
	}
	if c, ok := lx.format.CommentMarker(); ok && r == c {
		return classComment
	}
	if r == lx.format.Delimiter() {
		return classDelim
	}
	if unicode.IsSpace(r) {
		return classWhitespace
	}
	return classOther
}

// consumeEOL swallows the second half of a \r\n pair immediately following
// r, so a logical record/line terminator is consumed exactly once
// regardless of whether it's one or two characters wide.
func (lx *Lexer) consumeEOL(r rune) error {
	if r != '\r' {
		return nil
	}
	la, err := lx.src.LookAhead()
	if err != nil {
		return err
	}
	if la == '\n' {
		if _, err := lx.src.Read(); err != nil {
			return err
		}
	}
	return nil
}

// skipEmptyLines implements §4.3's empty-line suppression: it only ever
// runs at true record start, and only when IgnoreEmptyLines is set. It
// consumes whole blank lines (but never a line that is merely
// whitespace-only, which is a real one-field record, not an empty line).
func (lx *Lexer) skipEmptyLines(tkn *Token) (done bool, err error) {
	if !lx.atRecordStart || !lx.format.IgnoreEmptyLines() {
		return false, nil
	}
	for {
		la, err := lx.src.LookAhead()
		if err != nil {
			return false, err
		}
		if la == END_OF_STREAM {
			tkn.Kind = EOF
			tkn.Ready = true
			return true, nil
		}
		if la != '\r' && la != '\n' {
			return false, nil
		}
		r, err := lx.src.Read()
		if err != nil {
			return false, err
		}
		if err := lx.consumeEOL(r); err != nil {
			return false, err
		}
	}
}

// readCommentBody consumes the rest of the current physical line
// (excluding its terminator, which is consumed but not stored) into tkn.
// Exactly one space immediately following the comment marker is skipped,
// matching common "# text" comment conventions.
func (lx *Lexer) readCommentBody(tkn *Token) error {
	la, err := lx.src.LookAhead()
	if err != nil {
		return err
	}
	if la == ' ' {
		if _, err := lx.src.Read(); err != nil {
			return err
		}
	}
	for {
		la, err := lx.src.LookAhead()
		if err != nil {
			return err
		}
		if la == END_OF_STREAM {
			return nil
		}
		if la == '\r' || la == '\n' {
			r, err := lx.src.Read()
			if err != nil {
				return err
			}
			return lx.consumeEOL(r)
		}
		r, err := lx.src.Read()
		if err != nil {
			return err
		}
		tkn.append(r)
	}
}

// Next fills tkn with the next Token from the stream. tkn must have been
// Reset by the caller (or be freshly zero-valued) before each call.
func (lx *Lexer) Next(tkn *Token) error {
	if done, err := lx.skipEmptyLines(tkn); err != nil || done {
		return err
	}

	state := stateBegin
	trimTrailing := false
	var quoteStartLine uint64

	for {
		r, err := lx.src.Read()
		if err != nil {
			return err
		}
		class := lx.classify(r)

		switch state {
		case stateBegin:
			switch {
			case class == classComment && lx.atRecordStart:
				if err := lx.readCommentBody(tkn); err != nil {
					return err
				}
				tkn.Kind = COMMENT
				tkn.Ready = true
				return nil
			case class == classQuote:
				quoteStartLine = lx.src.Line()
				state = stateInQuote
				lx.atRecordStart = false
			case class == classDelim:
				tkn.Kind = TOKEN
				tkn.Ready = true
				lx.atRecordStart = false
				return nil
			case class == classEOL:
				if err := lx.consumeEOL(r); err != nil {
					return err
				}
				tkn.Kind = EORECORD
				tkn.Ready = true
				lx.atRecordStart = true
				return nil
			case class == classEnd:
				tkn.Kind = EOF
				tkn.Ready = true
				return nil
			case class == classEscape:
				state = stateEscPlain
				lx.atRecordStart = false
			case class == classWhitespace:
				if lx.format.IgnoreSurroundingSpaces() {
					continue
				}
				tkn.append(r)
				state = statePlain
				lx.atRecordStart = false
			default:
				tkn.append(r)
				state = statePlain
				lx.atRecordStart = false
			}

		case statePlain:
			switch class {
			case classDelim:
				if trimTrailing {
					tkn.trimTrailingSpace()
				}
				tkn.Kind = TOKEN
				tkn.Ready = true
				return nil
			case classEOL:
				if err := lx.consumeEOL(r); err != nil {
					return err
				}
				if trimTrailing {
					tkn.trimTrailingSpace()
				}
				tkn.Kind = EORECORD
				tkn.Ready = true
				lx.atRecordStart = true
				return nil
			case classEnd:
				if trimTrailing {
					tkn.trimTrailingSpace()
				}
				tkn.Kind = EOF
				tkn.Ready = true
				return nil
			case classEscape:
				state = stateEscPlain
			default:
				tkn.append(r)
				if lx.format.IgnoreSurroundingSpaces() {
					trimTrailing = true
				}
			}

		case stateInQuote:
			switch class {
			case classQuote:
				state = stateAfterQuote
			case classEscape:
				state = stateEscQuote
			case classEnd:
				return &LexError{Kind: LexUnterminatedQuote, Line: quoteStartLine, Char: END_OF_STREAM}
			default:
				tkn.append(r)
			}

		case stateAfterQuote:
			switch class {
			case classDelim:
				tkn.Kind = TOKEN
				tkn.Ready = true
				lx.atRecordStart = false
				return nil
			case classEOL:
				if err := lx.consumeEOL(r); err != nil {
					return err
				}
				tkn.Kind = EORECORD
				tkn.Ready = true
				lx.atRecordStart = true
				return nil
			case classEnd:
				tkn.Kind = EOF
				tkn.Ready = true
				return nil
			case classQuote:
				q, _ := lx.format.Quote()
				tkn.append(q)
				state = stateInQuote
			case classWhitespace:
				if lx.format.IgnoreSurroundingSpaces() {
					continue
				}
				return &LexError{Kind: LexBadCharAfterQuote, Line: lx.src.Line(), Char: r}
			default:
				return &LexError{Kind: LexBadCharAfterQuote, Line: lx.src.Line(), Char: r}
			}

		case stateEscPlain:
			switch class {
			case classEnd:
				return &LexError{Kind: LexUnterminatedEscape, Line: lx.src.Line(), Char: END_OF_STREAM}
			case classDelim, classEscape, classEOL:
				tkn.append(r)
				state = statePlain
			default:
				e, _ := lx.format.Escape()
				tkn.append(e)
				tkn.append(r)
				state = statePlain
			}

		case stateEscQuote:
			switch class {
			case classEnd:
				return &LexError{Kind: LexUnterminatedEscape, Line: lx.src.Line(), Char: END_OF_STREAM}
			case classQuote, classEscape:
				tkn.append(r)
				state = stateInQuote
			default:
				e, _ := lx.format.Escape()
				tkn.append(e)
				tkn.append(r)
				state = stateInQuote
			}
		}
	}
}
