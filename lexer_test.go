package csvcore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexAll drives a Lexer to exhaustion (including the trailing EOF token)
// and returns every token's (Kind, Content).
func lexAll(t *testing.T, input string, format Format) []Token {
	t.Helper()
	lx := NewLexer(NewCharSource(strings.NewReader(input)), format)
	var out []Token
	for {
		var tkn Token
		require.NoError(t, lx.Next(&tkn))
		out = append(out, tkn)
		if tkn.Kind == EOF {
			return out
		}
		if len(out) > 10000 {
			t.Fatal("lexer produced too many tokens, possible infinite loop")
		}
	}
}

func assertTokens(t *testing.T, toks []Token, want ...Token) {
	t.Helper()
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equalf(t, w.Kind, toks[i].Kind, "token %d kind", i)
		assert.Equalf(t, w.content.String(), toks[i].content.String(), "token %d content", i)
	}
}

func tok(kind TokenKind, content string) Token {
	var t Token
	t.Kind = kind
	t.content.WriteString(content)
	return t
}

func TestLexerScenario1Default(t *testing.T) {
	toks := lexAll(t, "a,b,c\n1,2,3\n", Default)
	assertTokens(t, toks,
		tok(TOKEN, "a"), tok(TOKEN, "b"), tok(EORECORD, "c"),
		tok(TOKEN, "1"), tok(TOKEN, "2"), tok(EORECORD, "3"),
		tok(EOF, ""),
	)
}

func TestLexerScenario2QuotedFieldWithDelimiter(t *testing.T) {
	toks := lexAll(t, "a,\"b,c\",d\n", Default)
	assertTokens(t, toks,
		tok(TOKEN, "a"), tok(TOKEN, "b,c"), tok(EORECORD, "d"),
		tok(EOF, ""),
	)
}

func TestLexerScenario3DoubledQuoteEscaping(t *testing.T) {
	toks := lexAll(t, "a,\"he said \"\"hi\"\"\",b\n", Default)
	assertTokens(t, toks,
		tok(TOKEN, "a"), tok(TOKEN, `he said "hi"`), tok(EORECORD, "b"),
		tok(EOF, ""),
	)
}

func TestLexerScenario4CommentsAndEmptyLines(t *testing.T) {
	format, err := NewFormatBuilder().WithCommentMarker('#').WithIgnoreEmptyLines(true).Build()
	require.NoError(t, err)
	toks := lexAll(t, "# hello\n\na,b\n# mid\n1,2\n", format)
	assertTokens(t, toks,
		tok(COMMENT, "hello"),
		tok(TOKEN, "a"), tok(EORECORD, "b"),
		tok(COMMENT, "mid"),
		tok(TOKEN, "1"), tok(EORECORD, "2"),
		tok(EOF, ""),
	)
}

func TestLexerScenario5CustomDelimiters(t *testing.T) {
	format, err := NewFormatBuilder().
		WithDelimiter(';').
		WithQuote('\'').
		WithCommentMarker('!').
		Build()
	require.NoError(t, err)
	toks := lexAll(t, "a;'b and '' more\n'\n!comment;;;;\n;;", format)
	assertTokens(t, toks,
		tok(TOKEN, "a"), tok(EORECORD, "b and ' more\n"),
		tok(COMMENT, "comment;;;;"),
		tok(TOKEN, ""), tok(TOKEN, ""), tok(EOF, ""),
	)
}

func TestLexerScenario6TDFTrailingField(t *testing.T) {
	toks := lexAll(t, "one\ttwo\t\tfour \t five\t six", TDF)
	assertTokens(t, toks,
		tok(TOKEN, "one"), tok(TOKEN, "two"), tok(TOKEN, ""),
		tok(TOKEN, "four"), tok(TOKEN, "five"), tok(EOF, "six"),
	)
}

func TestLexerScenario7EscapedLiteralCR(t *testing.T) {
	format, err := NewFormatBuilder().WithEscape('\\').Build()
	require.NoError(t, err)
	toks := lexAll(t, "character\\\rEscaped", format)
	assertTokens(t, toks, tok(EOF, "character\rEscaped"))
}

func TestLexerUnterminatedQuote(t *testing.T) {
	lx := NewLexer(NewCharSource(strings.NewReader(`a,"unterminated`)), Default)
	var tkn Token
	require.NoError(t, lx.Next(&tkn)) // "a"
	err := lx.Next(&tkn)
	require.Error(t, err)
	var le *LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LexUnterminatedQuote, le.Kind)
}

func TestLexerBadCharAfterQuote(t *testing.T) {
	lx := NewLexer(NewCharSource(strings.NewReader(`"a"b,c`)), Default)
	var tkn Token
	err := lx.Next(&tkn)
	require.Error(t, err)
	var le *LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LexBadCharAfterQuote, le.Kind)
}

func TestLexerUnterminatedEscape(t *testing.T) {
	format, err := NewFormatBuilder().WithEscape('\\').Build()
	require.NoError(t, err)
	lx := NewLexer(NewCharSource(strings.NewReader(`abc\`)), format)
	var tkn Token
	err = lx.Next(&tkn) // "abc" accumulates, then backslash starts ESC_PLAIN, then END
	require.Error(t, err)
	var le *LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LexUnterminatedEscape, le.Kind)
}
