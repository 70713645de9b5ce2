package csvcore

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserScenario1Default(t *testing.T) {
	p, err := OfString("a,b,c\n1,2,3\n", Default)
	require.NoError(t, err)

	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"a", "b", "c"}, recs[0].Values())
	assert.Equal(t, uint64(1), recs[0].RecordNumber())
	assert.Equal(t, []string{"1", "2", "3"}, recs[1].Values())
	assert.Equal(t, uint64(2), recs[1].RecordNumber())
	_, hasComment := recs[0].Comment()
	assert.False(t, hasComment)
}

func TestParserHeaderFromFirstRecord(t *testing.T) {
	format, err := NewFormatBuilder().WithHeaderFromFirstRecord().Build()
	require.NoError(t, err)

	p, err := OfString("name,age\nAlice,30\nBob,40\n", format)
	require.NoError(t, err)

	names, ok := p.Header()
	require.True(t, ok)
	assert.Equal(t, []string{"name", "age"}, names)

	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].RecordNumber()) // header does not count
	v, err := recs[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v.Text)
}

func TestParserExplicitHeaderWithSkip(t *testing.T) {
	format, err := NewFormatBuilder().
		WithHeader("name", "age").
		WithSkipHeaderRecord(true).
		Build()
	require.NoError(t, err)

	p, err := OfString("ignored,row\nAlice,30\n", format)
	require.NoError(t, err)

	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	v, err := recs[0].Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v.Text)
}

func TestParserTrailingDelimiterEmitsEmptyDefaultTrue(t *testing.T) {
	p, err := OfString("a,b,\n", Default)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"a", "b", ""}, recs[0].Values())
}

func TestParserTrailingDelimiterEmitsEmptyFalse(t *testing.T) {
	format, err := NewFormatBuilder().WithTrailingDelimiterEmitsEmpty(false).Build()
	require.NoError(t, err)
	p, err := OfString("a,b,\n", format)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"a", "b"}, recs[0].Values())
}

func TestParserCommentsAccumulateOntoNextRecord(t *testing.T) {
	format, err := NewFormatBuilder().WithCommentMarker('#').WithIgnoreEmptyLines(true).Build()
	require.NoError(t, err)
	p, err := OfString("# hello\n\na,b\n# mid\n1,2\n", format)
	require.NoError(t, err)

	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	c, ok := recs[0].Comment()
	require.True(t, ok)
	assert.Equal(t, "hello", c)

	c, ok = recs[1].Comment()
	require.True(t, ok)
	assert.Equal(t, "mid", c)
}

func TestParserNullSentinel(t *testing.T) {
	format, err := NewFormatBuilder().WithDelimiter('\t').WithNullString(`\N`).Build()
	require.NoError(t, err)
	p, err := OfString("a\t\\N\tc\n", format)
	require.NoError(t, err)

	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	v, err := recs[0].At(1)
	require.NoError(t, err)
	assert.True(t, v.Null)
}

func TestParserRecordNumberMonotonicity(t *testing.T) {
	p, err := OfString("1\n2\n3\n4\n", Default)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i, rec := range recs {
		assert.Equal(t, uint64(i+1), rec.RecordNumber())
	}
}

func TestParserLineMonotonicity(t *testing.T) {
	p, err := OfString("a\nb\nc\n", Default)
	require.NoError(t, err)
	var last uint64
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.Line(), last)
		last = rec.Line()
	}
}

func TestBuilderRejectsMissingHeaderColumn(t *testing.T) {
	_, err := NewFormatBuilder().WithHeader("a", "").Build()
	require.Error(t, err)
}

func TestParserHeaderDuplicateFromStreamError(t *testing.T) {
	format, err := NewFormatBuilder().WithHeaderFromFirstRecord().Build()
	require.NoError(t, err)
	_, err = OfString("a,a\n1,2\n", format)
	require.Error(t, err)
	var he *HeaderError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, HeaderDuplicateColumn, he.Kind)
}

func TestParserUnterminatedQuoteTerminatesParser(t *testing.T) {
	p, err := OfString(`a,"unterminated`, Default)
	require.NoError(t, err)

	_, err = p.Next() // "a"
	require.NoError(t, err)

	_, err = p.Next()
	require.Error(t, err)
	var le *LexError
	require.ErrorAs(t, err, &le)

	_, err = p.Next() // parser stays terminated after the lex error
	require.Error(t, err)
}

func TestParserReadAllOnEmptyStream(t *testing.T) {
	p, err := OfString("", Default)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParserByteTracking(t *testing.T) {
	p, err := OfTrackingBytes(strings.NewReader("a,b\ncc,dd\n"), Default)
	require.NoError(t, err)

	first, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.BytePosition())

	second, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(4), second.BytePosition())
}
