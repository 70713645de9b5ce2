package csvcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(t *testing.T, names []string, values []string) Record {
	t.Helper()
	hdr := &header{index: map[string]int{}, names: names}
	for i, n := range names {
		if n != "" {
			hdr.index[n] = i
		}
	}
	vs := make([]Value, len(values))
	for i, v := range values {
		vs[i] = Value{Text: v}
	}
	return Record{values: vs, hdr: hdr, recordNumber: 1, line: 1}
}

func TestRecordAtAndGet(t *testing.T) {
	rec := makeRecord(t, []string{"a", "b"}, []string{"1", "2"})

	v, err := rec.At(0)
	require.NoError(t, err)
	assert.Equal(t, "1", v.Text)

	_, err = rec.At(5)
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldMissingIndex, fe.Kind)

	v, err = rec.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v.Text)

	_, err = rec.Get("nope")
	require.Error(t, err)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldUnknownName, fe.Kind)
}

func TestRecordGetWithoutHeader(t *testing.T) {
	rec := Record{values: []Value{{Text: "x"}}}
	_, err := rec.Get("anything")
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldUnknownName, fe.Kind)
}

func TestRecordIsConsistentAndShortRecord(t *testing.T) {
	hdr := &header{index: map[string]int{"a": 0, "b": 1, "c": 2}, names: []string{"a", "b", "c"}}
	short := Record{values: []Value{{Text: "1"}, {Text: "2"}}, hdr: hdr}
	assert.False(t, short.IsConsistent())

	_, err := short.Get("c")
	require.Error(t, err)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldMissingIndex, fe.Kind)
}

func TestRecordToMapAndIsMapped(t *testing.T) {
	rec := makeRecord(t, []string{"a", "b"}, []string{"1", "2"})
	assert.True(t, rec.IsMapped("a"))
	assert.False(t, rec.IsMapped("z"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, rec.ToMap())
}

func TestRecordValuesReturnsRawNullSentinel(t *testing.T) {
	rec := Record{values: []Value{{Text: `\N`, Null: true}, {Text: "x"}}}
	assert.Equal(t, []string{`\N`, "x"}, rec.Values())
	v, _ := rec.At(0)
	assert.True(t, v.Null)
	assert.Equal(t, "", v.String())
}

func TestRecordEqual(t *testing.T) {
	a := makeRecord(t, nil, []string{"1", "2"})
	b := makeRecord(t, nil, []string{"1", "2"})
	c := makeRecord(t, nil, []string{"1", "3"})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestRecordComment(t *testing.T) {
	rec := Record{comment: "hello", hasComment: true}
	c, ok := rec.Comment()
	assert.True(t, ok)
	assert.Equal(t, "hello", c)

	rec2 := Record{}
	_, ok = rec2.Comment()
	assert.False(t, ok)
}
