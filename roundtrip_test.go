package csvcore

import (
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseAll runs a full Parser pass over s and returns every field row.
func parseAll(t *testing.T, s string, format Format) [][]string {
	t.Helper()
	p, err := OfString(s, format)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	out := make([][]string, len(recs))
	for i, r := range recs {
		out[i] = r.Values()
	}
	return out
}

// printAll renders rows with a Printer over format and returns the text.
func printAll(t *testing.T, rows [][]string, format Format) string {
	t.Helper()
	var b strings.Builder
	p := NewPrinter(&b, format)
	for _, row := range rows {
		require.NoError(t, p.printRecord(row))
	}
	return b.String()
}

func TestRoundTripAcrossFormats(t *testing.T) {
	rows := [][]string{
		{"plain", "fields", "here"},
		{"has,comma", `has "quote"`, "has\nnewline"},
		{"", "", ""},
	}

	for name, format := range map[string]Format{
		"DEFAULT": Default,
		"RFC4180": RFC4180,
		"EXCEL":   Excel,
	} {
		t.Run(name, func(t *testing.T) {
			text := printAll(t, rows, format)
			got := parseAll(t, text, format)
			if diff := cmp.Diff(rows, got); diff != "" {
				t.Fatalf("round-trip mismatch for %s (-want +got):\n%s\nwant=%s\ngot=%s",
					name, diff, repr.String(rows), repr.String(got))
			}
		})
	}
}

func TestRoundTripTDF(t *testing.T) {
	rows := [][]string{{"a", "b", "c"}, {"x", "y", "z"}}
	text := printAll(t, rows, TDF)
	got := parseAll(t, text, TDF)
	assert.Equal(t, rows, got)
}

func TestFormatBuilderCopyIdempotentAcrossPredefined(t *testing.T) {
	for _, f := range []Format{Default, RFC4180, Excel, TDF, MySQL} {
		copyF, err := f.Builder().Build()
		require.NoError(t, err)
		assert.True(t, f.Equal(copyF))
	}
}

func TestRecordNumberStrictlyIncreasing(t *testing.T) {
	p, err := OfString("1\n2\n3\n", Default)
	require.NoError(t, err)
	recs, err := p.ReadAll()
	require.NoError(t, err)
	var last uint64
	for _, r := range recs {
		assert.Greater(t, r.RecordNumber(), last)
		last = r.RecordNumber()
	}
	assert.Equal(t, uint64(1), recs[0].RecordNumber())
}

func TestDuplicateHeaderPolicyMatrixAgreesBetweenFormatAndParser(t *testing.T) {
	tests := []struct {
		name         string
		header       []string
		allowMissing bool
		mode         DuplicateHeaderMode
		wantBuildErr bool
	}{
		{"unique", []string{"a", "b"}, false, DuplicateDisallow, false},
		{"dup disallow", []string{"a", "a"}, false, DuplicateDisallow, true},
		{"dup allow all", []string{"a", "a"}, false, DuplicateAllowAll, false},
		{"dup allow empty rejects non-empty", []string{"a", "a"}, false, DuplicateAllowEmpty, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, buildErr := NewFormatBuilder().
				WithHeader(tt.header...).
				WithAllowMissingColumnNames(tt.allowMissing).
				WithDuplicateHeaderMode(tt.mode).
				Build()
			if tt.wantBuildErr {
				assert.Error(t, buildErr)
				return
			}
			require.NoError(t, buildErr)

			format, err := NewFormatBuilder().
				WithHeaderFromFirstRecord().
				WithAllowMissingColumnNames(tt.allowMissing).
				WithDuplicateHeaderMode(tt.mode).
				Build()
			require.NoError(t, err)
			_, err = OfString(strings.Join(tt.header, ",")+"\n1,2\n", format)
			assert.NoError(t, err)
		})
	}
}
