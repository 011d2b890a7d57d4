package gateway

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"fleet-reconciliation/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantRecords   []domain.InputRecord
		wantMalformed []domain.MalformedLine
	}{
		{
			name: "well-formed lines",
			raw:  "123456, 10\n654321, 20\n987654, 15",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: 10, Line: 1},
				{Identifier: "654321", ExpectedCount: 20, Line: 2},
				{Identifier: "987654", ExpectedCount: 15, Line: 3},
			},
		},
		{
			name: "surrounding whitespace is trimmed",
			raw:  "  123456 ,   10  \r\n\t654321,20\t",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: 10, Line: 1},
				{Identifier: "654321", ExpectedCount: 20, Line: 2},
			},
		},
		{
			name: "blank lines are skipped silently",
			raw:  "\n123456, 10\n\n   \n654321, 20\n",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: 10, Line: 2},
				{Identifier: "654321", ExpectedCount: 20, Line: 5},
			},
		},
		{
			name: "duplicate identifiers are kept",
			raw:  "123456, 10\n123456, 12",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: 10, Line: 1},
				{Identifier: "123456", ExpectedCount: 12, Line: 2},
			},
		},
		{
			name: "non-integer count is reported and the rest still parsed",
			raw:  "abc, notanumber\n123456, 10",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: 10, Line: 2},
			},
			wantMalformed: []domain.MalformedLine{
				{Line: 1, Text: "abc, notanumber", Reason: ReasonCountNotInteger},
			},
		},
		{
			name: "fractional count is not an integer",
			raw:  "123456, 10.5",
			wantMalformed: []domain.MalformedLine{
				{Line: 1, Text: "123456, 10.5", Reason: ReasonCountNotInteger},
			},
		},
		{
			name: "wrong number of parts",
			raw:  "123456\n123456, 10, 3\n654321, 20",
			wantRecords: []domain.InputRecord{
				{Identifier: "654321", ExpectedCount: 20, Line: 3},
			},
			wantMalformed: []domain.MalformedLine{
				{Line: 1, Text: "123456", Reason: ReasonWrongPartCount},
				{Line: 2, Text: "123456, 10, 3", Reason: ReasonWrongPartCount},
			},
		},
		{
			name: "empty identifier",
			raw:  " , 10",
			wantMalformed: []domain.MalformedLine{
				{Line: 1, Text: ", 10", Reason: ReasonEmptyIdentifier},
			},
		},
		{
			name: "negative counts are integers",
			raw:  "123456, -3",
			wantRecords: []domain.InputRecord{
				{Identifier: "123456", ExpectedCount: -3, Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInput(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecords, got.Records)
			assert.Equal(t, tt.wantMalformed, got.Malformed)

			if len(tt.wantMalformed) > 0 {
				var malformed *domain.MalformedInputError
				require.True(t, errors.As(got.Err(), &malformed))
				assert.ErrorIs(t, got.Err(), domain.ErrMalformedInput)
				assert.Equal(t, tt.wantMalformed, malformed.Lines)
			} else {
				assert.NoError(t, got.Err())
			}
		})
	}
}

func TestParseInput_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n", " \t\r\n "} {
		got, err := ParseInput(raw)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		assert.Nil(t, got)
	}
}

func TestParseInput_MalformedErrorNamesLine(t *testing.T) {
	got, err := ParseInput("123456, 10\nabc, notanumber")
	require.NoError(t, err)

	perr := got.Err()
	require.Error(t, perr)
	assert.Contains(t, perr.Error(), "line 2")
	assert.Contains(t, perr.Error(), "abc, notanumber")
	assert.Equal(t, domain.CodeMalformedInput, domain.Code(perr))
}

func TestParseInput_Idempotent(t *testing.T) {
	raw := "  123456 , 10\n\nabc, x\n654321,20\n111, -1\n123456, 10"

	first, err := ParseInput(raw)
	require.NoError(t, err)

	second, err := ParseInput(FormatInput(first.Records))
	require.NoError(t, err)
	assert.Empty(t, second.Malformed)
	assert.Equal(t, pairs(first.Records), pairs(second.Records))

	third, err := ParseInput(FormatInput(second.Records))
	require.NoError(t, err)
	assert.Equal(t, second.Records, third.Records)
}

func TestFormatInput(t *testing.T) {
	records := []domain.InputRecord{
		{Identifier: "123456", ExpectedCount: 10},
		{Identifier: "654321", ExpectedCount: 20},
	}
	assert.Equal(t, "123456, 10\n654321, 20", FormatInput(records))
	assert.Equal(t, "", FormatInput(nil))
}

func TestTextInputParser(t *testing.T) {
	got, err := NewTextInputParser().Parse("123456, 10")
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, got.Identifiers())
}

func pairs(records []domain.InputRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, fmt.Sprintf("%s=%d", r.Identifier, r.ExpectedCount))
	}
	return out
}

func BenchmarkParseInput(b *testing.B) {
	lines := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		lines = append(lines, "123456, 10")
	}
	raw := strings.Join(lines, "\n")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseInput(raw); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
