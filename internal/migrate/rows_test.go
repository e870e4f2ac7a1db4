package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-consolidator/internal/database"
)

func TestStr_FirstNonBlankAliasWins(t *testing.T) {
	row := database.Row{"title": "  ", "position": nil, "job_title": " Data Scientist ", "role": "ignored"}
	assert.Equal(t, "Data Scientist", str(row, titleCols...))
	assert.Equal(t, "", str(row, "missing"))
	assert.Equal(t, "fallback", strOr(row, "fallback", "missing"))
	assert.Nil(t, strPtr(row, "title"))
}

func TestText_Types(t *testing.T) {
	assert.Equal(t, "42", text(int64(42)))
	assert.Equal(t, "1.5", text(1.5))
	assert.Equal(t, "raw", text([]byte("raw")))
	assert.Equal(t, "2024-01-15 08:00:00", text(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)))
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"120000":   120000,
		"$120,000": 120000,
		"150k":     150000,
		"1_000":    1000,
		" 7.5 ":    7.5,
	}
	for in, want := range cases {
		got, err := parseNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseNumber("competitive")
	assert.Error(t, err)
}

func TestIntPtr_RoundsAndSkipsNull(t *testing.T) {
	v, err := intPtr(database.Row{"salary_min": 99999.6}, salaryMinCols...)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.EqualValues(t, 100000, *v)

	v, err = intPtr(database.Row{"salary_min": nil}, salaryMinCols...)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBoolVal(t *testing.T) {
	for _, in := range []any{int64(1), "yes", "TRUE", "t"} {
		assert.True(t, boolVal(database.Row{"contacted": in}, "contacted"), in)
	}
	for _, in := range []any{int64(0), "no", "", nil} {
		assert.False(t, boolVal(database.Row{"contacted": in}, "contacted"), in)
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-01-15 00:00:00", normalizeDate("2024-01-15"))
	assert.Equal(t, "2024-01-15 13:45:00", normalizeDate("2024-01-15T13:45:00Z"))
	assert.Equal(t, "2024-03-02 00:00:00", normalizeDate("March 2, 2024"))
	assert.Equal(t, "someday", normalizeDate("someday"))
	assert.Equal(t, "", normalizeDate(""))
	assert.Equal(t, "2024-01-15", dayOf(normalizeDate("2024-01-15 23:59:00")))
}

func TestEmailDirection(t *testing.T) {
	assert.Equal(t, directionSent, emailDirection("Outbound"))
	assert.Equal(t, directionReceived, emailDirection(""))
	assert.Equal(t, directionReceived, emailDirection("inbox"))
}
