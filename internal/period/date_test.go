package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_RejectsNormalisedDates(t *testing.T) {
	_, err := NewDate(2023, time.February, 29)
	assert.Error(t, err)

	_, err = NewDate(2024, time.June, 31)
	assert.Error(t, err)

	d, err := NewDate(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestLastOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  string
	}{
		{2021, time.January, "2021-01-31"},
		{2021, time.February, "2021-02-28"},
		{2020, time.February, "2020-02-29"},
		{1900, time.February, "1900-02-28"},
		{2000, time.February, "2000-02-29"},
		{2019, time.June, "2019-06-30"},
		{2022, time.December, "2022-12-31"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastOfMonth(tt.year, tt.month).String())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-29", d.String())

	d, err = ParseDate("Jan 29, 2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-29", d.String())

	_, err = ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("yesterday-ish")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2021-08-31"))
	assert.Equal(t, "2021-08-31", d.String())

	require.NoError(t, d.Scan([]byte("2020-02-29T00:00:00Z")))
	assert.Equal(t, "2020-02-29", d.String())

	require.NoError(t, d.Scan(time.Date(2019, time.June, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2019-06-30", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := MustParseDate("2022-01-01").Value()
	require.NoError(t, err)
	assert.Equal(t, "2022-01-01", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
