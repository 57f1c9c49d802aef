package utils

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate(" 2025-06-13 ")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 13}, date)
	assert.Equal(t, "2025-06-13", FormatDate(date))

	for _, input := range []string{"", "13/06/2025", "2025-02-30", "2025-6-1"} {
		_, err := ParseDate(input)
		assert.True(t, errors.Is(err, ErrInvalidDate), "input %q", input)
	}
}

func TestToday_UsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 6, 14, 2, 0, 0, 0, tokyo)

	assert.Equal(t, civil.Date{Year: 2025, Month: 6, Day: 13}, Today(now))
}

func TestDateRange(t *testing.T) {
	start := civil.Date{Year: 2025, Month: 2, Day: 27}

	dates, err := DateRange(start, civil.Date{Year: 2025, Month: 3, Day: 2}, 31)
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{
		{Year: 2025, Month: 2, Day: 27},
		{Year: 2025, Month: 2, Day: 28},
		{Year: 2025, Month: 3, Day: 1},
		{Year: 2025, Month: 3, Day: 2},
	}, dates)

	single, err := DateRange(start, start, 1)
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = DateRange(start, civil.Date{Year: 2025, Month: 2, Day: 26}, 31)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))

	_, err = DateRange(start, start.AddDays(31), 31)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}
