package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}

	// 23:30 in LA is already the next day in UTC, the calendar day must
	// be taken from the local reading
	late := time.Date(2024, time.January, 5, 23, 30, 0, 0, loc)
	require.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), Date(late))
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-01-05")
	require.Nil(t, err)
	require.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("01/05/2024")
	require.Error(t, err)
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		date        time.Time
		expectStart time.Time
		expectISO   int
	}{
		{
			date:        time.Date(2024, time.August, 26, 0, 0, 0, 0, time.UTC),
			expectStart: time.Date(2024, time.August, 26, 0, 0, 0, 0, time.UTC),
			expectISO:   1,
		},
		{
			date:        time.Date(2024, time.August, 25, 0, 0, 0, 0, time.UTC),
			expectStart: time.Date(2024, time.August, 19, 0, 0, 0, 0, time.UTC),
			expectISO:   7,
		},
		{
			date:        time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
			expectStart: time.Date(2024, time.August, 26, 0, 0, 0, 0, time.UTC),
			expectISO:   6,
		},
		{
			date:        time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC),
			expectStart: time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC),
			expectISO:   2,
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expectStart, StartOfWeek(test.date))
		require.Equal(t, test.expectISO, ISOWeekday(test.date))
	}
}
