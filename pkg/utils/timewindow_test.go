package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockMinute(t *testing.T) {
	m, err := ParseClockMinute("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, m)

	m, err = ParseClockMinute("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ParseClockMinute("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	for _, bad := range []string{"", "9h30", "24:00", "12:60", "-1:00", "12:00:00"} {
		_, err := ParseClockMinute(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatClockMinute(t *testing.T) {
	assert.Equal(t, "09:30", FormatClockMinute(9*60+30))
	assert.Equal(t, "00:00", FormatClockMinute(0))
	assert.Equal(t, "23:59", FormatClockMinute(23*60+59))
}

func TestWeekdayOf(t *testing.T) {
	day, err := WeekdayOf("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, day)

	_, err = WeekdayOf("01-05-2024")
	assert.Error(t, err)
}
