package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2019, time.December, 4, 15, 30, 0, 0, time.UTC)
	want := time.Date(2019, time.November, 26, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"11/26/19", "11/26/2019", "2019-11-26", "8d"} {
		got, err := parseDate(input, now)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), "%s: got %s", input, got)
	}

	for _, input := range []string{"", "tomorrow", "26/11/2019", "d", "xd"} {
		_, err := parseDate(input, now)
		assert.Error(t, err, input)
	}
}

func TestTargetDateDefaultsToLastWeek(t *testing.T) {
	now := time.Date(2019, time.December, 4, 15, 30, 0, 0, time.UTC)

	got, err := targetDate("", now)
	require.NoError(t, err)
	assert.True(t, time.Date(2019, time.November, 27, 0, 0, 0, 0, time.UTC).Equal(got))
}
