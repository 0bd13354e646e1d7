package hours

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jgoulah/timelinescraper/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visit(name string, start time.Time, d time.Duration) models.Visit {
	return models.Visit{Name: name, Start: start, End: start.Add(d)}
}

func TestRoundDown(t *testing.T) {
	tests := []struct {
		hours    float64
		fraction int
		want     string
	}{
		{8.24, 4, "8"},
		{8.25, 4, "8.25"},
		{8.74, 4, "8.5"},
		{7.99, 2, "7.5"},
		{0, 4, "0"},
		{3.3, 0, "3"},
	}

	for _, tt := range tests {
		got := RoundDown(tt.hours, tt.fraction)
		assert.Equal(t, tt.want, got.Rounded.String(), "RoundDown(%v, %d)", tt.hours, tt.fraction)
		assert.Equal(t, tt.hours, got.Exact)
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2019, time.November, 25, 0, 0, 0, 0, time.UTC)
	morning := day.Add(13 * time.Hour)

	tests := []struct {
		name   string
		visits []models.Visit
		exact  float64
		count  int
	}{
		{
			name:   "break deducted over threshold",
			visits: []models.Visit{visit("Work", morning, 8*time.Hour)},
			exact:  7.5,
			count:  1,
		},
		{
			name:   "no deduction at threshold",
			visits: []models.Visit{visit("Work", morning, 6*time.Hour)},
			exact:  6,
			count:  1,
		},
		{
			name: "split visits summed before deduction",
			visits: []models.Visit{
				visit("Work", morning, 4*time.Hour),
				visit("Lunch spot", morning.Add(4*time.Hour), time.Hour),
				visit("Work HQ", morning.Add(5*time.Hour), 3*time.Hour),
			},
			exact: 6.5,
			count: 2,
		},
		{
			name:   "no work visits",
			visits: []models.Visit{visit("Home", day, 12*time.Hour)},
			exact:  0,
			count:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(day, tt.visits, DefaultSettings())
			assert.InDelta(t, tt.exact, got.Total.Exact, 1e-9)
			assert.Len(t, got.Visits, tt.count)
			assert.Equal(t, day, got.Date)
		})
	}
}

func TestWeekDays(t *testing.T) {
	monday := time.Date(2019, time.November, 25, 0, 0, 0, 0, time.UTC)

	for _, target := range []time.Time{
		monday,
		time.Date(2019, time.November, 27, 15, 0, 0, 0, time.UTC), // Wednesday afternoon
		time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC),   // Sunday belongs to the previous week
	} {
		days := WeekDays(target)
		require.Len(t, days, 5)
		assert.Equal(t, monday, days[0], "target %s", target)
		assert.Equal(t, time.Friday, days[4].Weekday())
		assert.Equal(t, 29, days[4].Day())
	}
}

func TestBuildWeek(t *testing.T) {
	target := time.Date(2019, time.November, 27, 0, 0, 0, 0, time.UTC)

	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context, day time.Time) ([]models.Visit, error) {
		calls.Add(1)
		if day.Weekday() == time.Friday {
			return nil, nil
		}
		return []models.Visit{visit("Work", day.Add(9*time.Hour), 8*time.Hour+10*time.Minute)}, nil
	})

	week, err := BuildWeek(context.Background(), src, target, DefaultSettings(), 2)
	require.NoError(t, err)

	assert.Equal(t, int32(5), calls.Load())
	require.Len(t, week.Days, 5)
	for i, d := range week.Days {
		assert.Equal(t, 25+i, d.Date.Day(), "days stay in calendar order")
	}
	assert.Equal(t, "7.5", week.Days[0].Total.Rounded.String())
	assert.Equal(t, "0", week.Days[4].Total.Rounded.String())
	assert.Equal(t, "30.5", week.Cumulative.Rounded.String())
}

func TestBuildWeekPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	src := SourceFunc(func(ctx context.Context, day time.Time) ([]models.Visit, error) {
		if day.Weekday() == time.Tuesday {
			return nil, boom
		}
		return nil, nil
	})

	_, err := BuildWeek(context.Background(), src, time.Now(), DefaultSettings(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestWeekWrite(t *testing.T) {
	monday := time.Date(2019, time.November, 25, 0, 0, 0, 0, time.UTC)
	s := DefaultSettings()

	days := []DaySummary{
		Summarize(monday, []models.Visit{visit("Work", monday.Add(13*time.Hour+30*time.Minute), 8*time.Hour+15*time.Minute)}, s),
	}
	week := NewWeek(days, s)

	var buf bytes.Buffer
	require.NoError(t, week.Write(&buf, time.UTC))

	want := "Mon, 11/25/19 - Mon, 11/25/19\n\n" +
		"11/25/19\n" +
		"01:30PM - 09:45PM\n" +
		"8.25 (8.25)\n" +
		"total: 7.75 (7.75)\n\n" +
		"CUMULATIVE: 7.75 (7.75)\n"
	assert.Equal(t, want, buf.String())
}
