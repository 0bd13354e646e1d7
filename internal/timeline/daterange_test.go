package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteDateRange(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want string
	}{
		{
			name: "same month",
			from: time.Date(2019, time.November, 26, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2019, time.November, 27, 0, 0, 0, 0, time.UTC),
			want: "1m8!1m3!1i2019!2i10!3i26!2m3!1i2019!2i10!3i27",
		},
		{
			name: "january is month zero",
			from: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC),
			want: "1m8!1m3!1i2020!2i0!3i1!2m3!1i2020!2i0!3i2",
		},
		{
			name: "year boundary",
			from: time.Date(2021, time.December, 31, 23, 0, 0, 0, time.UTC),
			to:   time.Date(2022, time.January, 1, 23, 0, 0, 0, time.UTC),
			want: "1m8!1m3!1i2021!2i11!3i31!2m3!1i2022!2i0!3i1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteDateRange(tt.from, tt.to))
		})
	}
}

func TestRewriteDateRangeUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2019-11-26 20:00 UTC is already the 27th in Tokyo
	from := time.Date(2019, time.November, 26, 20, 0, 0, 0, time.UTC).In(tokyo)

	assert.Equal(t, "1m8!1m3!1i2019!2i10!3i27!2m3!1i2019!2i10!3i28", RewriteDateRange(from, AddDays(from, 1)))
}

func TestAddDaysIgnoresIncrement(t *testing.T) {
	start := time.Date(2024, time.February, 28, 9, 30, 0, 0, time.UTC)
	want := time.Date(2024, time.February, 29, 9, 30, 0, 0, time.UTC)

	for _, n := range []int{-3, 0, 1, 2, 7, 365} {
		assert.Equal(t, want, AddDays(start, n), "n=%d", n)
	}
}

func TestAddDaysMonthEnd(t *testing.T) {
	start := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), AddDays(start, 1))
}

func TestTimelineURL(t *testing.T) {
	from := time.Date(2019, time.November, 26, 0, 0, 0, 0, time.UTC)

	u, err := TimelineURL("https://www.google.com/maps/timeline/kml", 0, from, AddDays(from, 1))
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "www.google.com", u.Host)
	assert.Equal(t, "/maps/timeline/kml", u.Path)
	assert.Equal(t, "0", u.Query().Get("authuser"))
	assert.Equal(t, "1m8!1m3!1i2019!2i10!3i26!2m3!1i2019!2i10!3i27", u.Query().Get("pb"))
}

func TestTimelineURLInvalidBase(t *testing.T) {
	_, err := TimelineURL("://bad", 0, time.Now(), time.Now())
	assert.Error(t, err)
}
