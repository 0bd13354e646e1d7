package timeline

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// RewriteDateRange formats the pb parameter for a timeline request.
// Months are zero-based, the way the endpoint expects them.
func RewriteDateRange(from, to time.Time) string {
	return fmt.Sprintf("1m8!1m3!1i%d!2i%d!3i%d!2m3!1i%d!2i%d!3i%d",
		from.Year(), int(from.Month())-1, from.Day(),
		to.Year(), int(to.Month())-1, to.Day())
}

// AddDays returns the next calendar day after date.
// n is currently ignored: the result is always exactly one day later.
func AddDays(date time.Time, n int) time.Time {
	_ = n
	return date.AddDate(0, 0, 1)
}

// TimelineURL builds the request URL for a date range
func TimelineURL(base string, authUser int, from, to time.Time) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing timeline url: %w", err)
	}

	params := url.Values{}
	params.Set("authuser", strconv.Itoa(authUser))
	params.Set("pb", RewriteDateRange(from, to))
	u.RawQuery = params.Encode()

	return u, nil
}
