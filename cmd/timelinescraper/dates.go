package main

import (
	"fmt"
	"time"
)

var dateLayouts = []string{"01/02/06", "01/02/2006", "2006-01-02"}

// parseDate parses MM/DD/YY, MM/DD/YYYY, YYYY-MM-DD, or a relative "Nd" (N days before now)
func parseDate(dateStr string, now time.Time) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, dateStr, now.Location()); err == nil {
			return t, nil
		}
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(dateStr[:len(dateStr)-1], "%d", &days); err == nil {
			return startOfDay(now.AddDate(0, 0, -days)), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use MM/DD/YYYY, YYYY-MM-DD or Nd for N days ago)", dateStr)
}

// targetDate resolves the --date flag, defaulting to one week ago
func targetDate(dateStr string, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return startOfDay(now.AddDate(0, 0, -7)), nil
	}
	return parseDate(dateStr, now)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
