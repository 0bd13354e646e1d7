package models

import "time"

// Visit represents a single place visit from the timeline
type Visit struct {
	ID    int       `json:"id"`
	Date  time.Time `json:"date"`  // Day the visit was requested for
	Name  string    `json:"name"`  // Placemark name, e.g. "Work"
	Start time.Time `json:"start"` // TimeSpan begin (UTC)
	End   time.Time `json:"end"`   // TimeSpan end (UTC)
}

// Duration returns the length of the visit
func (v Visit) Duration() time.Duration {
	return v.End.Sub(v.Start)
}

// DayTotal represents the computed work hours for one day
type DayTotal struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`
	Hours     float64   `json:"hours"` // Exact hours after break deduction
	CreatedAt time.Time `json:"created_at"`
}
