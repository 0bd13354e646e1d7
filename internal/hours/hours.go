// Package hours turns timeline visits into a weekly work-hours report.
package hours

import (
	"context"
	"strings"
	"time"

	"github.com/jgoulah/timelinescraper/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Settings controls which visits count and how the day total is adjusted
type Settings struct {
	PlacePrefix    string
	BreakThreshold float64 // hours
	BreakDeduction float64 // hours
	RoundFraction  int
}

// DefaultSettings matches a typical workday: "Work" visits, half-hour break after six hours
func DefaultSettings() Settings {
	return Settings{
		PlacePrefix:    "Work",
		BreakThreshold: 6,
		BreakDeduction: 0.5,
		RoundFraction:  4,
	}
}

// Hours holds an exact value and its rounded-down presentation
type Hours struct {
	Rounded decimal.Decimal
	Exact   float64
}

// RoundDown floors hours to the nearest 1/fraction of an hour
func RoundDown(hours float64, fraction int) Hours {
	if fraction <= 0 {
		fraction = 1
	}
	f := decimal.NewFromInt(int64(fraction))
	rounded := decimal.NewFromFloat(hours).Mul(f).Floor().Div(f)
	return Hours{Rounded: rounded, Exact: hours}
}

// DaySummary is the work time for a single day
type DaySummary struct {
	Date   time.Time
	Visits []models.Visit // Work visits only
	Total  Hours
}

// Summarize totals the work visits for a day and applies the break deduction
func Summarize(day time.Time, visits []models.Visit, s Settings) DaySummary {
	summary := DaySummary{Date: day}

	var total float64
	for _, v := range visits {
		if !strings.HasPrefix(v.Name, s.PlacePrefix) {
			continue
		}
		summary.Visits = append(summary.Visits, v)
		total += v.Duration().Hours()
	}

	if total > s.BreakThreshold {
		total -= s.BreakDeduction
	}

	summary.Total = RoundDown(total, s.RoundFraction)
	return summary
}

// WeekDays returns Monday through Friday of the week containing target
func WeekDays(target time.Time) []time.Time {
	sinceMonday := (int(target.Weekday()) + 6) % 7
	monday := time.Date(target.Year(), target.Month(), target.Day()-sinceMonday, 0, 0, 0, 0, target.Location())

	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// Week is the report for five working days
type Week struct {
	Days       []DaySummary
	Cumulative Hours
	settings   Settings
}

// Source returns the visits recorded on a day
type Source interface {
	Visits(ctx context.Context, day time.Time) ([]models.Visit, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, day time.Time) ([]models.Visit, error)

// Visits calls f
func (f SourceFunc) Visits(ctx context.Context, day time.Time) ([]models.Visit, error) {
	return f(ctx, day)
}

// BuildWeek fetches each weekday of target's week from src, at most
// concurrency at a time, and summarizes them in calendar order.
func BuildWeek(ctx context.Context, src Source, target time.Time, s Settings, concurrency int) (*Week, error) {
	days := WeekDays(target)
	summaries := make([]DaySummary, len(days))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			visits, err := src.Visits(ctx, day)
			if err != nil {
				return err
			}
			summaries[i] = Summarize(day, visits, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewWeek(summaries, s), nil
}

// NewWeek aggregates day summaries into a week
func NewWeek(days []DaySummary, s Settings) *Week {
	var cum float64
	for _, d := range days {
		cum += d.Total.Exact
	}
	return &Week{
		Days:       days,
		Cumulative: RoundDown(cum, s.RoundFraction),
		settings:   s,
	}
}
