package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jgoulah/timelinescraper/internal/hours"
	"github.com/spf13/cobra"
)

var (
	fetchDate  string
	fetchCache bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a week of timeline data",
	Long: `Fetches the timeline for Monday through Friday of the week containing --date
using saved cookies. Visits and daily work totals are stored in the local
SQLite database.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "Date in week of requested timeline (MM/DD/YYYY, default: one week ago)")
	fetchCmd.Flags().BoolVar(&fetchCache, "cache", false, "Cache timeline responses")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Fetch started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	target, err := targetDate(fetchDate, time.Now())
	if err != nil {
		return fmt.Errorf("parsing --date: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := newTimelineClient(cfg, fetchCache)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	week, err := hours.BuildWeek(context.Background(), timelineSource(client), target, workSettings(cfg), cfg.Work.GetConcurrency())
	if err != nil {
		return authHint(err)
	}

	totalVisits := 0
	for _, day := range week.Days {
		for i := range day.Visits {
			// INSERT OR IGNORE skips visits already stored
			if err := db.InsertVisit(&day.Visits[i]); err != nil {
				return fmt.Errorf("inserting visit: %w", err)
			}
			totalVisits++
		}

		if err := db.UpsertDayTotal(day.Date, day.Total.Exact); err != nil {
			return fmt.Errorf("storing day total: %w", err)
		}
		fmt.Printf("%s: %s\n", day.Date.Format("Mon 2006-01-02"), day.Total)
	}

	fmt.Printf("✓ Processed %d work visits (duplicates automatically skipped by database)\n", totalVisits)
	fmt.Printf("Week total: %s\n", week.Cumulative)
	return nil
}
