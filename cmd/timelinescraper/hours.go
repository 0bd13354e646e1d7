package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/timelinescraper/internal/hours"
	"github.com/spf13/cobra"
)

var (
	hoursDate  string
	hoursCache bool
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Print work hours for a week",
	Long: `Prints start and end of each work visit, the daily totals with the break
deduction applied, and the cumulative total for Monday through Friday of the
week containing --date.`,
	Args: cobra.NoArgs,
	RunE: runHours,
}

func init() {
	hoursCmd.Flags().StringVar(&hoursDate, "date", "", "Date in week of requested timeline (MM/DD/YYYY, default: one week ago)")
	hoursCmd.Flags().BoolVar(&hoursCache, "cache", false, "Cache timeline responses")
	rootCmd.AddCommand(hoursCmd)
}

func runHours(cmd *cobra.Command, args []string) error {
	target, err := targetDate(hoursDate, time.Now())
	if err != nil {
		return fmt.Errorf("parsing --date: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := newTimelineClient(cfg, hoursCache)
	if err != nil {
		return err
	}

	week, err := hours.BuildWeek(context.Background(), timelineSource(client), target, workSettings(cfg), cfg.Work.GetConcurrency())
	if err != nil {
		return authHint(err)
	}

	fmt.Println()
	return week.Write(os.Stdout, time.Local)
}
