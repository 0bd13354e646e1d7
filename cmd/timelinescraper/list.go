package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/timelinescraper/internal/database"
	"github.com/spf13/cobra"
)

var (
	listVisits bool
	listSince  string
	listUntil  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored work hours",
	Long:  `Displays stored daily work totals, or individual visits with --visits.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listVisits, "visits", false, "List individual visits instead of daily totals")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only list visits since this date (YYYY-MM-DD or relative like 7d)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only list visits until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listVisits {
		return printVisits(db)
	}

	totals, err := db.ListDayTotals()
	if err != nil {
		return fmt.Errorf("listing day totals: %w", err)
	}

	if len(totals) == 0 {
		fmt.Println("No data found")
		return nil
	}

	fmt.Println("\nWork Hours:")
	fmt.Println("----------------------------------------------")
	fmt.Printf("%-12s  %8s  %s\n", "Date", "Hours", "Fetched")
	fmt.Println("----------------------------------------------")

	var total float64
	for _, record := range totals {
		fmt.Printf("%-12s  %8.2f  %s\n", record.Date.Format("2006-01-02"), record.Hours, humanize.Time(record.CreatedAt))
		total += record.Hours
	}

	fmt.Println("----------------------------------------------")
	fmt.Printf("Total: %.2f hours (%d days)\n", total, len(totals))
	return nil
}

func printVisits(db *database.DB) error {
	now := time.Now()
	var since, until time.Time
	var err error
	if listSince != "" {
		if since, err = parseDate(listSince, now); err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
	}
	if listUntil != "" {
		if until, err = parseDate(listUntil, now); err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
	}

	visits, err := db.ListVisits(since, until)
	if err != nil {
		return fmt.Errorf("listing visits: %w", err)
	}
	if len(visits) == 0 {
		fmt.Println("No visits found")
		return nil
	}

	fmt.Printf("%-12s  %-20s  %-8s  %-8s  %s\n", "Date", "Place", "Start", "End", "Duration")
	for _, v := range visits {
		fmt.Printf("%-12s  %-20s  %-8s  %-8s  %s\n",
			v.Date.Format("2006-01-02"),
			v.Name,
			v.Start.Local().Format("03:04PM"),
			v.End.Local().Format("03:04PM"),
			v.Duration().Round(time.Minute),
		)
	}
	return nil
}
