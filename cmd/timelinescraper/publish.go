package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/timelinescraper/internal/publisher"
	"github.com/jgoulah/timelinescraper/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishSince string
	publishUntil string
	publishAll   bool
	publishLimit int
	publishStats bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish daily work hours to Home Assistant and MQTT",
	Long: `Reads stored daily work totals from the database and publishes them to
Home Assistant via HTTP API and/or an MQTT broker.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish data since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish data until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	publishCmd.Flags().BoolVar(&publishStats, "stats", false, "Generate Home Assistant statistics after publishing")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Parse date filters if provided
	now := time.Now()
	var sinceDate, untilDate *time.Time
	if publishSince != "" {
		since, err := parseDate(publishSince, now)
		if err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
		sinceDate = &since
	}
	if publishUntil != "" {
		until, err := parseDate(publishUntil, now)
		if err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
		untilDate = &until
	}

	var data []models.DayTotal
	if publishAll {
		// When using --all, force republish ALL records
		data, err = db.ListDayTotals()
	} else {
		// Default: only publish unpublished records
		data, err = db.ListUnpublishedDayTotals()
	}
	if err != nil {
		return fmt.Errorf("listing day totals: %w", err)
	}

	// Filter by date range if specified
	filtered := make([]models.DayTotal, 0, len(data))
	for _, record := range data {
		if sinceDate != nil && record.Date.Before(*sinceDate) {
			continue
		}
		if untilDate != nil && record.Date.After(*untilDate) {
			continue
		}
		filtered = append(filtered, record)
	}

	if len(filtered) == 0 {
		fmt.Println("No unpublished data found")
		return nil
	}

	// Apply limit if specified
	if publishLimit > 0 && len(filtered) > publishLimit {
		filtered = filtered[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	fmt.Printf("Publishing %d records...\n", len(filtered))
	published := 0
	for i, record := range filtered {
		fmt.Printf("[%d/%d] Publishing %s (%.2f hours)... ", i+1, len(filtered), record.Date.Format("2006-01-02"), record.Hours)
		if err := pub.Publish(record); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		// Mark record as published in database
		if err := db.MarkPublished(record.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d records\n", published, len(filtered))

	if publishStats && cfg.HomeAssistant.Enabled {
		fmt.Printf("Generating statistics for %s...\n", cfg.HomeAssistant.EntityID)
		stats, err := pub.GenerateStatistics()
		if err != nil {
			return fmt.Errorf("generating statistics: %w", err)
		}
		fmt.Printf("✓ Statistics generated successfully\n")
		fmt.Printf("  - Inserted: %d new statistics records\n", stats.Inserted)
		fmt.Printf("  - Updated: %d existing statistics records\n", stats.Updated)
		fmt.Printf("  - Total hours: %d\n", stats.TotalHours)
	}

	return nil
}
