package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/timelinescraper/internal/scraper"
	"github.com/jgoulah/timelinescraper/internal/timeline"
	"github.com/spf13/cobra"
)

var (
	debugVisible bool
	debugOutput  string
	debugDate    string
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug the timeline request by loading it in a browser",
	Long: `Loads the KML request for --date in a browser with the saved cookies and
prints or saves what comes back. Useful when fetch returns a login page
instead of KML.

Flags:
  --visible    Show the browser window
  --output     Save the document to this file instead of printing it`,
	Args: cobra.NoArgs,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().BoolVar(&debugVisible, "visible", false, "Show browser window")
	debugCmd.Flags().StringVar(&debugOutput, "output", "", "Save HTML to this file")
	debugCmd.Flags().StringVar(&debugDate, "date", "", "Day to request (MM/DD/YYYY, default: one week ago)")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	day, err := targetDate(debugDate, time.Now())
	if err != nil {
		return fmt.Errorf("parsing --date: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if len(cfg.Cookies.Google) == 0 {
		return fmt.Errorf("no cookies found. Run 'timelinescraper login' first")
	}

	u, err := timeline.TimelineURL(cfg.GetTimelineURL(), cfg.AuthUser, day, timeline.AddDays(day, 1))
	if err != nil {
		return err
	}

	fmt.Printf("Loading %s...\n", u)
	html, err := scraper.PageHTML(context.Background(), u.String(), cfg.Cookies.Google, debugVisible)
	if err != nil {
		return err
	}

	if debugOutput == "" {
		fmt.Println(html)
		return nil
	}

	if err := os.WriteFile(debugOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("✓ Saved %d bytes to %s\n", len(html), debugOutput)
	return nil
}
