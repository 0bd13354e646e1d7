package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jgoulah/timelinescraper/internal/config"
	"github.com/jgoulah/timelinescraper/internal/database"
	"github.com/jgoulah/timelinescraper/internal/hours"
	"github.com/jgoulah/timelinescraper/internal/timeline"
	"github.com/jgoulah/timelinescraper/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "timelinescraper",
	Short: "Scrape location timeline data and report work hours",
	Long: `TimelineScraper is a CLI tool to collect place visits from the maps timeline.
It fetches the KML timeline for each weekday, reports time spent at work, and
stores visits in a local SQLite database. It also runs as a native messaging
host for the companion browser extension.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newTimelineClient builds a client from config; useCache forces the response cache on
func newTimelineClient(cfg *config.Config, useCache bool) (*timeline.Client, error) {
	if len(cfg.Cookies.Google) == 0 {
		return nil, fmt.Errorf("no cookies configured. Run 'timelinescraper login' first")
	}

	opts := []timeline.Option{
		timeline.WithAuthUser(cfg.AuthUser),
		timeline.WithRateLimit(cfg.GetRequestsPerSecond()),
	}
	if useCache || cfg.UseCache {
		opts = append(opts, timeline.WithCache(timeline.NewCache(cfg.GetCacheDir())))
	}

	return timeline.NewClient(cfg.GetTimelineURL(), cfg.Cookies.Google, opts...), nil
}

// timelineSource fetches and parses the visits for a day
func timelineSource(client *timeline.Client) hours.Source {
	return hours.SourceFunc(func(ctx context.Context, day time.Time) ([]models.Visit, error) {
		fmt.Printf("Fetching %s...\n", day.Format("2006-01-02"))
		body, err := client.Fetch(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", day.Format("2006-01-02"), err)
		}

		visits, err := timeline.ParsePlacemarks(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", day.Format("2006-01-02"), err)
		}
		for i := range visits {
			visits[i].Date = day
		}
		return visits, nil
	})
}

// workSettings maps config onto report settings
func workSettings(cfg *config.Config) hours.Settings {
	return hours.Settings{
		PlacePrefix:    cfg.Work.GetPlacePrefix(),
		BreakThreshold: cfg.Work.GetBreakThreshold(),
		BreakDeduction: cfg.Work.GetBreakDeduction(),
		RoundFraction:  cfg.Work.GetRoundFraction(),
	}
}

// authHint adds a login suggestion to authentication failures
func authHint(err error) error {
	var authErr *timeline.AuthError
	if errors.As(err, &authErr) {
		return fmt.Errorf("%w (hint: run 'timelinescraper login' to refresh cookies)", err)
	}
	return err
}
