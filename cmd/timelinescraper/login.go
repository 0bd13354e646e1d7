package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/jgoulah/timelinescraper/internal/scraper"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Google and save cookies",
	Long: `Opens a browser window for you to login manually.
After successful login, cookies will be extracted and saved to the config file.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Println("Opening browser for Google login...")
	fmt.Println("Please log in manually in the browser window until your timeline is shown.")
	fmt.Println("Then press Enter here to save...")

	cookies, err := scraper.Login(context.Background(), func() error {
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		return err
	})
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	// Load existing config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Cookies.Google = cookies

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Successfully saved %d cookies\n", len(cookies))
	return nil
}
