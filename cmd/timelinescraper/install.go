package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jgoulah/timelinescraper/internal/messaging"
	"github.com/spf13/cobra"
)

var (
	installBrowser string
	installDir     string
	installOrigins []string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the native messaging host with the browser",
	Long: `Writes the native messaging host manifest so the browser extension can
launch this binary with 'timelinescraper host'. Allowed origins come from
--origin or host.allowed_origins in config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installBrowser, "browser", "chrome", "Browser to register with (chrome or chromium)")
	installCmd.Flags().StringVar(&installDir, "dir", "", "Manifest directory (default: the browser's NativeMessagingHosts directory)")
	installCmd.Flags().StringSliceVar(&installOrigins, "origin", nil, "Allowed extension origin, e.g. chrome-extension://<id>/")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	origins := installOrigins
	if len(origins) == 0 {
		origins = cfg.Host.AllowedOrigins
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding executable: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}

	// The browser launches the manifest path without arguments, so point it at a wrapper
	wrapper := filepath.Join(filepath.Dir(exe), "timelinescraper-host")
	script := fmt.Sprintf("#!/bin/sh\nexec %q --config %q host \"$@\"\n", exe, absPath(getConfigPath()))
	if err := os.WriteFile(wrapper, []byte(script), 0755); err != nil {
		return fmt.Errorf("writing host wrapper: %w", err)
	}

	dir := installDir
	if dir == "" {
		if dir, err = messaging.DefaultManifestDir(installBrowser); err != nil {
			return err
		}
	}

	manifest := messaging.NewManifest(cfg.Host.GetName(), wrapper, origins)
	path, err := messaging.WriteManifest(dir, manifest)
	if err != nil {
		return fmt.Errorf("installing host manifest: %w", err)
	}

	fmt.Printf("✓ Installed native messaging host %s\n", manifest.Name)
	fmt.Printf("  Manifest: %s\n", path)
	fmt.Printf("  Wrapper:  %s\n", wrapper)
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
