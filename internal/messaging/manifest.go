package messaging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var hostNamePattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

// Manifest is the native messaging host manifest the browser reads to launch the host
type Manifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// NewManifest returns a stdio manifest for the host binary at path
func NewManifest(name, path string, origins []string) Manifest {
	return Manifest{
		Name:           name,
		Description:    "Timeline scraper native messaging host",
		Path:           path,
		Type:           "stdio",
		AllowedOrigins: origins,
	}
}

// Validate checks the fields the browser enforces
func (m Manifest) Validate() error {
	if !hostNamePattern.MatchString(m.Name) {
		return fmt.Errorf("invalid host name %q: use lowercase letters, digits, underscores and dots", m.Name)
	}
	if !filepath.IsAbs(m.Path) {
		return fmt.Errorf("host path must be absolute: %s", m.Path)
	}
	if m.Type != "stdio" {
		return fmt.Errorf("unsupported host type %q", m.Type)
	}
	if len(m.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	for _, origin := range m.AllowedOrigins {
		if !strings.HasPrefix(origin, "chrome-extension://") || !strings.HasSuffix(origin, "/") {
			return fmt.Errorf("invalid origin %q: expected chrome-extension://<id>/", origin)
		}
	}
	return nil
}

// WriteManifest validates m and writes it to dir/<name>.json
func WriteManifest(dir string, m Manifest) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}

	path := filepath.Join(dir, m.Name+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return path, nil
}

// DefaultManifestDir returns the per-user NativeMessagingHosts directory for a browser
func DefaultManifestDir(browser string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	var vendor string
	switch runtime.GOOS {
	case "linux":
		switch browser {
		case "chrome":
			vendor = "google-chrome"
		case "chromium":
			vendor = "chromium"
		default:
			return "", fmt.Errorf("unknown browser: %s (available: chrome, chromium)", browser)
		}
		return filepath.Join(home, ".config", vendor, "NativeMessagingHosts"), nil
	case "darwin":
		switch browser {
		case "chrome":
			vendor = filepath.Join("Google", "Chrome")
		case "chromium":
			vendor = "Chromium"
		default:
			return "", fmt.Errorf("unknown browser: %s (available: chrome, chromium)", browser)
		}
		return filepath.Join(home, "Library", "Application Support", vendor, "NativeMessagingHosts"), nil
	default:
		return "", fmt.Errorf("no default manifest directory on %s: pass --dir and register the manifest with the browser", runtime.GOOS)
	}
}
