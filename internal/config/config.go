package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimelineURL is the KML timeline endpoint
	DefaultTimelineURL = "https://www.google.com/maps/timeline/kml"

	// DefaultHostName is the native messaging host name registered with the browser
	DefaultHostName = "com.jgoulah.timelinescraper"
)

// Config holds the application configuration
type Config struct {
	Cookies           CookieConfig `yaml:"cookies"`
	TimelineURL       string       `yaml:"timeline_url,omitempty"`
	AuthUser          int          `yaml:"authuser,omitempty"`
	CacheDir          string       `yaml:"cache_dir,omitempty"`
	UseCache          bool         `yaml:"use_cache,omitempty"`
	RequestsPerSecond float64      `yaml:"requests_per_second,omitempty"` // Fallback: 1
	Work              WorkConfig   `yaml:"work,omitempty"`
	Host              HostConfig   `yaml:"host,omitempty"`
	HomeAssistant     HAConfig     `yaml:"home_assistant,omitempty"`
	MQTT              MQTTConfig   `yaml:"mqtt,omitempty"`
}

// CookieConfig holds cookies for the timeline service
type CookieConfig struct {
	Google []Cookie `yaml:"google"`
}

// Cookie represents a browser cookie
type Cookie struct {
	Name     string  `yaml:"name"`
	Value    string  `yaml:"value"`
	Domain   string  `yaml:"domain"`
	Path     string  `yaml:"path"`
	Expires  float64 `yaml:"expires,omitempty"`
	HTTPOnly bool    `yaml:"httpOnly,omitempty"`
	Secure   bool    `yaml:"secure,omitempty"`
	SameSite string  `yaml:"sameSite,omitempty"`
}

// WorkConfig controls how work hours are computed from visits
type WorkConfig struct {
	PlacePrefix    string  `yaml:"place_prefix,omitempty"`      // Fallback: "Work"
	BreakThreshold float64 `yaml:"break_threshold,omitempty"`   // Hours; fallback: 6
	BreakDeduction float64 `yaml:"break_deduction,omitempty"`   // Hours; fallback: 0.5
	RoundFraction  int     `yaml:"round_fraction,omitempty"`    // Fallback: 4 (quarter hours)
	Concurrency    int     `yaml:"fetch_concurrency,omitempty"` // Fallback: 2
}

// HostConfig holds native messaging host settings
type HostConfig struct {
	Name            string   `yaml:"name,omitempty"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty"` // e.g. "chrome-extension://<id>/"
	ResponseDelayMS int      `yaml:"response_delay_ms,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.work_hours"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			cfg := &Config{}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv lets secrets live outside the config file
func (c *Config) applyEnv() {
	if v := os.Getenv("TIMELINE_HA_TOKEN"); v != "" {
		c.HomeAssistant.Token = v
	}
	if v := os.Getenv("TIMELINE_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetTimelineURL returns the timeline endpoint
func (c *Config) GetTimelineURL() string {
	if c.TimelineURL == "" {
		return DefaultTimelineURL
	}
	return c.TimelineURL
}

// GetCacheDir returns the response cache directory
func (c *Config) GetCacheDir() string {
	if c.CacheDir == "" {
		return "cache"
	}
	return c.CacheDir
}

// GetRequestsPerSecond returns the outbound request rate with a default of 1
func (c *Config) GetRequestsPerSecond() float64 {
	if c.RequestsPerSecond <= 0 {
		return 1
	}
	return c.RequestsPerSecond
}

// GetPlacePrefix returns the placemark name prefix counted as work
func (w WorkConfig) GetPlacePrefix() string {
	if w.PlacePrefix == "" {
		return "Work"
	}
	return w.PlacePrefix
}

// GetBreakThreshold returns the daily hours above which the break is deducted
func (w WorkConfig) GetBreakThreshold() float64 {
	if w.BreakThreshold <= 0 {
		return 6
	}
	return w.BreakThreshold
}

// GetBreakDeduction returns the hours subtracted for a break
func (w WorkConfig) GetBreakDeduction() float64 {
	if w.BreakDeduction <= 0 {
		return 0.5
	}
	return w.BreakDeduction
}

// GetRoundFraction returns the rounding fraction (4 = quarter hours)
func (w WorkConfig) GetRoundFraction() int {
	if w.RoundFraction <= 0 {
		return 4
	}
	return w.RoundFraction
}

// GetConcurrency returns how many days are fetched at once
func (w WorkConfig) GetConcurrency() int {
	if w.Concurrency <= 0 {
		return 2
	}
	return w.Concurrency
}

// GetName returns the native messaging host name
func (h HostConfig) GetName() string {
	if h.Name == "" {
		return DefaultHostName
	}
	return h.Name
}

// GetResponseDelay returns the delay before the host answers a timeline message
func (h HostConfig) GetResponseDelay() time.Duration {
	if h.ResponseDelayMS <= 0 {
		return time.Second
	}
	return time.Duration(h.ResponseDelayMS) * time.Millisecond
}
