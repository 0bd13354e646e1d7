package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/timelinescraper/internal/config"
	"github.com/jgoulah/timelinescraper/pkg/models"
)

// Publisher handles publishing day totals to Home Assistant and MQTT
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	if !haCfg.Enabled && !mqttCfg.Enabled {
		return nil, fmt.Errorf("neither Home Assistant nor MQTT is enabled in config")
	}

	var client mqtt.Client
	topicPrefix := mqttCfg.TopicPrefix

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Set default topic prefix if not specified
		if topicPrefix == "" {
			topicPrefix = "work_hours"
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("timelinescraper")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// HAPayload matches the Home Assistant backfill service call data
type HAPayload struct {
	EntityID    string `json:"entity_id"`
	State       string `json:"state"`
	LastChanged string `json:"last_changed"`
	LastUpdated string `json:"last_updated"`
}

// MQTTPayload is the retained message published per day
type MQTTPayload struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// Publish sends a day total to every enabled destination
func (p *Publisher) Publish(total models.DayTotal) error {
	if p.haConfig.Enabled {
		if err := p.publishHA(total); err != nil {
			return fmt.Errorf("publishing to Home Assistant: %w", err)
		}
	}
	if p.client != nil {
		if err := p.publishMQTT(total); err != nil {
			return fmt.Errorf("publishing to MQTT: %w", err)
		}
	}
	return nil
}

// Topic returns the MQTT topic for a day
func (p *Publisher) Topic(date time.Time) string {
	return fmt.Sprintf("%s/%s", p.topicPrefix, date.Format("2006-01-02"))
}

func (p *Publisher) publishMQTT(total models.DayTotal) error {
	body, err := json.Marshal(MQTTPayload{
		Date:  total.Date.Format("2006-01-02"),
		Hours: total.Hours,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(total.Date), 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timed out publishing to %s", p.Topic(total.Date))
	}
	return token.Error()
}

func (p *Publisher) publishHA(total models.DayTotal) error {
	// Build the full API URL (AppDaemon API endpoint)
	apiURL := fmt.Sprintf("%s/api/appdaemon/backfill_state", p.haConfig.URL)

	timestamp := total.Date.Format(time.RFC3339)
	payload := HAPayload{
		EntityID:    p.haConfig.EntityID,
		State:       fmt.Sprintf("%.2f", total.Hours),
		LastChanged: timestamp,
		LastUpdated: timestamp,
	}

	_, err := p.post(apiURL, payload)
	return err
}

// Statistics is the AppDaemon response to a statistics run
type Statistics struct {
	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
	TotalHours int `json:"total_hours"`
}

// GenerateStatistics asks AppDaemon to compile statistics from backfilled states
func (p *Publisher) GenerateStatistics() (*Statistics, error) {
	if !p.haConfig.Enabled {
		return nil, fmt.Errorf("Home Assistant is not enabled in config")
	}

	apiURL := fmt.Sprintf("%s/api/appdaemon/generate_statistics", p.haConfig.URL)
	respBody, err := p.post(apiURL, map[string]string{"entity_id": p.haConfig.EntityID})
	if err != nil {
		return nil, err
	}

	var stats Statistics
	if err := json.Unmarshal(respBody, &stats); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &stats, nil
}

func (p *Publisher) post(apiURL string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
