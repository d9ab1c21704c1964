package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultTickInterval   = 3 * time.Second
	DefaultHistoryLength  = 20
	DefaultSeedCount      = 10
	DefaultDigestSchedule = "0 * * * *" // hourly fleet digest
)

// Config holds the configuration parsed from the `server:` section of the
// config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub, and metrics listen on.
	HTTPPort int `yaml:"http_port"`

	// TickInterval is the simulation cadence (default 3s).
	TickInterval time.Duration `yaml:"tick_interval"`

	// HistoryLength caps each site's rolling history (default 20).
	HistoryLength int `yaml:"history_length"`

	// SeedCount is how many backdated readings seed each chart (default 10).
	// Must not exceed HistoryLength.
	SeedCount int `yaml:"seed_count"`

	// DigestSchedule is the cron expression for the periodic fleet digest
	// written to the log (default hourly).
	DigestSchedule string `yaml:"digest_schedule"`

	// Sites optionally replaces the built-in fleet. Empty means built-in.
	Sites []SiteConfig `yaml:"sites"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// SiteConfig describes one monitored water body in the config file.
type SiteConfig struct {
	ID          string         `yaml:"id"`
	DisplayName string         `yaml:"display_name"`
	Location    string         `yaml:"location"`
	Category    string         `yaml:"category"` // lake | river | reservoir | groundwater
	Baseline    BaselineConfig `yaml:"baseline"`
}

// BaselineConfig is the per-site central tendency used by the simulator.
type BaselineConfig struct {
	PH              float64 `yaml:"ph"`
	Turbidity       float64 `yaml:"turbidity"`
	Temperature     float64 `yaml:"temperature"`
	DissolvedOxygen float64 `yaml:"dissolved_oxygen"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one classification-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the dedup key.
	Name string `yaml:"name"`

	// Condition is "<parameter> <op> <status>", e.g. "ph == danger" or
	// "turbidity >= warning". ">=" means the status or anything worse.
	Condition string `yaml:"condition"`

	// SiteID restricts the rule to one site. Empty matches every site.
	SiteID string `yaml:"site_id"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration: default ports and cadence
// with the built-in fleet. Used when the server runs without a config file.
func Defaults() *Config {
	return defaults()
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort,
			TickInterval:   DefaultTickInterval,
			HistoryLength:  DefaultHistoryLength,
			SeedCount:      DefaultSeedCount,
			DigestSchedule: DefaultDigestSchedule,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := &cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("server.tick_interval must be positive")
	}
	if s.HistoryLength <= 0 {
		return fmt.Errorf("server.history_length must be positive")
	}
	if s.SeedCount < 0 {
		return fmt.Errorf("server.seed_count must not be negative")
	}
	if s.SeedCount > s.HistoryLength {
		return fmt.Errorf("server.seed_count %d exceeds history_length %d", s.SeedCount, s.HistoryLength)
	}

	for i, site := range s.Sites {
		if site.ID == "" {
			return fmt.Errorf("server.sites[%d] has empty id", i)
		}
		switch site.Category {
		case "lake", "river", "reservoir", "groundwater":
		default:
			return fmt.Errorf("server.sites[%d] (%s) category %q unknown: want lake|river|reservoir|groundwater",
				i, site.ID, site.Category)
		}
	}

	for i, rule := range s.Alerts.Rules {
		if rule.Name == "" {
			return fmt.Errorf("server.alerts.rules[%d] has empty name", i)
		}
		if err := validateCondition(rule.Condition); err != nil {
			return fmt.Errorf("server.alerts.rules[%d] (%s): %w", i, rule.Name, err)
		}
		switch rule.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("server.alerts.rules[%d] (%s) severity %q unknown: want critical|warning|info",
				i, rule.Name, rule.Severity)
		}
		if rule.Cooldown < 0 {
			return fmt.Errorf("server.alerts.rules[%d] (%s) cooldown must not be negative", i, rule.Name)
		}
	}
	return nil
}

// validateCondition checks the "<parameter> <op> <status>" shape without
// evaluating it. The alerts engine owns the actual evaluation.
func validateCondition(cond string) error {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return fmt.Errorf("condition %q: want \"<parameter> <op> <status>\"", cond)
	}
	switch parts[0] {
	case "ph", "turbidity", "temperature", "dissolved_oxygen":
	default:
		return fmt.Errorf("condition %q: unknown parameter %q", cond, parts[0])
	}
	switch parts[1] {
	case "==", ">=":
	default:
		return fmt.Errorf("condition %q: unknown operator %q", cond, parts[1])
	}
	switch parts[2] {
	case "warning", "danger":
	default:
		return fmt.Errorf("condition %q: unknown status %q", cond, parts[2])
	}
	return nil
}
