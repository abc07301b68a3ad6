// Package config loads the YAML configuration document described in the
// service's external interface: environments, static stages, git
// credentials, authorization, the TCP listener, and request timeouts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Environments         []string      `yaml:"Environments"`
	StaticStages         []string      `yaml:"StaticStages"`
	ConfigSuppliersCount uint          `yaml:"ConfigSuppliersCount"`
	Git                  GitConfig     `yaml:"Git"`
	Authorization        AuthConfig    `yaml:"Authorization"`
	TcpListener          ListenerConfig `yaml:"TcpListener"`
	Timeouts             TimeoutsConfig `yaml:"Timeouts"`
	HealthProbe          HealthProbe   `yaml:"HealthProbe"`
	Metrics              MetricsConfig `yaml:"Metrics"`
	Notify               NotifyConfig  `yaml:"Notify"`
	EventLog             EventLogConfig `yaml:"EventLog"`
	Warmer               WarmerConfig  `yaml:"Warmer"`
}

// GitConfig names the upstream repository and the secrets holding its
// credentials. The secrets themselves are resolved by internal/secrets, not
// read directly from this struct.
type GitConfig struct {
	Repository     string `yaml:"Repository"`
	UsernameSecret string `yaml:"UsernameSecret"`
	PasswordSecret string `yaml:"PasswordSecret"`
}

// AuthConfig is the JWT validation policy handed to the authorization
// collaborator (internal/authz).
type AuthConfig struct {
	Issuers  []string `yaml:"Issuers"`
	Audience string   `yaml:"Audience"`
	JwksUri  string   `yaml:"JwksUri"`
}

// ListenerConfig is the TCP address the HTTP server binds.
type ListenerConfig struct {
	Address string `yaml:"Address"`
	Port    int    `yaml:"Port"`
}

// TimeoutsConfig holds request deadlines, in seconds.
type TimeoutsConfig struct {
	ControllersConfigGetConfig int `yaml:"ControllersConfigGetConfig"`
}

// HealthProbe is the (stage, environment, component) triple the readiness
// handler uses to exercise GetConfig, defaulting to a fixed probe when left
// empty so the service is runnable without extra configuration.
type HealthProbe struct {
	Stage       string `yaml:"Stage"`
	Environment string `yaml:"Environment"`
	Component   string `yaml:"Component"`
}

func (h HealthProbe) orDefault() HealthProbe {
	if h.Stage == "" && h.Environment == "" && h.Component == "" {
		return HealthProbe{Stage: "dummy", Environment: "development", Component: "dummy"}
	}
	return h
}

// MetricsConfig controls the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"Enabled"`
}

// NotifyConfig controls the best-effort NATS lifecycle notifier.
type NotifyConfig struct {
	URL     string `yaml:"Url"`
	Subject string `yaml:"Subject"`
}

// EventLogConfig controls the sqlite-backed audit log.
type EventLogConfig struct {
	Path string `yaml:"Path"`
}

// WarmerConfig controls the periodic static-stage pre-warm job.
type WarmerConfig struct {
	Enabled  bool   `yaml:"Enabled"`
	Interval string `yaml:"Interval"`
}

// Load reads and parses the YAML configuration at path. A sibling .env file
// is loaded first (if present) so ${VAR} references in the YAML can be
// expanded from it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "note: .env not loaded: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ConfigSuppliersCount == 0 {
		c.ConfigSuppliersCount = 2
	}
	if c.Timeouts.ControllersConfigGetConfig == 0 {
		c.Timeouts.ControllersConfigGetConfig = 30
	}
	if c.TcpListener.Address == "" {
		c.TcpListener.Address = "0.0.0.0"
	}
	if c.TcpListener.Port == 0 {
		c.TcpListener.Port = 8080
	}
	c.HealthProbe = c.HealthProbe.orDefault()
}
