// Package config provides configuration management for the dashboard.
//
// Config file locations (priority order):
//  1. $DASHBOARD_CONFIG
//  2. ./dashboard.yaml
//  3. $XDG_CONFIG_HOME/daily-dashboard/config.yaml
//  4. ~/.config/daily-dashboard/config.yaml
//  5. /etc/daily-dashboard/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Weather: WeatherConfig{
			Enabled:      true,
			LocationName: "Berlin",
			Latitude:     52.52,
			Longitude:    13.41,
		},
	}
	cfg.applyDefaults()

	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Network.Scanner == "" {
		c.Network.Scanner = ScannerARP
	}
	if c.Network.ScanInterval == 0 {
		c.Network.ScanInterval = Duration(15 * time.Minute)
	}
	if c.Network.SweepTimeout == 0 {
		c.Network.SweepTimeout = Duration(3 * time.Second)
	}
	if c.Network.DNSTimeout == 0 {
		c.Network.DNSTimeout = Duration(1 * time.Second)
	}
	if c.Network.MDNSTimeout == 0 {
		c.Network.MDNSTimeout = Duration(3 * time.Second)
	}
	if len(c.Network.Deep.Ports) == 0 {
		c.Network.Deep.Ports = []int{22, 80, 443, 8080}
	}
	if c.Network.Deep.BannerTimeout == 0 {
		c.Network.Deep.BannerTimeout = Duration(1 * time.Second)
	}
	if c.Network.Nmap.Ports == "" {
		c.Network.Nmap.Ports = "22,80,443,8080"
	}
	if c.Network.KnownHostsPath == "" {
		c.Network.KnownHostsPath = "known_hosts.json"
	}
	if c.Settings.RefreshInterval == 0 {
		c.Settings.RefreshInterval = Duration(15 * time.Minute)
	}
	if c.Settings.CacheTTL == 0 {
		c.Settings.CacheTTL = Duration(5 * time.Minute)
	}
	if c.Settings.CachePath == "" {
		c.Settings.CachePath = ".cache/dashboard.db"
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	for i := range c.Feeds {
		if c.Feeds[i].Type == "" {
			c.Feeds[i].Type = FeedTypeRSS
		}
		if c.Feeds[i].MaxItems == 0 {
			c.Feeds[i].MaxItems = 10
		}
	}
}
