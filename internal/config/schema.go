package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Feeds    []FeedConfig   `yaml:"feeds,omitempty"`
	Links    []LinkCategory `yaml:"links,omitempty"`
	Network  NetworkConfig  `yaml:"network"`
	Weather  WeatherConfig  `yaml:"weather"`
	Settings Settings       `yaml:"settings"`
}

// FeedType selects the parser for a feed
type FeedType string

const (
	FeedTypeRSS  FeedType = "rss"
	FeedTypeJSON FeedType = "json"
)

// FeedConfig describes a single news feed
type FeedConfig struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Type     FeedType `yaml:"type,omitempty"`
	Enabled  *bool    `yaml:"enabled,omitempty"` // nil = enabled
	MaxItems int      `yaml:"max_items,omitempty"`
}

// IsEnabled reports whether the feed should be fetched
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// LinkItem is a single saved link
type LinkItem struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// LinkCategory groups saved links under a heading
type LinkCategory struct {
	Name  string     `yaml:"name"`
	Links []LinkItem `yaml:"links,omitempty"`
}

// ScannerKind selects the prober implementation
type ScannerKind string

const (
	ScannerARP  ScannerKind = "arp"
	ScannerNmap ScannerKind = "nmap"
)

// NetworkTarget is one subnet to scan, with the identifiers (hostname, IP,
// or MAC, compared case-insensitively) of hosts that are expected to be up
type NetworkTarget struct {
	Name          string   `yaml:"name"`
	Range         string   `yaml:"range"`
	ExpectedHosts []string `yaml:"expected_hosts,omitempty"`
}

// DeepProbeConfig controls the optional per-host port/banner probe that the
// ARP prober runs after discovery
type DeepProbeConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Ports         []int    `yaml:"ports,omitempty"`
	BannerTimeout Duration `yaml:"banner_timeout,omitempty"`
}

// NmapOptions configures the nmap-based prober
type NmapOptions struct {
	PortScan         bool   `yaml:"port_scan"`
	ServiceDetection bool   `yaml:"service_detection"`
	Ports            string `yaml:"ports,omitempty"`
}

// NetworkConfig holds everything the discovery engine needs
type NetworkConfig struct {
	Scanner        ScannerKind     `yaml:"scanner,omitempty"`
	Interface      string          `yaml:"interface,omitempty"` // empty = first usable
	Targets        []NetworkTarget `yaml:"targets,omitempty"`
	ScanInterval   Duration        `yaml:"scan_interval,omitempty"`
	SweepTimeout   Duration        `yaml:"sweep_timeout,omitempty"`
	DNSTimeout     Duration        `yaml:"dns_timeout,omitempty"`
	MDNSTimeout    Duration        `yaml:"mdns_timeout,omitempty"`
	Deep           DeepProbeConfig `yaml:"deep,omitempty"`
	Nmap           NmapOptions     `yaml:"nmap,omitempty"`
	OUIDatabase    string          `yaml:"oui_database,omitempty"` // optional manuf-style prefix file
	KnownHostsPath string          `yaml:"known_hosts_path,omitempty"`
}

// WeatherConfig holds the forecast location
type WeatherConfig struct {
	Enabled      bool    `yaml:"enabled"`
	LocationName string  `yaml:"location_name,omitempty"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
}

// Settings holds general application settings
type Settings struct {
	UserName        string   `yaml:"user_name,omitempty"`
	RefreshInterval Duration `yaml:"refresh_interval,omitempty"`
	CacheTTL        Duration `yaml:"cache_ttl,omitempty"`
	CachePath       string   `yaml:"cache_path,omitempty"`
	LogLevel        string   `yaml:"log_level,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
