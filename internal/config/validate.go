package config

import (
	"fmt"
	"net/netip"
	"net/url"
)

// Validate checks the loaded configuration for values that would only fail
// later, deep inside a fetch or a scan
func (c *Config) Validate() error {
	for _, f := range c.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed with url %q has no name", f.URL)
		}
		if err := validateURL(f.URL); err != nil {
			return fmt.Errorf("feed %q: %w", f.Name, err)
		}
		if f.Type != FeedTypeRSS && f.Type != FeedTypeJSON {
			return fmt.Errorf("feed %q: unknown type %q", f.Name, f.Type)
		}
	}

	for _, cat := range c.Links {
		for _, l := range cat.Links {
			if err := validateURL(l.URL); err != nil {
				return fmt.Errorf("link %q: %w", l.Name, err)
			}
		}
	}

	if c.Network.Scanner != ScannerARP && c.Network.Scanner != ScannerNmap {
		return fmt.Errorf("network.scanner must be %q or %q, got %q",
			ScannerARP, ScannerNmap, c.Network.Scanner)
	}

	for _, t := range c.Network.Targets {
		if t.Name == "" {
			return fmt.Errorf("network target %q has no name", t.Range)
		}
		if _, err := netip.ParsePrefix(t.Range); err != nil {
			return fmt.Errorf("target %q: invalid CIDR range %q: %w", t.Name, t.Range, err)
		}
	}

	if c.Weather.Enabled {
		if c.Weather.Latitude < -90 || c.Weather.Latitude > 90 {
			return fmt.Errorf("weather.latitude %v out of range [-90, 90]", c.Weather.Latitude)
		}
		if c.Weather.Longitude < -180 || c.Weather.Longitude > 180 {
			return fmt.Errorf("weather.longitude %v out of range [-180, 180]", c.Weather.Longitude)
		}
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
