// Package adapter contains the probers that perform the raw subnet sweep.
// Two implementations exist behind the same interface: an ARP broadcast
// sweep (the default) and an nmap-based prober for deeper port and service
// scanning. The orchestrator selects one by configuration.
package adapter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

// Prober performs the raw sweep of one target range. A returned error means
// the whole scan failed (capability missing, privileges lacking); a host
// simply not replying is silence, not an error.
type Prober interface {
	// Name identifies the prober implementation in logs
	Name() string

	// Probe sweeps the target range and returns one record per replying
	// host, each with status up and vendor already filled in
	Probe(ctx context.Context, target config.NetworkTarget) ([]domain.HostRecord, error)
}

// VendorLookup maps a MAC address to a manufacturer name; empty on miss
type VendorLookup interface {
	VendorFor(mac string) string
}

// New selects the prober implementation for the given network configuration
func New(cfg config.NetworkConfig, vendors VendorLookup, log zerolog.Logger) Prober {
	if cfg.Scanner == config.ScannerNmap {
		return NewNmapProber(cfg.Nmap, log)
	}
	return NewARPProber(cfg, vendors, log)
}
