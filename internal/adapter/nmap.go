package adapter

import (
	"context"
	"fmt"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

// NmapProber shells out to nmap for richer port and service scanning. It
// needs the nmap binary on PATH; absence is reported as a capability error
// so the UI can explain the degradation instead of showing an empty list.
type NmapProber struct {
	opts config.NmapOptions
	log  zerolog.Logger
}

// NewNmapProber creates the nmap-backed prober
func NewNmapProber(opts config.NmapOptions, log zerolog.Logger) *NmapProber {
	return &NmapProber{
		opts: opts,
		log:  log.With().Str("component", "nmap").Logger(),
	}
}

// Name identifies the prober in logs
func (p *NmapProber) Name() string { return "nmap" }

// Probe runs an nmap scan of the target range and converts the results into
// host records
func (p *NmapProber) Probe(ctx context.Context, target config.NetworkTarget) ([]domain.HostRecord, error) {
	if !p.available(ctx) {
		return nil, ErrNmapUnavailable
	}

	opts := []nmap.Option{
		nmap.WithTargets(target.Range),
	}
	if p.opts.PortScan {
		ports := p.opts.Ports
		if ports == "" {
			ports = "22,80,443,8080"
		}
		opts = append(opts, nmap.WithPorts(ports))
		if p.opts.ServiceDetection {
			opts = append(opts, nmap.WithServiceInfo())
		}
	} else {
		opts = append(opts, nmap.WithPingScan())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create nmap scanner: %w", err)
	}

	p.log.Debug().Str("range", target.Range).Bool("ports", p.opts.PortScan).Msg("starting nmap scan")

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("nmap scan of %s: %w", target.Range, err)
	}
	if warnings != nil && len(*warnings) > 0 {
		p.log.Debug().Strs("warnings", *warnings).Msg("nmap warnings")
	}

	records := p.convert(result)
	p.log.Debug().Int("hosts", len(records)).Msg("nmap scan complete")
	return records, nil
}

// available runs a throwaway list scan to confirm the binary exists
func (p *NmapProber) available(ctx context.Context) bool {
	scanner, err := nmap.NewScanner(ctx,
		nmap.WithTargets("localhost"),
		nmap.WithListScan(),
	)
	if err != nil {
		return false
	}
	_, _, err = scanner.Run()
	return err == nil
}

// convert turns an nmap run into host records, one per up host
func (p *NmapProber) convert(result *nmap.Run) []domain.HostRecord {
	if result == nil {
		return nil
	}

	var records []domain.HostRecord
	for _, host := range result.Hosts {
		if host.Status.State != "up" || len(host.Addresses) == 0 {
			continue
		}

		rec := domain.HostRecord{Status: domain.HostStatusUp}
		for _, addr := range host.Addresses {
			switch addr.AddrType {
			case "ipv4":
				rec.IP = addr.Addr
			case "mac":
				rec.MAC = strings.ToLower(addr.Addr)
				rec.Vendor = addr.Vendor
			}
		}
		if rec.IP == "" {
			rec.IP = host.Addresses[0].Addr
		}

		if len(host.Hostnames) > 0 {
			rec.Hostname = shortName(host.Hostnames[0].Name)
		}

		for _, port := range host.Ports {
			if port.State.State == "open" {
				rec.OpenPorts = append(rec.OpenPorts, int(port.ID))
			}
		}

		records = append(records, rec)
	}
	return records
}

// shortName trims a FQDN down to its first label
func shortName(hostname string) string {
	hostname = strings.TrimSuffix(hostname, ".")
	if idx := strings.Index(hostname, "."); idx > 0 {
		return hostname[:idx]
	}
	return hostname
}
