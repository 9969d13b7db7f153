package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/adapter"
	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

// Resolver enriches probed records with hostnames. It never removes records
// and never fails; a lookup miss leaves the name empty.
type Resolver interface {
	Resolve(ctx context.Context, records []domain.HostRecord) []domain.HostRecord
}

// Ledger is the persistent device history consulted during reconciliation.
// Update returns true iff the MAC had never been seen before.
type Ledger interface {
	Update(mac, ip, hostname, vendor string) bool
	Save() error
}

// Discovery runs scans and classifies the results. A nil ledger is a valid
// degraded mode: every unexpected up host is then reported as new.
type Discovery struct {
	prober   adapter.Prober
	resolver Resolver
	ledger   Ledger
	log      zerolog.Logger
}

// NewDiscovery creates the scan orchestrator
func NewDiscovery(prober adapter.Prober, resolver Resolver, ledger Ledger, log zerolog.Logger) *Discovery {
	return &Discovery{
		prober:   prober,
		resolver: resolver,
		ledger:   ledger,
		log:      log.With().Str("component", "discovery").Logger(),
	}
}

// Scan probes one target and returns the classified result. The returned
// result always has Error set for capability failures and an intact (possibly
// empty) host list otherwise. Ledger updates are complete before this
// returns; no caller ever observes is_new without the ledger entry existing.
func (d *Discovery) Scan(ctx context.Context, target config.NetworkTarget) *domain.ScanResult {
	result := domain.NewScanResult(target.Name, target.Range)
	started := time.Now()

	d.log.Info().Str("target", target.Name).Str("range", target.Range).Msg("scan started")

	hosts, err := d.prober.Probe(ctx, target)
	if err != nil {
		d.log.Error().Err(err).Str("target", target.Name).Msg("probe failed")
		return result.Fail(err)
	}

	hosts = d.resolver.Resolve(ctx, hosts)
	hosts = d.reconcile(hosts, target.ExpectedHosts)

	domain.SortHosts(hosts)
	result.Hosts = hosts
	result.Duration = time.Since(started)

	if d.ledger != nil {
		if err := d.ledger.Save(); err != nil {
			d.log.Warn().Err(err).Msg("ledger save failed, history may be stale")
		}
	}

	d.log.Info().
		Str("target", target.Name).
		Int("up", result.HostsUp()).
		Int("down", result.HostsDown()).
		Int("new", len(result.NewHosts())).
		Dur("duration", result.Duration).
		Msg("scan complete")

	return result
}

// reconcile classifies the probed hosts against the expected-identifier list
// and the ledger. Expected matching runs first so that no record can end up
// both expected and new.
func (d *Discovery) reconcile(hosts []domain.HostRecord, expected []string) []domain.HostRecord {
	missing := make(map[string]bool, len(expected))
	order := make([]string, 0, len(expected))
	for _, id := range expected {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" || missing[key] {
			continue
		}
		missing[key] = true
		order = append(order, strings.TrimSpace(id))
	}

	// Step 1: first identifier match wins and consumes the identifier, so a
	// second host matching the same entry stays unexpected.
	for i := range hosts {
		for _, id := range hosts[i].Identifiers() {
			if missing[id] {
				hosts[i].IsExpected = true
				delete(missing, id)
				break
			}
		}
	}

	// Step 2: unmatched expected identifiers become synthetic down records
	// with no address and no ports.
	for _, id := range order {
		if !missing[strings.ToLower(id)] {
			continue
		}
		hosts = append(hosts, domain.HostRecord{
			Hostname:   id,
			Status:     domain.HostStatusDown,
			IsExpected: true,
		})
	}

	// Step 3: ledger classification. Expected hosts get their last-seen
	// bumped too but are never flagged new.
	for i := range hosts {
		rec := &hosts[i]
		if rec.Status != domain.HostStatusUp || rec.MAC == "" {
			continue
		}
		if d.ledger == nil {
			rec.IsNew = !rec.IsExpected
			continue
		}
		isNew := d.ledger.Update(rec.MAC, rec.IP, rec.Hostname, rec.Vendor)
		if !rec.IsExpected {
			rec.IsNew = isNew
		}
	}

	return hosts
}
