package resolver

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/domain"
)

// lookupAddrFunc matches net.Resolver.LookupAddr; injectable for tests
type lookupAddrFunc func(ctx context.Context, addr string) ([]string, error)

// HostnameResolver fills in hostnames for probed records via two best-effort
// channels: a bounded mDNS snoop (keyed by MAC) and per-record reverse DNS.
// Precedence: mDNS name > reverse-DNS name > empty. Resolve never fails and
// never removes records; an individual lookup failure just leaves that
// record's name empty.
type HostnameResolver struct {
	browser     ServiceBrowser
	dnsTimeout  time.Duration
	mdnsTimeout time.Duration
	log         zerolog.Logger

	lookupAddr lookupAddrFunc
}

// NewHostnameResolver creates a resolver using the given service browser and
// per-lookup reverse DNS timeout
func NewHostnameResolver(browser ServiceBrowser, dnsTimeout, mdnsTimeout time.Duration, log zerolog.Logger) *HostnameResolver {
	return &HostnameResolver{
		browser:     browser,
		dnsTimeout:  dnsTimeout,
		mdnsTimeout: mdnsTimeout,
		log:         log.With().Str("component", "hostname").Logger(),
		lookupAddr:  net.DefaultResolver.LookupAddr,
	}
}

// Resolve enriches the records in place and returns the same slice. All
// per-record lookups run concurrently, each under its own timeout; no lookup
// blocks another.
func (r *HostnameResolver) Resolve(ctx context.Context, records []domain.HostRecord) []domain.HostRecord {
	if len(records) == 0 {
		return records
	}

	byMAC := r.browser.Snoop(ctx, r.mdnsTimeout)
	if len(byMAC) > 0 {
		r.log.Debug().Int("names", len(byMAC)).Msg("mdns snoop results")
	}

	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		go func(rec *domain.HostRecord) {
			defer wg.Done()
			r.resolveOne(ctx, rec, byMAC)
		}(&records[i])
	}
	wg.Wait()

	return records
}

func (r *HostnameResolver) resolveOne(ctx context.Context, rec *domain.HostRecord, byMAC map[string]string) {
	if rec.Hostname != "" {
		return
	}

	// Service-discovery name short-circuits DNS entirely.
	if rec.MAC != "" {
		if name, ok := byMAC[strings.ToLower(rec.MAC)]; ok && name != "" {
			rec.Hostname = name
			return
		}
	}

	if rec.IP == "" {
		return
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.dnsTimeout)
	defer cancel()

	names, err := r.lookupAddr(lookupCtx, rec.IP)
	if err != nil || len(names) == 0 {
		// Timeout or NXDOMAIN: unresolved, not an error.
		return
	}

	rec.Hostname = shortHostname(names[0])
}

// shortHostname trims the trailing dot and keeps only the first label
func shortHostname(name string) string {
	name = strings.TrimSuffix(name, ".")
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
