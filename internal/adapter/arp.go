package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"sync"
	"time"

	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"
	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

const (
	// maxConcurrentRequests bounds the request fan-out; a /16 range would
	// otherwise spawn one goroutine per address.
	maxConcurrentRequests = 128

	// readErrorBackoff keeps a dead socket from spinning hot until the
	// sweep deadline.
	readErrorBackoff = 10 * time.Millisecond
)

// arpConn is the part of *arp.Client the reply loop needs
type arpConn interface {
	SetReadDeadline(t time.Time) error
	Read() (*arp.Packet, *ethernet.Frame, error)
}

// arpRequester is the part of *arp.Client the request fan-out needs
type arpRequester interface {
	Request(ip netip.Addr) error
}

// ARPProber sweeps a subnet with link-layer broadcast ARP requests and
// collects replies inside a bounded timeout window. Hosts that stay silent
// are simply absent from the result.
type ARPProber struct {
	ifaceName    string
	sweepTimeout time.Duration
	deep         config.DeepProbeConfig
	vendors      VendorLookup
	log          zerolog.Logger
}

// NewARPProber creates the default prober
func NewARPProber(cfg config.NetworkConfig, vendors VendorLookup, log zerolog.Logger) *ARPProber {
	return &ARPProber{
		ifaceName:    cfg.Interface,
		sweepTimeout: cfg.SweepTimeout.Std(),
		deep:         cfg.Deep,
		vendors:      vendors,
		log:          log.With().Str("component", "arp").Logger(),
	}
}

// Name identifies the prober in logs
func (p *ARPProber) Name() string { return "arp" }

// Probe sweeps the target range. Capability failures (no interface, no raw
// socket access) are terminal; everything after the dial degrades per host.
func (p *ARPProber) Probe(ctx context.Context, target config.NetworkTarget) ([]domain.HostRecord, error) {
	capability, err := DetectCapability(p.ifaceName)
	if err != nil {
		return nil, err
	}

	prefix, err := netip.ParsePrefix(target.Range)
	if err != nil {
		return nil, fmt.Errorf("invalid target range %q: %w", target.Range, err)
	}

	client, err := arp.Dial(capability.Iface)
	if err != nil {
		if errors.Is(err, os.ErrPermission) || !capability.HasRawSocket() {
			return nil, fmt.Errorf("%w: %v", ErrPrivilege, err)
		}
		return nil, fmt.Errorf("arp dial on %s: %w", capability.Iface.Name, err)
	}
	defer client.Close()

	p.log.Debug().
		Str("iface", capability.Iface.Name).
		Str("range", prefix.String()).
		Dur("timeout", p.sweepTimeout).
		Msg("starting arp sweep")

	// Fire requests in the background; replies are collected below
	// regardless of send ordering.
	go sendRequests(client, prefix)

	records := p.collectReplies(ctx, client, prefix)

	if p.deep.Enabled {
		p.deepProbe(ctx, records)
	}

	p.log.Debug().Int("hosts", len(records)).Msg("arp sweep complete")
	return records, nil
}

// sendRequests fires one broadcast request per address in the range, a
// bounded number in flight at a time
func sendRequests(client arpRequester, prefix netip.Prefix) {
	sem := make(chan struct{}, maxConcurrentRequests)
	var wg sync.WaitGroup

	for addr := prefix.Masked().Addr(); prefix.Contains(addr); addr = addr.Next() {
		sem <- struct{}{}
		wg.Add(1)
		go func(ip netip.Addr) {
			defer wg.Done()
			defer func() { <-sem }()
			_ = client.Request(ip)
		}(addr)
	}
	wg.Wait()
}

// collectReplies reads ARP replies until the sweep window closes
func (p *ARPProber) collectReplies(ctx context.Context, conn arpConn, prefix netip.Prefix) []domain.HostRecord {
	deadline := time.Now().Add(p.sweepTimeout)
	_ = conn.SetReadDeadline(deadline)

	seen := make(map[netip.Addr]bool)
	var records []domain.HostRecord

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return records
		default:
		}

		pkt, _, err := conn.Read()
		if err != nil {
			// Deadline exceeded ends the window. Anything else gets a
			// short pause before retrying so a dead socket cannot spin
			// hot for the rest of the window.
			var ne interface{ Timeout() bool }
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			time.Sleep(readErrorBackoff)
			continue
		}

		if pkt.Operation != arp.OperationReply {
			continue
		}
		if !prefix.Contains(pkt.SenderIP) || seen[pkt.SenderIP] {
			continue
		}
		seen[pkt.SenderIP] = true

		mac := pkt.SenderHardwareAddr.String()
		records = append(records, domain.HostRecord{
			IP:     pkt.SenderIP.String(),
			MAC:    mac,
			Vendor: p.vendors.VendorFor(mac),
			Status: domain.HostStatusUp,
		})
	}

	return records
}

// deepProbe runs the optional port/banner probe against each discovered
// host. Failures leave the shallow record untouched.
func (p *ARPProber) deepProbe(ctx context.Context, records []domain.HostRecord) {
	prober := newPortProber(p.deep, p.log)
	prober.probeAll(ctx, records)
}
