package adapter

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

// maxConcurrentDeepProbes bounds how many hosts are port-probed at once
const maxConcurrentDeepProbes = 10

// portProber performs the bounded connect/banner probe of the deep scan
// mode. It only ever adds information to a record; any failure leaves the
// shallow result intact.
type portProber struct {
	ports         []int
	timeout       time.Duration
	bannerTimeout time.Duration
	log           zerolog.Logger
}

func newPortProber(cfg config.DeepProbeConfig, log zerolog.Logger) *portProber {
	timeout := cfg.BannerTimeout.Std()
	if timeout <= 0 {
		timeout = time.Second
	}
	return &portProber{
		ports:         cfg.Ports,
		timeout:       timeout,
		bannerTimeout: timeout,
		log:           log,
	}
}

// probeAll scans every record's configured ports, a bounded number of hosts
// at a time
func (p *portProber) probeAll(ctx context.Context, records []domain.HostRecord) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentDeepProbes)

	for i := range records {
		wg.Add(1)
		go func(rec *domain.HostRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			rec.OpenPorts = p.probeHost(ctx, rec.IP)
		}(&records[i])
	}
	wg.Wait()
}

// probeHost returns the sorted open ports on one host
func (p *portProber) probeHost(ctx context.Context, ip string) []int {
	var (
		mu   sync.Mutex
		open []int
		wg   sync.WaitGroup
	)

	for _, port := range p.ports {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			if !p.probePort(ctx, ip, port) {
				return
			}
			if banner := p.grabBanner(ip, port); banner != "" {
				p.log.Debug().Str("ip", ip).Int("port", port).Str("banner", banner).Msg("service banner")
			}
			mu.Lock()
			open = append(open, port)
			mu.Unlock()
		}(port)
	}
	wg.Wait()

	sort.Ints(open)
	return open
}

// probePort attempts a TCP connect within the probe timeout
func (p *portProber) probePort(ctx context.Context, ip string, port int) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", ip, port))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// grabBanner reads the first line a service volunteers. HTTP ports get a
// HEAD request first since they say nothing unprompted.
func (p *portProber) grabBanner(ip string, port int) string {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", ip, port), p.timeout)
	if err != nil {
		return ""
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(p.bannerTimeout))

	if port == 80 || port == 8080 {
		fmt.Fprintf(conn, "HEAD / HTTP/1.0\r\nHost: %s\r\n\r\n", ip)
	}

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return ""
	}

	banner := string(buf[:n])
	if idx := strings.Index(banner, "\n"); idx > 0 {
		banner = banner[:idx]
	}
	banner = strings.TrimSpace(banner)

	if len(banner) > 100 {
		banner = banner[:100] + "..."
	}
	return banner
}
