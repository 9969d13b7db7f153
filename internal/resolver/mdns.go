package resolver

import (
	"context"
	"net"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// ServiceBrowser discovers hostnames through local service-discovery
// broadcast. Snoop returns a lower-cased MAC -> name map; best effort, an
// empty map on any failure.
type ServiceBrowser interface {
	Snoop(ctx context.Context, timeout time.Duration) map[string]string
}

// NewServiceBrowser selects the platform implementation at construction
// time. On platforms without multicast DNS snooping support the returned
// browser always yields an empty map.
func NewServiceBrowser(iface *net.Interface) ServiceBrowser {
	switch runtime.GOOS {
	case "linux", "darwin":
		return &mdnsBrowser{iface: iface}
	default:
		return noopBrowser{}
	}
}

// noopBrowser is the unsupported-platform implementation
type noopBrowser struct{}

func (noopBrowser) Snoop(context.Context, time.Duration) map[string]string {
	return map[string]string{}
}

// workstation service instances embed the MAC in the instance name:
// "RPI-Homebridge [dc:a6:32:6e:ec:7c]._workstation._tcp.local."
var macInName = regexp.MustCompile(`\[([0-9a-fA-F:]{17})\]`)

const (
	mdnsAddr           = "224.0.0.251"
	mdnsPort           = 5353
	workstationService = "_workstation._tcp.local."
)

// mdnsBrowser browses _workstation._tcp over multicast DNS
type mdnsBrowser struct {
	iface *net.Interface
}

// Snoop sends a PTR query for the workstation service and collects answers
// until the timeout window closes. Every failure path degrades to an empty
// map.
func (b *mdnsBrowser) Snoop(ctx context.Context, timeout time.Duration) map[string]string {
	out := map[string]string{}

	addr := &net.UDPAddr{IP: net.ParseIP(mdnsAddr), Port: mdnsPort}
	conn, err := net.ListenMulticastUDP("udp4", b.iface, addr)
	if err != nil {
		return out
	}
	defer conn.Close()

	_ = conn.SetReadBuffer(1 << 20)

	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(workstationService), dns.TypePTR)
	packed, err := q.Pack()
	if err != nil {
		return out
	}

	// Send twice; multicast queries get dropped often enough that a
	// single shot misses sleepy responders.
	_, _ = conn.WriteToUDP(packed, addr)
	time.Sleep(50 * time.Millisecond)
	_, _ = conn.WriteToUDP(packed, addr)

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 65536)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		m := new(dns.Msg)
		if err := m.Unpack(buf[:n]); err != nil {
			continue
		}

		for _, rr := range append(m.Answer, m.Extra...) {
			mac, name := parseWorkstationRecord(rr)
			if mac != "" && name != "" {
				out[mac] = name
			}
		}
	}

	return out
}

// parseWorkstationRecord extracts (mac, hostname) from a workstation PTR or
// SRV record, returning empty strings when the record is something else
func parseWorkstationRecord(rr dns.RR) (mac, name string) {
	var instance string
	switch t := rr.(type) {
	case *dns.PTR:
		instance = t.Ptr
	case *dns.SRV:
		instance = t.Hdr.Name
	default:
		return "", ""
	}

	if !strings.Contains(instance, "_workstation._tcp") {
		return "", ""
	}

	m := macInName.FindStringSubmatch(instance)
	if m == nil {
		return "", ""
	}
	mac = strings.ToLower(m[1])

	// Instance label before the bracketed MAC is the advertised name.
	label := instance
	if idx := strings.Index(label, "._workstation._tcp"); idx > 0 {
		label = label[:idx]
	}
	label = macInName.ReplaceAllString(label, "")
	name = strings.TrimSpace(unescapeDNSLabel(label))

	return mac, name
}

// unescapeDNSLabel undoes the \032 style escaping miekg/dns applies to
// spaces in instance names
func unescapeDNSLabel(s string) string {
	s = strings.ReplaceAll(s, `\032`, " ")
	s = strings.ReplaceAll(s, `\ `, " ")
	return s
}
