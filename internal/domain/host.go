package domain

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"
)

// HostStatus indicates the reachability of a discovered host
type HostStatus string

const (
	HostStatusUp      HostStatus = "up"
	HostStatusDown    HostStatus = "down"
	HostStatusUnknown HostStatus = "unknown"
)

// HostRecord represents one physical device observed in a single scan.
// A record synthesized for a missing expected host carries no MAC and no
// open ports.
type HostRecord struct {
	IP         string     `json:"ip"`
	MAC        string     `json:"mac,omitempty"`
	Hostname   string     `json:"hostname,omitempty"`
	Vendor     string     `json:"vendor,omitempty"`
	Status     HostStatus `json:"status"`
	OpenPorts  []int      `json:"open_ports,omitempty"`
	IsExpected bool       `json:"is_expected"`
	IsNew      bool       `json:"is_new"`
}

// DisplayName returns the best available name for display
func (h HostRecord) DisplayName() string {
	if h.Hostname != "" {
		return h.Hostname
	}
	if h.Vendor != "" {
		return fmt.Sprintf("%s (%s)", h.IP, h.Vendor)
	}
	return h.IP
}

// Identifiers returns the lower-cased identity set used for expected-host
// matching: hostname, IP, and MAC. Empty fields are omitted.
func (h HostRecord) Identifiers() []string {
	ids := make([]string, 0, 3)
	for _, id := range []string{h.Hostname, h.IP, h.MAC} {
		if id != "" {
			ids = append(ids, strings.ToLower(id))
		}
	}
	return ids
}

// SortHosts orders records for display: ascending numeric order by address
// octets, addresses that fail to parse after all parseable ones, records
// without an address last.
func SortHosts(hosts []HostRecord) {
	sort.SliceStable(hosts, func(i, j int) bool {
		return hostLess(hosts[i], hosts[j])
	})
}

func hostLess(a, b HostRecord) bool {
	if a.IP == "" || b.IP == "" {
		return a.IP != "" && b.IP == ""
	}

	ipA, errA := netip.ParseAddr(a.IP)
	ipB, errB := netip.ParseAddr(b.IP)

	switch {
	case errA == nil && errB == nil:
		return ipA.Less(ipB)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a.IP < b.IP
	}
}
