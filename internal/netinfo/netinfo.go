// Package netinfo gathers the connectivity summary shown in the status bar:
// local and public IP, default gateway, DNS servers and the interface
// inventory. Every probe is best effort; a field that cannot be determined
// stays empty.
package netinfo

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	psnet "github.com/shirou/gopsutil/v3/net"
)

const (
	httpTimeout = 10 * time.Second
	probeAddr   = "8.8.8.8:80"
	maxDNS      = 3
)

// publicIPServices are tried in order until one yields an address
var publicIPServices = []string{
	"https://api.ipify.org?format=json",
	"https://api.my-ip.io/v2/ip.json",
	"https://ipinfo.io/json",
}

// InterfaceInfo is one entry of the interface inventory
type InterfaceInfo struct {
	Name  string   `json:"name"`
	MAC   string   `json:"mac,omitempty"`
	Addrs []string `json:"addrs,omitempty"`
	Up    bool     `json:"up"`
}

// Info is the gathered connectivity summary
type Info struct {
	LocalIP    string          `json:"local_ip,omitempty"`
	PublicIP   string          `json:"public_ip,omitempty"`
	GatewayIP  string          `json:"gateway_ip,omitempty"`
	DNSServers []string        `json:"dns_servers,omitempty"`
	Interfaces []InterfaceInfo `json:"interfaces,omitempty"`
}

// Service collects network information
type Service struct {
	http       *http.Client
	resolvConf string
	services   []string
	log        zerolog.Logger
}

// NewService creates a network info collector
func NewService(log zerolog.Logger) *Service {
	return &Service{
		http:       &http.Client{Timeout: httpTimeout},
		resolvConf: "/etc/resolv.conf",
		services:   publicIPServices,
		log:        log.With().Str("component", "netinfo").Logger(),
	}
}

// Collect gathers all fields concurrently. The public IP lookup is the slow
// one; everything else is local.
func (s *Service) Collect(ctx context.Context) Info {
	var info Info
	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		ip := s.LocalIP()
		mu.Lock()
		info.LocalIP = ip
		mu.Unlock()
	})
	run(func() {
		ip := s.PublicIP(ctx)
		mu.Lock()
		info.PublicIP = ip
		mu.Unlock()
	})
	run(func() {
		gw := s.GatewayIP()
		mu.Lock()
		info.GatewayIP = gw
		mu.Unlock()
	})
	run(func() {
		dns := s.DNSServers()
		mu.Lock()
		info.DNSServers = dns
		mu.Unlock()
	})
	run(func() {
		ifaces := s.Interfaces()
		mu.Lock()
		info.Interfaces = ifaces
		mu.Unlock()
	})

	wg.Wait()
	return info
}

// LocalIP finds the LAN address by opening a UDP socket toward a public
// resolver. No packet is actually sent.
func (s *Service) LocalIP() string {
	conn, err := net.DialTimeout("udp", probeAddr, 2*time.Second)
	if err != nil {
		s.log.Debug().Err(err).Msg("local ip probe failed")
		return ""
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}

// PublicIP queries the fallback list of services until one answers
func (s *Service) PublicIP(ctx context.Context) string {
	for _, url := range s.services {
		ip := s.fetchPublicIP(ctx, url)
		if ip != "" {
			return ip
		}
		if ctx.Err() != nil {
			return ""
		}
	}
	return ""
}

func (s *Service) fetchPublicIP(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := s.http.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Str("service", url).Msg("public ip lookup failed")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		IP     string `json:"ip"`
		Origin string `json:"origin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.IP != "" {
		return body.IP
	}
	return body.Origin
}

// GatewayIP reads the default route from /proc/net/route, falling back to
// netstat on systems without procfs
func (s *Service) GatewayIP() string {
	if gw := gatewayFromProc("/proc/net/route"); gw != "" {
		return gw
	}
	return gatewayFromNetstat()
}

func gatewayFromProc(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Iface Destination Gateway Flags ...
		if len(fields) < 3 || fields[1] != "00000000" {
			continue
		}
		raw, err := strconv.ParseUint(fields[2], 16, 32)
		if err != nil {
			continue
		}
		ip := make(net.IP, 4)
		binary.LittleEndian.PutUint32(ip, uint32(raw))
		return ip.String()
	}
	return ""
}

func gatewayFromNetstat() string {
	out, err := exec.Command("netstat", "-nr").Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if !strings.HasPrefix(lower, "default") && !strings.HasPrefix(line, "0.0.0.0") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.Count(fields[1], ".") == 3 {
			return fields[1]
		}
	}
	return ""
}

// DNSServers parses resolv.conf, capped at the first three nameservers
func (s *Service) DNSServers() []string {
	f, err := os.Open(s.resolvConf)
	if err != nil {
		s.log.Debug().Err(err).Msg("resolv.conf unreadable")
		return nil
	}
	defer f.Close()

	var servers []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		if seen[fields[1]] {
			continue
		}
		seen[fields[1]] = true
		servers = append(servers, fields[1])
		if len(servers) >= maxDNS {
			break
		}
	}
	return servers
}

// Interfaces returns the inventory of up, non-loopback interfaces
func (s *Service) Interfaces() []InterfaceInfo {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		s.log.Debug().Err(err).Msg("interface inventory failed")
		return nil
	}

	var out []InterfaceInfo
	for _, iface := range ifaces {
		up := false
		loopback := false
		for _, flag := range iface.Flags {
			switch flag {
			case "up":
				up = true
			case "loopback":
				loopback = true
			}
		}
		if loopback {
			continue
		}

		entry := InterfaceInfo{Name: iface.Name, MAC: iface.HardwareAddr, Up: up}
		for _, addr := range iface.Addrs {
			entry.Addrs = append(entry.Addrs, addr.Addr)
		}
		out = append(out, entry)
	}
	return out
}
