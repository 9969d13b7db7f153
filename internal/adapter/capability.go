package adapter

import (
	"fmt"
	"net"
	"net/netip"
	"os"
)

// Capability holds what was probed up front about the scanning environment.
// Detection happens once at prober construction; nothing deeper in the sweep
// branches on platform or privilege.
type Capability struct {
	Iface        *net.Interface
	Prefix       netip.Prefix
	EffectiveUID int
}

// HasRawSocket reports whether ARP injection is likely to work
func (c *Capability) HasRawSocket() bool {
	return c.EffectiveUID == 0
}

// DetectCapability resolves the scan interface (by name, or the first usable
// one) and records the effective UID for privilege reporting
func DetectCapability(ifaceName string) (*Capability, error) {
	var (
		iface *net.Interface
		ipnet *net.IPNet
		err   error
	)

	if ifaceName != "" {
		iface, ipnet, err = interfaceByName(ifaceName)
	} else {
		iface, ipnet, err = defaultInterface()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInterface, err)
	}

	prefix, err := netip.ParsePrefix(ipnet.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInterface, err)
	}

	return &Capability{
		Iface:        iface,
		Prefix:       prefix,
		EffectiveUID: os.Geteuid(),
	}, nil
}

func interfaceByName(name string) (*net.Interface, *net.IPNet, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, nil, err
	}

	ipnet, err := firstIPv4Net(iface)
	if err != nil {
		return nil, nil, err
	}

	return iface, ipnet, nil
}

func defaultInterface() (*net.Interface, *net.IPNet, error) {
	ifaces, _ := net.Interfaces()

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		ipnet, err := firstIPv4Net(&iface)
		if err == nil {
			return &iface, ipnet, nil
		}
	}
	return nil, nil, fmt.Errorf("no up, non-loopback IPv4 interface")
}

func firstIPv4Net(iface *net.Interface) (*net.IPNet, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil {
			return ipnet, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address on %s", iface.Name)
}
