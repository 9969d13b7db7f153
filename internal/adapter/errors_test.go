package adapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/grego360/daily-dashboard/internal/config"
)

func TestIsCapabilityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"privilege", ErrPrivilege, true},
		{"wrapped privilege", fmt.Errorf("%w: operation not permitted", ErrPrivilege), true},
		{"no interface", ErrNoInterface, true},
		{"nmap missing", ErrNmapUnavailable, true},
		{"ordinary error", errors.New("dns timeout"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCapabilityError(tt.err); got != tt.want {
				t.Errorf("IsCapabilityError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCapabilityHasRawSocket(t *testing.T) {
	root := &Capability{EffectiveUID: 0}
	if !root.HasRawSocket() {
		t.Error("euid 0 should report raw socket access")
	}

	user := &Capability{EffectiveUID: 1000}
	if user.HasRawSocket() {
		t.Error("unprivileged euid should not report raw socket access")
	}
}

func TestAdapterSelection(t *testing.T) {
	vendors := vendorFunc(func(string) string { return "" })

	arp := New(config.NetworkConfig{Scanner: config.ScannerARP}, vendors, testLogger())
	if arp.Name() != "arp" {
		t.Errorf("default prober = %q, want arp", arp.Name())
	}

	nm := New(config.NetworkConfig{Scanner: config.ScannerNmap}, vendors, testLogger())
	if nm.Name() != "nmap" {
		t.Errorf("nmap prober = %q, want nmap", nm.Name())
	}
}

type vendorFunc func(mac string) string

func (f vendorFunc) VendorFor(mac string) string { return f(mac) }
