package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestVendorForFallbackTable(t *testing.T) {
	v := NewVendorResolver("", zerolog.Nop())

	tests := []struct {
		mac  string
		want string
	}{
		{"b8:27:eb:12:34:56", "Raspberry Pi"},
		{"B8-27-EB-12-34-56", "Raspberry Pi"},
		{"08:00:27:aa:bb:cc", "VirtualBox"},
		{"ff:ff:ff:00:00:00", ""},
		{"junk", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := v.VendorFor(tt.mac); got != tt.want {
			t.Errorf("VendorFor(%q) = %q, want %q", tt.mac, got, tt.want)
		}
	}
}

func TestVendorForExternalDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manuf")
	db := "# comment line\n" +
		"3C:22:FB\tApple\tApple, Inc.\n" +
		"00:1B:63\tApple\n" +
		"40:00:00/28\tMasked\tignored here\n"
	if err := os.WriteFile(path, []byte(db), 0o644); err != nil {
		t.Fatal(err)
	}

	v := NewVendorResolver(path, zerolog.Nop())

	if got := v.VendorFor("3c:22:fb:00:00:01"); got != "Apple" {
		t.Errorf("VendorFor from database = %q, want Apple", got)
	}
	if got := v.VendorFor("40:00:00:00:00:01"); got != "" {
		t.Errorf("masked prefix should be skipped, got %q", got)
	}
	// Database miss still falls back to the built-in table.
	if got := v.VendorFor("52:54:00:00:00:01"); got != "QEMU" {
		t.Errorf("fallback after database miss = %q, want QEMU", got)
	}
}

func TestVendorForMissingDatabaseIsSilent(t *testing.T) {
	v := NewVendorResolver("/nonexistent/oui.txt", zerolog.Nop())

	// Load failure must not panic and must leave the fallback working.
	if got := v.VendorFor("b8:27:eb:00:00:01"); got != "Raspberry Pi" {
		t.Errorf("VendorFor after failed load = %q, want Raspberry Pi", got)
	}
}

func TestVendorShortening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manuf")
	if err := os.WriteFile(path, []byte("AA:BB:CC\tNETGEAR\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := NewVendorResolver(path, zerolog.Nop())
	if got := v.VendorFor("aa:bb:cc:00:00:01"); got != "Netgear" {
		t.Errorf("shortening not applied: got %q, want Netgear", got)
	}
}

func TestOUIPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aa:bb:cc:dd:ee:ff", "AA:BB:CC"},
		{"AA-BB-CC-DD-EE-FF", "AA:BB:CC"},
		{"aabbccddeeff", "AA:BB:CC"},
		{"aabb", ""},
	}
	for _, tt := range tests {
		if got := ouiPrefix(tt.in); got != tt.want {
			t.Errorf("ouiPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
