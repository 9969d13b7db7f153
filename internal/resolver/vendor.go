// Package resolver enriches raw host records with human-readable identity:
// a vendor name derived from the MAC prefix and a hostname resolved through
// mDNS snooping and reverse DNS.
package resolver

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// fallbackVendors covers the prefixes most likely to show up on a home
// network when no external OUI database is configured
var fallbackVendors = map[string]string{
	"00:50:56": "VMware",
	"00:0C:29": "VMware",
	"08:00:27": "VirtualBox",
	"52:54:00": "QEMU",
	"B8:27:EB": "Raspberry Pi",
	"DC:A6:32": "Raspberry Pi",
	"E4:5F:01": "Raspberry Pi",
	"00:17:88": "Philips Hue",
	"EC:B5:FA": "Philips Hue",
	"18:FE:34": "Espressif",
}

// vendorShortenings collapses long legal names to the form people actually
// use. Applied regardless of which source produced the vendor.
var vendorShortenings = map[string]string{
	"Apple, Inc.":                   "Apple",
	"Samsung Electronics Co.,Ltd":   "Samsung",
	"Intel Corporate":               "Intel",
	"Raspberry Pi Foundation":       "Raspberry Pi",
	"Raspberry Pi Trading Ltd":      "Raspberry Pi",
	"HUAWEI TECHNOLOGIES CO.,LTD":   "Huawei",
	"Amazon Technologies Inc.":      "Amazon",
	"Google, Inc.":                  "Google",
	"Microsoft Corporation":         "Microsoft",
	"Sony Corporation":              "Sony",
	"LG Electronics":                "LG",
	"Xiaomi Communications Co Ltd":  "Xiaomi",
	"TP-LINK TECHNOLOGIES CO.,LTD.": "TP-Link",
	"ASUSTek COMPUTER INC.":         "ASUS",
	"Hewlett Packard":               "HP",
	"Dell Inc.":                     "Dell",
	"Cisco Systems, Inc":            "Cisco",
	"NETGEAR":                       "Netgear",
	"Belkin International Inc.":     "Belkin",
	"Espressif Inc.":                "Espressif",
}

// VendorResolver maps MAC address prefixes to manufacturer names. An
// optional external prefix database (Wireshark manuf format) is loaded
// lazily on first use; a load failure is silent and permanent for this
// instance, falling back to the built-in table.
type VendorResolver struct {
	dbPath string
	log    zerolog.Logger

	once sync.Once
	db   map[string]string // "AA:BB:CC" -> vendor, nil when unavailable
}

// NewVendorResolver creates a resolver. dbPath may be empty, in which case
// only the built-in fallback table is consulted.
func NewVendorResolver(dbPath string, log zerolog.Logger) *VendorResolver {
	return &VendorResolver{
		dbPath: dbPath,
		log:    log.With().Str("component", "vendor").Logger(),
	}
}

// VendorFor returns the manufacturer name for a MAC address, or empty when
// unknown. Never fails.
func (v *VendorResolver) VendorFor(mac string) string {
	prefix := ouiPrefix(mac)
	if prefix == "" {
		return ""
	}

	v.once.Do(v.loadDB)

	if v.db != nil {
		if name, ok := v.db[prefix]; ok {
			return shortenVendor(name)
		}
	}

	if name, ok := fallbackVendors[prefix]; ok {
		return shortenVendor(name)
	}
	return ""
}

// loadDB parses the external prefix database once. Any failure leaves db nil
// for the lifetime of this instance.
func (v *VendorResolver) loadDB() {
	if v.dbPath == "" {
		return
	}

	f, err := os.Open(v.dbPath)
	if err != nil {
		v.log.Debug().Err(err).Str("path", v.dbPath).Msg("oui database unavailable")
		return
	}
	defer f.Close()

	db := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Skip longer-than-/24 mask entries; prefix matching here is
		// strictly on the first three octets.
		prefix := strings.ToUpper(fields[0])
		if strings.Contains(prefix, "/") || len(prefix) != 8 {
			continue
		}
		db[prefix] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		v.log.Debug().Err(err).Str("path", v.dbPath).Msg("oui database read failed")
		return
	}

	v.db = db
	v.log.Debug().Int("prefixes", len(db)).Msg("loaded oui database")
}

// ouiPrefix normalizes the first three octets of a MAC to "AA:BB:CC"
func ouiPrefix(mac string) string {
	mac = strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(mac, "-", ""), ":", ""))
	if len(mac) < 6 {
		return ""
	}
	return mac[0:2] + ":" + mac[2:4] + ":" + mac[4:6]
}

func shortenVendor(name string) string {
	if short, ok := vendorShortenings[name]; ok {
		return short
	}
	return name
}
