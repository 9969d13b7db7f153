// Package ledger persists the history of discovered hosts so that a scan can
// distinguish genuinely new devices from ones that were simply away.
//
// The ledger is keyed by MAC address (lower-cased). Entries are created the
// first time a MAC is observed and never deleted automatically; subsequent
// observations refresh last_seen and update ip/hostname/vendor only with
// non-empty values.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPath is the known-hosts file used when none is configured
const DefaultPath = "known_hosts.json"

// KnownHost is one ledger entry. Timestamps serialize as RFC 3339 strings.
type KnownHost struct {
	MAC       string    `json:"mac"`
	IP        string    `json:"ip"`
	Hostname  string    `json:"hostname"`
	Vendor    string    `json:"vendor"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// ledgerFile is the on-disk document shape
type ledgerFile struct {
	Hosts map[string]json.RawMessage `json:"hosts"`
}

// Store is the durable known-host ledger. It is the only writer of KnownHost
// records; concurrent Update calls are serialized so that overlapping
// UI-triggered and timer-triggered scans cannot race.
type Store struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	hosts  map[string]*KnownHost
	loaded bool
}

// New creates a ledger backed by the given file path
func New(path string, log zerolog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{
		path:  path,
		log:   log.With().Str("component", "ledger").Logger(),
		hosts: make(map[string]*KnownHost),
	}
}

// Load reads the persisted ledger. A missing file is an empty ledger;
// malformed entries are skipped individually; an unreadable or malformed
// file resets to an empty ledger rather than failing the caller.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

func (s *Store) loadLocked() {
	s.hosts = make(map[string]*KnownHost)
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error().Err(err).Str("path", s.path).Msg("read known hosts")
		}
		return
	}

	var file ledgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("invalid known hosts file, starting empty")
		return
	}

	for mac, raw := range file.Hosts {
		var h KnownHost
		if err := json.Unmarshal(raw, &h); err != nil {
			s.log.Warn().Err(err).Str("mac", mac).Msg("skipping invalid known host entry")
			continue
		}
		key := strings.ToLower(mac)
		h.MAC = key
		s.hosts[key] = &h
	}

	s.log.Debug().Int("count", len(s.hosts)).Msg("loaded known hosts")
}

// IsKnown reports whether a MAC address has been seen before
func (s *Store) IsKnown(mac string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}
	_, ok := s.hosts[strings.ToLower(mac)]
	return ok
}

// Get returns a copy of the entry for a MAC address, or nil
func (s *Store) Get(mac string) *KnownHost {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}
	h, ok := s.hosts[strings.ToLower(mac)]
	if !ok {
		return nil
	}
	cp := *h
	return &cp
}

// Update upserts an entry and returns true iff this MAC had never been seen
// before. last_seen is always bumped; ip/hostname/vendor are only replaced
// by non-empty incoming values.
func (s *Store) Update(mac, ip, hostname, vendor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}

	key := strings.ToLower(mac)
	now := time.Now()

	if h, ok := s.hosts[key]; ok {
		if ip != "" {
			h.IP = ip
		}
		if hostname != "" {
			h.Hostname = hostname
		}
		if vendor != "" {
			h.Vendor = vendor
		}
		h.LastSeen = now
		return false
	}

	s.hosts[key] = &KnownHost{
		MAC:       key,
		IP:        ip,
		Hostname:  hostname,
		Vendor:    vendor,
		FirstSeen: now,
		LastSeen:  now,
	}
	return true
}

// Save serializes the full ledger with a whole-file atomic replace. On
// failure the in-memory state is untouched and the caller decides whether to
// retry or live with the stale file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}

	file := ledgerFile{Hosts: make(map[string]json.RawMessage, len(s.hosts))}
	for mac, h := range s.hosts {
		raw, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("marshal known host %s: %w", mac, err)
		}
		file.Hosts[mac] = raw
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal known hosts: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write known hosts: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace known hosts: %w", err)
	}

	s.log.Debug().Int("count", len(s.hosts)).Msg("saved known hosts")
	return nil
}

// All returns a copy of every entry, keyed by MAC
func (s *Store) All() map[string]KnownHost {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}

	out := make(map[string]KnownHost, len(s.hosts))
	for mac, h := range s.hosts {
		out[mac] = *h
	}
	return out
}

// Count returns the number of known hosts
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loadLocked()
	}
	return len(s.hosts)
}
