package ui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grego360/daily-dashboard/internal/cache"
	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
	"github.com/grego360/daily-dashboard/internal/feeds"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Settings.UserName = "Sam"
	cfg.Network.Targets = []config.NetworkTarget{
		{Name: "home", Range: "192.168.1.0/24"},
	}

	store := cache.New(filepath.Join(t.TempDir(), "cache.db"), time.Minute, zerolog.Nop())
	t.Cleanup(func() { store.Close() })

	return New(cfg, nil, nil, nil, nil, store, zerolog.Nop())
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		name string
		hour int
		user string
		want string
	}{
		{"morning", 8, "Sam", "Good morning, Sam!"},
		{"afternoon", 14, "", "Good afternoon!"},
		{"evening", 19, "Sam", "Good evening, Sam!"},
		{"night", 23, "", "Good night!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2026, 8, 23, tt.hour, 0, 0, 0, time.Local)
			assert.Equal(t, tt.want, greeting(tt.user, now))
		})
	}
}

func TestGreetingTruncatesLongNames(t *testing.T) {
	long := "Bartholomew Archibald Montgomery Kitt"
	got := greeting(long, time.Date(2026, 8, 23, 9, 0, 0, 0, time.Local))
	assert.Contains(t, got, "…")
	assert.Less(t, len(got), len("Good morning, ")+len(long))
}

func TestScanMsgSetsAndClearsBanner(t *testing.T) {
	m := newTestModel(t)

	failed := domain.NewScanResult("home", "192.168.1.0/24")
	failed.Error = "raw socket access denied - run with elevated privileges"
	updated, _ := m.Update(scanMsg{result: failed})
	m = updated.(*Model)
	assert.NotEmpty(t, m.banner)

	ok := domain.NewScanResult("home", "192.168.1.0/24")
	updated, _ = m.Update(scanMsg{result: ok})
	m = updated.(*Model)
	assert.Empty(t, m.banner, "successful scan clears the banner")
}

func TestNewsMsgStopsSpinnerOnlyForFreshData(t *testing.T) {
	m := newTestModel(t)
	m.fetching = true

	updated, _ := m.Update(newsMsg{results: []feeds.Result{{Name: "hn"}}, fromCache: true})
	m = updated.(*Model)
	assert.True(t, m.fetching, "cached results keep the refresh spinner")

	updated, _ = m.Update(newsMsg{results: []feeds.Result{{Name: "hn"}}})
	m = updated.(*Model)
	assert.False(t, m.fetching)
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, panelNews, m.focus)

	for i := 0; i < int(panelCount); i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = updated.(*Model)
	}
	assert.Equal(t, panelNews, m.focus, "tab wraps around")
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestScanKeyIgnoredWhileScanning(t *testing.T) {
	m := newTestModel(t)
	m.scanning = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Nil(t, cmd)
}

func TestRenderHostMarkers(t *testing.T) {
	m := newTestModel(t)

	up := m.renderHost(domain.HostRecord{
		IP: "192.168.1.5", Hostname: "nas", Status: domain.HostStatusUp,
	})
	assert.Contains(t, up, "nas")
	assert.Contains(t, up, "192.168.1.5")

	fresh := m.renderHost(domain.HostRecord{
		IP: "192.168.1.9", Status: domain.HostStatusUp, IsNew: true,
	})
	assert.Contains(t, fresh, "NEW")

	missing := m.renderHost(domain.HostRecord{
		Hostname: "printer", Status: domain.HostStatusDown, IsExpected: true,
	})
	assert.Contains(t, missing, "expected, missing")

	ports := m.renderHost(domain.HostRecord{
		IP: "192.168.1.2", Status: domain.HostStatusUp, OpenPorts: []int{22, 443},
	})
	assert.Contains(t, ports, "[22 443]")
}

func TestViewRendersAllPanels(t *testing.T) {
	m := newTestModel(t)
	m.width = 120
	m.height = 40

	view := m.View()
	assert.Contains(t, view, "News")
	assert.Contains(t, view, "Weather")
	assert.Contains(t, view, "Links")
	assert.Contains(t, view, "Network")
	assert.Contains(t, view, "Good")
}

func TestReloadDoesNotReachIntoInFlightFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Feeds = []config.FeedConfig{{Name: "before", URL: srv.URL}}

	store := cache.New(filepath.Join(t.TempDir(), "cache.db"), time.Minute, zerolog.Nop())
	t.Cleanup(func() { store.Close() })

	m := New(cfg, feeds.NewFetcher(2*time.Second, zerolog.Nop()), nil, nil, nil, store, zerolog.Nop())

	// Build the command first, then swap the config underneath it, the way a
	// file change lands while a refresh is still running.
	cmd := m.fetchNewsCmd()

	fresh := config.DefaultConfig()
	fresh.Feeds = []config.FeedConfig{{Name: "after", URL: srv.URL}}
	updated, _ := m.Update(ConfigReloadedMsg{Cfg: fresh})
	m = updated.(*Model)

	msg, ok := cmd().(newsMsg)
	require.True(t, ok)
	require.Len(t, msg.results, 1)
	assert.Equal(t, "before", msg.results[0].Name,
		"a command must keep the feed list it was created with")
}

func TestConfigReloadSwapsConfigAndRefetches(t *testing.T) {
	m := newTestModel(t)

	fresh := config.DefaultConfig()
	fresh.Settings.UserName = "Alex"

	updated, cmd := m.Update(ConfigReloadedMsg{Cfg: fresh})
	m = updated.(*Model)

	assert.Equal(t, "Alex", m.cfg.Settings.UserName)
	assert.True(t, m.fetching)
	assert.NotNil(t, cmd, "reload should trigger a refetch")
}

func TestViewShowsBanner(t *testing.T) {
	m := newTestModel(t)
	m.width = 120
	m.banner = "raw socket access denied"

	assert.Contains(t, m.View(), "raw socket access denied")
}
