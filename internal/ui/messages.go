package ui

import (
	"time"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
	"github.com/grego360/daily-dashboard/internal/feeds"
	"github.com/grego360/daily-dashboard/internal/netinfo"
)

// ConfigReloadedMsg is injected from outside the program when the config
// file changed on disk
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// newsMsg delivers fetched (or cached) feed results
type newsMsg struct {
	results   []feeds.Result
	fromCache bool
}

// weatherMsg delivers the forecast payload
type weatherMsg struct {
	data      domain.WeatherData
	fromCache bool
}

// scanMsg delivers a completed network scan
type scanMsg struct {
	result *domain.ScanResult
}

// netinfoMsg delivers the connectivity summary
type netinfoMsg struct {
	info netinfo.Info
}

// refreshTickMsg fires when the feed/weather refresh interval elapses
type refreshTickMsg time.Time

// scanTickMsg fires when the scan interval elapses
type scanTickMsg time.Time

// clockTickMsg redraws the status bar clock
type clockTickMsg time.Time
