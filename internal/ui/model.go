// Package ui renders the dashboard as a bubbletea terminal application.
// All network work (feeds, weather, scans) runs in commands off the event
// loop; the model only ever sees completed results as messages.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/cache"
	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
	"github.com/grego360/daily-dashboard/internal/feeds"
	"github.com/grego360/daily-dashboard/internal/netinfo"
	"github.com/grego360/daily-dashboard/internal/service"
	"github.com/grego360/daily-dashboard/internal/weather"
)

type panel int

const (
	panelNews panel = iota
	panelWeather
	panelLinks
	panelNetwork
	panelCount
)

const (
	cacheKeyNews    = "news"
	cacheKeyWeather = "weather"
	cacheKeyNetinfo = "netinfo"
)

// cachedFeed is the serializable subset of a feed result
type cachedFeed struct {
	Name  string            `json:"name"`
	Items []domain.NewsItem `json:"items"`
}

// Model is the root bubbletea model for the dashboard
type Model struct {
	cfg       *config.Config
	fetcher   *feeds.Fetcher
	weather   *weather.Client
	netinfo   *netinfo.Service
	discovery *service.Discovery
	store     *cache.Cache
	log       zerolog.Logger

	styles styles
	spin   spinner.Model
	width  int
	height int
	focus  panel

	news        []feeds.Result
	weatherData *domain.WeatherData
	info        *netinfo.Info
	scans       map[string]*domain.ScanResult
	banner      string
	fetching    bool
	scanning    bool
	clock       time.Time
}

// New assembles the dashboard model from its collaborators
func New(
	cfg *config.Config,
	fetcher *feeds.Fetcher,
	weatherClient *weather.Client,
	netinfoSvc *netinfo.Service,
	discovery *service.Discovery,
	store *cache.Cache,
	log zerolog.Logger,
) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPurple))

	return &Model{
		cfg:       cfg,
		fetcher:   fetcher,
		weather:   weatherClient,
		netinfo:   netinfoSvc,
		discovery: discovery,
		store:     store,
		log:       log.With().Str("component", "ui").Logger(),
		styles:    newStyles(),
		spin:      sp,
		scans:     make(map[string]*domain.ScanResult),
		clock:     time.Now(),
	}
}

// Init kicks off the first refresh and the periodic timers
func (m *Model) Init() tea.Cmd {
	m.fetching = true
	m.scanning = len(m.cfg.Network.Targets) > 0

	cmds := []tea.Cmd{
		m.spin.Tick,
		m.fetchNewsCmd(),
		m.fetchWeatherCmd(),
		m.collectNetinfoCmd(),
		m.refreshTimer(),
		m.clockTimer(),
	}
	cmds = append(cmds, m.scanCmds()...)
	if len(m.cfg.Network.Targets) > 0 {
		cmds = append(cmds, m.scanTimer())
	}
	return tea.Batch(cmds...)
}

// Update routes messages to state changes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case newsMsg:
		m.news = msg.results
		if !msg.fromCache {
			m.fetching = false
		}
		return m, nil

	case weatherMsg:
		data := msg.data
		m.weatherData = &data
		return m, nil

	case netinfoMsg:
		info := msg.info
		m.info = &info
		return m, nil

	case scanMsg:
		m.scanning = false
		m.scans[msg.result.TargetName] = msg.result
		if msg.result.Error != "" {
			m.banner = msg.result.Error
		} else {
			m.banner = ""
		}
		return m, nil

	case refreshTickMsg:
		m.fetching = true
		return m, tea.Batch(
			m.fetchNewsCmd(),
			m.fetchWeatherCmd(),
			m.collectNetinfoCmd(),
			m.refreshTimer(),
		)

	case scanTickMsg:
		m.scanning = true
		cmds := append(m.scanCmds(), m.scanTimer())
		return m, tea.Batch(cmds...)

	case clockTickMsg:
		m.clock = time.Time(msg)
		return m, m.clockTimer()

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.fetching = true
		m.store.Clear(cacheKeyNews)
		m.store.Clear(cacheKeyWeather)
		m.log.Info().Msg("configuration reloaded")
		return m, tea.Batch(m.fetchNewsCmd(), m.fetchWeatherCmd(), m.collectNetinfoCmd())
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.fetching = true
		m.store.Clear(cacheKeyNews)
		m.store.Clear(cacheKeyWeather)
		return m, tea.Batch(m.fetchNewsCmd(), m.fetchWeatherCmd(), m.collectNetinfoCmd())

	case "s":
		if m.scanning || len(m.cfg.Network.Targets) == 0 {
			return m, nil
		}
		m.scanning = true
		return m, tea.Batch(m.scanCmds()...)

	case "tab":
		m.focus = (m.focus + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focus = (m.focus + panelCount - 1) % panelCount
		return m, nil

	case "1", "2", "3", "4":
		m.focus = panel(msg.String()[0] - '1')
		return m, nil
	}

	return m, nil
}

// fetchNewsCmd serves fresh cache hits immediately, otherwise fetches and
// re-primes the cache. The feed list is snapshotted here; a config reload
// may swap m.cfg while the command is still running.
func (m *Model) fetchNewsCmd() tea.Cmd {
	cfgs := m.cfg.Feeds
	return func() tea.Msg {
		var cached []cachedFeed
		if m.store.Get(cacheKeyNews, &cached) {
			return newsMsg{results: uncachedResults(cached), fromCache: true}
		}

		results := m.fetcher.FetchAll(context.Background(), cfgs)
		if allFailed(results) && m.store.GetStale(cacheKeyNews, &cached) {
			return newsMsg{results: uncachedResults(cached)}
		}
		m.store.Set(cacheKeyNews, cacheableResults(results))
		return newsMsg{results: results}
	}
}

func (m *Model) fetchWeatherCmd() tea.Cmd {
	cfg := m.cfg.Weather
	return func() tea.Msg {
		var cached domain.WeatherData
		if m.store.Get(cacheKeyWeather, &cached) {
			return weatherMsg{data: cached, fromCache: true}
		}

		data := m.weather.Fetch(context.Background(), cfg)
		if data.Error != "" {
			// Stale data beats an error panel while the API is down.
			var stale domain.WeatherData
			if m.store.GetStale(cacheKeyWeather, &stale) {
				return weatherMsg{data: stale}
			}
		} else {
			m.store.Set(cacheKeyWeather, data)
		}
		return weatherMsg{data: data}
	}
}

func (m *Model) collectNetinfoCmd() tea.Cmd {
	return func() tea.Msg {
		var cached netinfo.Info
		if m.store.Get(cacheKeyNetinfo, &cached) {
			return netinfoMsg{info: cached}
		}

		info := m.netinfo.Collect(context.Background())
		m.store.Set(cacheKeyNetinfo, info)
		return netinfoMsg{info: info}
	}
}

// scanCmds returns one command per configured target
func (m *Model) scanCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for _, target := range m.cfg.Network.Targets {
		target := target
		cmds = append(cmds, func() tea.Msg {
			return scanMsg{result: m.discovery.Scan(context.Background(), target)}
		})
	}
	return cmds
}

func (m *Model) refreshTimer() tea.Cmd {
	return tea.Tick(m.cfg.Settings.RefreshInterval.Std(), func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m *Model) scanTimer() tea.Cmd {
	return tea.Tick(m.cfg.Network.ScanInterval.Std(), func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

func (m *Model) clockTimer() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func allFailed(results []feeds.Result) bool {
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return len(results) > 0
}

func cacheableResults(results []feeds.Result) []cachedFeed {
	var out []cachedFeed
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		out = append(out, cachedFeed{Name: r.Name, Items: r.Items})
	}
	return out
}

func uncachedResults(cached []cachedFeed) []feeds.Result {
	out := make([]feeds.Result, len(cached))
	for i, c := range cached {
		out[i] = feeds.Result{Name: c.Name, Items: c.Items}
	}
	return out
}
