package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grego360/daily-dashboard/internal/cache"
	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/feeds"
	"github.com/grego360/daily-dashboard/internal/logger"
	"github.com/grego360/daily-dashboard/internal/netinfo"
	"github.com/grego360/daily-dashboard/internal/ui"
	"github.com/grego360/daily-dashboard/internal/watcher"
	"github.com/grego360/daily-dashboard/internal/weather"
)

// runDashboard starts the interactive TUI. Logs go to a file next to the
// cache database; the terminal belongs to the UI.
func runDashboard() error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logPath := filepath.Join(filepath.Dir(cfg.Settings.CachePath), "dashboard.log")
	w := logger.FileWriter(logPath)
	log := logger.New(logLevel(cfg), w)
	defer func() {
		if c, ok := w.(io.Closer); ok {
			c.Close()
		}
	}()

	store := cache.New(cfg.Settings.CachePath, cfg.Settings.CacheTTL.Std(), log)
	defer store.Close()

	model := ui.New(
		cfg,
		feeds.NewFetcher(0, log),
		weather.NewClient(0, log),
		netinfo.NewService(log),
		buildDiscovery(cfg, log),
		store,
		log,
	)

	log.Info().Str("version", Version).Msg("dashboard starting")

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Reload the config in place when the file changes on disk.
	if cfgPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			w := watcher.New(cfgPath, log)
			err := w.Watch(ctx, func() {
				reloaded, _, err := config.LoadFromPath(cfgPath)
				if err != nil {
					log.Warn().Err(err).Msg("config reload failed, keeping previous config")
					return
				}
				program.Send(ui.ConfigReloadedMsg{Cfg: reloaded})
			})
			if err != nil && err != context.Canceled {
				log.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
