// Package cli wires the cobra command tree. Running the binary without a
// subcommand starts the dashboard TUI; `scan` runs a one-shot network scan
// for terminals and scripts.
package cli

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grego360/daily-dashboard/internal/adapter"
	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/ledger"
	"github.com/grego360/daily-dashboard/internal/resolver"
	"github.com/grego360/daily-dashboard/internal/service"
)

var (
	Version = "dev"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Personal terminal dashboard",
		Long: "A terminal dashboard aggregating news feeds, weather, saved links\n" +
			"and local-network host discovery.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Environment variable support (DASHBOARD_CONFIG, etc.)
	viper.SetEnvPrefix("DASHBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newLocationCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config path from flag, environment, then the
// default search locations. The path the config was read from is returned
// for the file watcher.
func loadConfig() (*config.Config, string, error) {
	if path := viper.GetString("config"); path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// logLevel returns the effective log level, with --verbose winning over the
// configured level
func logLevel(cfg *config.Config) string {
	if viper.GetBool("verbose") {
		return "debug"
	}
	return cfg.Settings.LogLevel
}

// buildDiscovery assembles the scan pipeline from configuration
func buildDiscovery(cfg *config.Config, log zerolog.Logger) *service.Discovery {
	vendors := resolver.NewVendorResolver(cfg.Network.OUIDatabase, log)
	prober := adapter.New(cfg.Network, vendors, log)

	// A nil interface lets the kernel pick one for the multicast listen.
	var iface *net.Interface
	if cfg.Network.Interface != "" {
		iface, _ = net.InterfaceByName(cfg.Network.Interface)
	}
	browser := resolver.NewServiceBrowser(iface)
	hostnames := resolver.NewHostnameResolver(
		browser,
		cfg.Network.DNSTimeout.Std(),
		cfg.Network.MDNSTimeout.Std(),
		log,
	)

	store := ledger.New(cfg.Network.KnownHostsPath, log)
	return service.NewDiscovery(prober, hostnames, store, log)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dashboard", Version)
		},
	}
}
