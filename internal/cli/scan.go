package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grego360/daily-dashboard/internal/domain"
	"github.com/grego360/daily-dashboard/internal/logger"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a one-shot network scan and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			targets := cfg.Network.Targets
			if name := viper.GetString("target"); name != "" {
				targets = nil
				for _, t := range cfg.Network.Targets {
					if t.Name == name {
						targets = append(targets, t)
					}
				}
				if len(targets) == 0 {
					return fmt.Errorf("no target named %q in config", name)
				}
			}
			if len(targets) == 0 {
				return fmt.Errorf("no scan targets configured")
			}

			log := logger.Console(logLevel(cfg))
			discovery := buildDiscovery(cfg, log)

			ctx := context.Background()
			var results []*domain.ScanResult
			for _, target := range targets {
				results = append(results, discovery.Scan(ctx, target))
			}

			if viper.GetBool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for _, result := range results {
				printResult(result)
			}
			return nil
		},
	}

	cmd.Flags().String("target", "", "Scan only the named target")
	cmd.Flags().Bool("json", false, "Print results as JSON")
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("json", cmd.Flags().Lookup("json"))

	return cmd
}

func printResult(result *domain.ScanResult) {
	fmt.Printf("%s (%s)\n", result.TargetName, result.TargetRange)
	if result.Error != "" {
		fmt.Printf("  error: %s\n", result.Error)
		return
	}

	fmt.Printf("  %d up, %d down in %s\n",
		result.HostsUp(), result.HostsDown(), result.Duration.Round(time.Millisecond))

	for _, h := range result.Hosts {
		status := "up"
		if h.Status == domain.HostStatusDown {
			status = "DOWN"
		}
		line := fmt.Sprintf("  %-15s %-17s %-5s %s", h.IP, h.MAC, status, h.DisplayName())
		if h.IsNew {
			line += "  [new]"
		}
		if h.IsExpected {
			line += "  [expected]"
		}
		fmt.Println(line)
	}
}
