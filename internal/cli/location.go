package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grego360/daily-dashboard/internal/logger"
	"github.com/grego360/daily-dashboard/internal/weather"
)

// newLocationCmd looks up coordinates for the weather config section
func newLocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location <place>",
		Short: "Look up coordinates for a place name or postcode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			client := weather.NewClient(0, logger.Console("warn"))
			loc, err := client.Geocode(context.Background(), query)
			if err != nil {
				return fmt.Errorf("geocode %q: %w", query, err)
			}
			if loc == nil {
				return fmt.Errorf("no match for %q", query)
			}

			fmt.Printf("%s\n", loc.Name)
			fmt.Printf("  latitude:  %.4f\n", loc.Latitude)
			fmt.Printf("  longitude: %.4f\n", loc.Longitude)
			fmt.Println("\nAdd to dashboard.yaml:")
			fmt.Printf("weather:\n  enabled: true\n  location_name: %q\n  latitude: %.4f\n  longitude: %.4f\n",
				loc.Name, loc.Latitude, loc.Longitude)
			return nil
		},
	}
}
