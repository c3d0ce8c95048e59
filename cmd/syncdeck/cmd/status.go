package cmd

import (
	"github.com/syncdeck/syncdeck/internal/channel"
	"github.com/syncdeck/syncdeck/internal/client/output"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Watch the linked worker's reachability",
	Long: `Watch whether your linked sync worker is currently reachable.
Reports every transition until interrupted.`,
	Run: statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		output.Errorf(err.Error())
		return
	}

	chCfg, err := buildChannelConfig(cfg)
	if err != nil {
		output.Errorf(err.Error())
		return
	}

	ch := channel.NewStatusChannel(chCfg)
	ch.OnUnavailable = func() {
		output.Warningf("Linked worker became unreachable")
	}
	ch.OnChange = func(a channel.Availability) {
		output.Printf("worker is %s\n", formatAvailability(a))
	}
	defer ch.Close()

	output.Infof("Watching linked worker status. Press Ctrl+C to exit.")
	ch.Start()

	waitForInterrupt()
	output.Infof("Closing status channel...")
}

// formatAvailability colors the tri-state for terminal display.
func formatAvailability(a channel.Availability) string {
	switch a {
	case channel.AvailabilityAvailable:
		return output.Green(a.String())
	case channel.AvailabilityUnavailable:
		return output.Red(a.String())
	default:
		return output.Gray(a.String())
	}
}
