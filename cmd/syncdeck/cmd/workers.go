package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/syncdeck/syncdeck/internal/api"
	"github.com/syncdeck/syncdeck/internal/channel"
	"github.com/syncdeck/syncdeck/internal/client/output"

	"github.com/spf13/cobra"
)

var exitOnDrop bool

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "Watch the worker roster in real time",
	Long: `Watch the full collection of known sync workers and their claim state.
The roster re-renders on every server update until interrupted.`,
	Run: workersRun,
}

func init() {
	workersCmd.Flags().BoolVar(&exitOnDrop, "exit-on-drop", false,
		"Exit instead of reconnecting when an established channel drops (the roster would be stale)")
	rootCmd.AddCommand(workersCmd)
}

func workersRun(_ *cobra.Command, _ []string) {
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

	var policy *channel.ReloadPolicy
	if exitOnDrop {
		policy = &channel.ReloadPolicy{
			Notifier: outputNotifier{},
			Reload:   func() { os.Exit(3) },
		}
	}

	ch := channel.NewWorkersChannel(chCfg, policy)
	ch.OnUpdate = func(workers []api.WorkerSnapshot) {
		renderWorkers(workers)
	}
	defer ch.Close()

	output.Infof("Watching worker roster. Press Ctrl+C to exit.")
	ch.Start()

	waitForInterrupt()
	output.Infof("Closing worker channel...")
}

// renderWorkers prints the roster as a table.
func renderWorkers(workers []api.WorkerSnapshot) {
	output.Blank()
	rows := make([][]string, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, formatWorkerRow(w))
	}
	output.Table([]string{"Client ID", "Hostname", "Claimed", "Linked User", "Last Ping"}, rows)
	output.Blank()
}

// formatWorkerRow converts one snapshot into displayable table cells.
func formatWorkerRow(w api.WorkerSnapshot) []string {
	claimed := output.Gray("no")
	if w.Claimed {
		claimed = output.Green("yes")
	}
	return []string{
		output.Bold(w.ClientID),
		stringOrDash(w.Hostname),
		claimed,
		stringOrDash(w.LinkedUser),
		stringOrDash(w.LastPingResponse),
	}
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// outputNotifier adapts the output package to the channel.Notifier interface.
type outputNotifier struct{}

func (outputNotifier) Warnf(format string, args ...any) {
	output.Warningf(format, args...)
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}
