package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive feeding dashboard",
	Long: `Open an interactive terminal dashboard to feed and schedule feedings.

The dashboard shows:
  - Pending schedules, soonest first
  - A form for picking a date and time
  - The last feed and whether the device confirmed it

Keyboard Controls:
  f - Feed now
  a - Open the new schedule form
  x - Delete the selected schedule
  j/k - Move the selection
  q - Quit dashboard

While the dashboard is open, logs go to the feedtime log file instead of
the terminal.

Examples:
  feedtime dashboard
  feedtime dash`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the dashboard needs an interactive terminal; use 'feedtime run' instead")
	}

	// Keep log lines out of the alternate screen.
	path := logging.LogPath()
	logFile, err := logging.OpenLogFile(path)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cfg := logging.DefaultConfig()
	if flagDebug {
		cfg = logging.DebugConfig()
	}
	cfg.Output = logFile
	logging.Init(cfg)

	logging.Info("dashboard opened", logging.KeyDevice, ctx.Device.BaseURL())

	// Configure the dashboard
	config := tui.DashboardConfig{
		Feeder:          ctx.Feeder,
		RefreshInterval: time.Second,
	}

	// Run the TUI dashboard
	return tui.Run(config)
}
