// Package cmd provides the CLI commands for feedtime.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/output"
	"github.com/manav03panchal/feedtime/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagDevice string
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "feedtime",
	Short: "Schedule feedings for a networked pet feeder",
	Long: `feedtime talks to a pet feeder on the local network. It can feed
immediately, keep a list of upcoming feedings and fire each one in its minute.

Schedules live in memory only and are lost when feedtime exits.

Examples:
  feedtime
  feedtime feed
  feedtime run --at "18:30" --at "tomorrow 7am" --exit-when-empty
  feedtime --device http://192.168.1.40 dashboard`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		if flagDebug {
			logging.InitDebug()
		}

		// Create runtime context
		opts := runtime.DefaultOptions()
		opts.DeviceAddr = flagDevice
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}
		ctx.Formatter.Writer = cmd.OutOrStdout()

		logging.DebugLog("runtime ready", logging.KeyDevice, ctx.Device.BaseURL())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the dashboard
		return runDashboard(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "",
		"Feeder base URL (default $FEEDTIME_DEVICE_ADDR or http://192.168.1.3)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("feedtime %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// printError reports err in the active output format, falling back to
// stderr when the runtime never came up.
func printError(err error) {
	if errors.IsSystemError(err) {
		logging.Error("command failed", logging.KeyError, err)
	}
	if ctx != nil && ctx.Formatter != nil {
		ctx.PrintError(err)
		return
	}
	fmt.Fprintln(os.Stderr, "Error: "+errors.FormatError(err))
}
