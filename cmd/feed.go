package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/feedtime/internal/logging"
)

// feedCmd represents the feed command.
var feedCmd = &cobra.Command{
	Use:     "feed",
	Aliases: []string{"open", "now"},
	Short:   "Feed the pet immediately",
	Long: `Send a single feed command to the device.

The command is attempted once. If the device cannot be reached or does not
confirm, a warning is printed and the exit status stays zero.

Examples:
  feedtime feed
  feedtime feed --device http://192.168.1.40
  feedtime feed --format json`,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	traceCtx := logging.NewTraceContext(cmd.Context())
	res := ctx.Feeder.FeedNow(traceCtx)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintFeedResult(res)
	}
	ctx.CLIFormatter().PrintFeedResult(res)
	return nil
}
