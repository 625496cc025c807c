package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/feedtime/internal/daemon"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/parser"
	"github.com/manav03panchal/feedtime/internal/scheduler"
)

// Run command flags.
var (
	runFlagAt            []string
	runFlagExitWhenEmpty bool
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule feedings and fire them in the foreground",
	Long: `Add one schedule per --at flag, then check every minute and feed
whenever a schedule's minute arrives.

Each --at accepts a date and time such as "18:30", "tomorrow 7am" or
"2024-06-01 08:00". A bare time means today. Times in the past are rejected.

Minutes missed while the host was asleep are skipped, never fed late.
The run ends on Ctrl-C, or with --exit-when-empty once every schedule
has fired.

Examples:
  feedtime run --at 18:30
  feedtime run --at "today 12:00" --at "tomorrow 7am"
  feedtime run --at 18:30 --exit-when-empty --format json`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArrayVar(&runFlagAt, "at", nil,
		"Date and time to feed at (repeatable)")
	runCmd.Flags().BoolVar(&runFlagExitWhenEmpty, "exit-when-empty", false,
		"Exit once no schedules remain")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	traceCtx := logging.NewTraceContext(cmd.Context())

	added := make([]*model.Schedule, 0, len(runFlagAt))
	for _, input := range runFlagAt {
		at, err := parser.ParseWhen(input, ctx.Feeder.Now())
		if err != nil {
			return err
		}
		s, err := ctx.Feeder.ScheduleAt(traceCtx, at)
		if err != nil {
			return err
		}
		added = append(added, s)
		if !ctx.IsJSON() {
			ctx.CLIFormatter().PrintScheduleAdded(s)
		}
	}

	if !ctx.IsJSON() {
		cli := ctx.CLIFormatter()
		ctx.Feeder.OnFire(func(r scheduler.FireResult) {
			cli.Printf("Fired %s: ", r.Schedule.String())
			cli.PrintFeedResult(r.Result)
		})
		pending, err := ctx.Feeder.Schedules()
		if err != nil {
			return err
		}
		cli.PrintSchedules(pending, ctx.Feeder.Now())
		cli.Muted("Waiting for schedules. Press Ctrl-C to stop.")
	}

	runner := daemon.NewRunner(ctx.Feeder)
	runner.SetExitWhenEmpty(runFlagExitWhenEmpty)

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	summary, err := runner.Run(runCtx)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRun(added, summary)
	}
	ctx.CLIFormatter().PrintRunSummary(summary)
	return nil
}
