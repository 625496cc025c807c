package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/feedtime/internal/daemon"
	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/parser"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleDate = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleTime = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// ScheduleLine formats a schedule as "date  time".
func (c *CLIFormatter) ScheduleLine(s *model.Schedule) string {
	return c.render(styleDate, s.Date) + "  " + c.render(styleTime, s.Time)
}

// PrintScheduleAdded prints confirmation for a new schedule.
func (c *CLIFormatter) PrintScheduleAdded(s *model.Schedule) {
	c.Success("Scheduled feed for " + c.ScheduleLine(s))
}

// PrintSchedules prints pending schedules as a table.
func (c *CLIFormatter) PrintSchedules(schedules []*model.Schedule, now time.Time) {
	if len(schedules) == 0 {
		c.Muted("No data")
		return
	}

	rows := make([]TableRow, 0, len(schedules))
	for i, s := range schedules {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprintf("%d", i),
			s.Date,
			s.Time,
			FormatUntil(s.At(), now),
		}})
	}
	c.PrintTable([]string{"#", "DATE", "TIME", "DUE"}, rows)
}

// PrintFeedResult prints the outcome of a manual feed. A device failure is
// reported as a warning, never as an error.
func (c *CLIFormatter) PrintFeedResult(res device.Result) {
	if res.OK() {
		c.Success(fmt.Sprintf("Feeding complete (HTTP %d, %s)", res.StatusCode, FormatLatency(res.Duration)))
		return
	}
	c.Warning("Feed request sent; the device did not confirm")
	if res.Err != nil {
		c.Muted("  " + res.Err.Error())
	}
}

// PrintRunSummary prints the result of a foreground run.
func (c *CLIFormatter) PrintRunSummary(s *daemon.Summary) {
	c.Title("Run finished")
	c.Printf("  Stopped: %s (%s)\n", FormatTime(s.StoppedAt), s.Reason)
	c.Printf("  Fired: %d\n", s.Metrics.SchedulesFiredTotal)
	if s.Metrics.FeedsFailedTotal > 0 {
		c.Printf("  Unconfirmed: %s\n", c.render(styleWarning, fmt.Sprintf("%d", s.Metrics.FeedsFailedTotal)))
	}
	c.Printf("  Remaining: %d\n", s.Remaining)
}

// PrintError prints an error and its suggestion. Unparseable dates and
// times also list the accepted formats.
func (c *CLIFormatter) PrintError(err error) {
	var pe *parser.TimeParseError
	if errors.As(err, &pe) {
		c.Error(pe.FormatWithExamples())
		return
	}
	c.Error(err.Error())
	if suggestion := errors.GetSuggestion(err); suggestion != "" {
		c.Muted("  " + suggestion)
	}
}

// TableRow is one row of CLI table output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	// Separator, capped at the terminal width
	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	line := strings.TrimRight(sep.String(), " ")
	if limit := c.Width(); lipgloss.Width(line) > limit {
		line = strings.Repeat("─", limit)
	}
	c.Println(line)

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
