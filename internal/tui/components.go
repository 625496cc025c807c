package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/feedtime/internal/feeder"
	"github.com/manav03panchal/feedtime/internal/model"
)

// EmptyListText is shown when there are no pending schedules.
const EmptyListText = "No data"

// ScheduleListComponent displays pending schedules in firing order.
type ScheduleListComponent struct {
	Schedules []*model.Schedule
	Cursor    int
	Width     int
}

// View renders the schedule list.
func (c *ScheduleListComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Feeding Schedules"))
	content.WriteString("\n")

	if len(c.Schedules) == 0 {
		content.WriteString(StyleMuted.Render(EmptyListText))
	} else {
		for i, s := range c.Schedules {
			if i > 0 {
				content.WriteString("\n")
			}
			marker := "  "
			if i == c.Cursor {
				marker = StyleCursor.Render("> ")
			}
			content.WriteString(marker)
			content.WriteString(StyleDate.Render(s.Date))
			content.WriteString("  ")
			content.WriteString(StyleTime.Render(s.Time))
		}
	}

	return StyleListBox.Width(boxWidth(c.Width)).Render(content.String())
}

// FormComponent displays the add-schedule form.
type FormComponent struct {
	Form  *feeder.Form
	Width int
}

// View renders the form.
func (c *FormComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Add Schedule"))
	content.WriteString("\n")
	content.WriteString("Date: ")
	content.WriteString(renderField(c.Form.DateLabel(), c.Form.HasDate()))
	content.WriteString("\n")
	content.WriteString("Time: ")
	content.WriteString(renderField(c.Form.TimeLabel(), c.Form.Ready()))

	return StyleFormBox.Width(boxWidth(c.Width)).Render(content.String())
}

func renderField(label string, set bool) string {
	if !set {
		return StylePlaceholder.Render(label)
	}
	return StyleTime.Render(label)
}

// LastFeedLine summarizes the newest feed event.
func LastFeedLine(history []model.FeedEvent) string {
	if len(history) == 0 {
		return StyleMuted.Render("No feeds yet")
	}
	ev := history[0]
	line := fmt.Sprintf("Last: %s at %s", ev.Label(), ev.At.Format(model.TimeLayout))
	if ev.OK() {
		return StyleSuccess.Render(line)
	}
	return StyleWarning.Render(line + " (device did not confirm)")
}

// NextCheckLine shows when the poller looks at the schedules next. It is
// empty while the poller is stopped.
func NextCheckLine(next time.Time) string {
	if next.IsZero() {
		return ""
	}
	return StyleMuted.Render("Next check " + next.Format("15:04:05"))
}

// AlertView renders a blocking alert.
func AlertView(text string, width int) string {
	body := text + "\n\n" + StyleSubtitle.Render("Press any key to continue")
	return StyleAlertBox.Width(boxWidth(width)).Render(body)
}

type helpKey struct {
	key  string
	desc string
}

// HelpBar renders the help bar at the bottom.
func HelpBar(keys []helpKey) string {
	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

var (
	listKeys = []helpKey{
		{"a", "add"},
		{"f", "feed now"},
		{"x", "remove"},
		{"j/k", "move"},
		{"q", "quit"},
	}
	formKeys = []helpKey{
		{"d", "date"},
		{"t", "time"},
		{"enter", "confirm"},
		{"esc", "close"},
	}
	pickerKeys = []helpKey{
		{"enter", "select"},
		{"esc", "back"},
	}
)
