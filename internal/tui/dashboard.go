package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/feedtime/internal/device"
	"github.com/manav03panchal/feedtime/internal/errors"
	"github.com/manav03panchal/feedtime/internal/feeder"
	"github.com/manav03panchal/feedtime/internal/logging"
	"github.com/manav03panchal/feedtime/internal/model"
	"github.com/manav03panchal/feedtime/internal/parser"
	"github.com/manav03panchal/feedtime/internal/scheduler"
)

// FeedCompleteText is shown after every manual or scheduled feed, whatever
// the device said.
const FeedCompleteText = "Feeding Complete: The pet has been fed successfully."

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// storeChangedMsg is sent when the schedule store is mutated.
type storeChangedMsg struct{}

// fireMsg is sent when the poller fires a schedule.
type fireMsg struct {
	result scheduler.FireResult
}

// feedDoneMsg is sent when a manual feed request settles.
type feedDoneMsg struct {
	result device.Result
}

type viewState int

const (
	stateList viewState = iota
	stateForm
	statePickDate
	statePickTime
)

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	feeder *feeder.Feeder

	// Data
	schedules []*model.Schedule
	history   []model.FeedEvent

	// UI state
	state      viewState
	form       feeder.Form
	picker     *huh.Form
	pickerData *pickerModel
	cursor     int
	feeding    bool
	alert      string
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Feeder          *feeder.Feeder
	RefreshInterval time.Duration
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}

	m := &DashboardModel{
		feeder:          config.Feeder,
		refreshInterval: config.RefreshInterval,
	}
	m.loadData()
	return m
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case storeChangedMsg:
		m.loadData()
		return m, nil

	case fireMsg:
		m.loadData()
		if msg.result.Schedule != nil {
			m.alert = FeedCompleteText
		}
		return m, nil

	case feedDoneMsg:
		m.feeding = false
		m.loadData()
		m.alert = FeedCompleteText
		return m, nil
	}

	switch m.state {
	case statePickDate, statePickTime:
		return m.updatePicker(msg)
	case stateForm:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleFormKey(key)
		}
	default:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleListKey(key)
		}
	}

	return m, nil
}

// handleListKey handles keyboard input on the schedule list.
func (m *DashboardModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "a":
		m.form.Reset()
		m.state = stateForm
		return m, nil

	case "f":
		if m.feeding {
			m.setMessage("Feeding in progress", 2*time.Second)
			return m, nil
		}
		m.feeding = true
		return m, m.feedCmd()

	case "x", "delete", "backspace":
		if len(m.schedules) == 0 {
			return m, nil
		}
		if _, err := m.feeder.RemoveSchedule(m.cursor); err != nil {
			m.showError(err)
		}
		m.loadData()
		return m, nil

	case "j", "down":
		if m.cursor < len(m.schedules)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	return m, nil
}

// handleFormKey handles keyboard input on the add-schedule form.
func (m *DashboardModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.form.Reset()
		m.state = stateList
		return m, nil

	case "d":
		return m, m.openPicker(statePickDate)

	case "t":
		if !m.form.HasDate() {
			// Same outcome as submitting a time without a date.
			m.showError(m.form.SelectTime(m.feeder.Now(), m.feeder.Now()))
			return m, nil
		}
		return m, m.openPicker(statePickTime)

	case "enter":
		ctx := logging.NewTraceContext(context.Background())
		s, err := m.feeder.AddSchedule(ctx, &m.form)
		if err != nil {
			m.showError(err)
			return m, nil
		}
		m.state = stateList
		m.loadData()
		m.setMessage("Schedule added for "+s.String(), 3*time.Second)
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) openPicker(state viewState) tea.Cmd {
	m.pickerData = &pickerModel{}
	if state == statePickDate {
		m.picker = newDatePicker(m.pickerData, m.feeder.Now)
	} else {
		m.picker = newTimePicker(m.pickerData, m.feeder.Now)
	}
	m.state = state
	return m.picker.Init()
}

// updatePicker forwards input to the active huh form.
func (m *DashboardModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = stateForm
		return m, nil
	}

	form, cmd := m.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.picker = f
	}

	switch m.picker.State {
	case huh.StateCompleted:
		if m.state == statePickDate {
			m.applyDate(m.pickerData.Input)
		} else {
			m.applyTime(m.pickerData.Input)
		}
		m.state = stateForm
	case huh.StateAborted:
		m.state = stateForm
	}
	return m, cmd
}

// applyDate parses and validates a date picked in the form.
func (m *DashboardModel) applyDate(input string) {
	now := m.feeder.Now()
	t, err := parser.ParseDate(input, now)
	if err != nil {
		m.form.Reset()
		m.showError(err)
		return
	}
	if err := m.form.SelectDate(t, now); err != nil {
		m.showError(err)
	}
}

// applyTime parses and validates a time picked in the form.
func (m *DashboardModel) applyTime(input string) {
	now := m.feeder.Now()
	t, err := parser.ParseTime(input, now)
	if err != nil {
		m.form.Reset()
		m.showError(err)
		return
	}
	if err := m.form.SelectTime(t, now); err != nil {
		m.showError(err)
	}
}

// showError raises a blocking alert for user errors and records the rest.
func (m *DashboardModel) showError(err error) {
	if err == nil {
		return
	}
	if ue, ok := errors.AsUserError(err); ok {
		m.alert = ue.Error()
		return
	}
	var pe *parser.TimeParseError
	if errors.As(err, &pe) {
		m.alert = pe.ToUserError().Error()
		return
	}
	logging.Error("dashboard operation failed", logging.KeyError, err)
	m.err = err
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.alert != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), AlertView(m.alert, m.width))
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	list := &ScheduleListComponent{Schedules: m.schedules, Cursor: m.cursor, Width: m.width}
	sections = append(sections, list.View())

	switch m.state {
	case stateForm:
		form := &FormComponent{Form: &m.form, Width: m.width}
		sections = append(sections, form.View(), HelpBar(formKeys))
	case statePickDate, statePickTime:
		sections = append(sections, m.picker.View(), HelpBar(pickerKeys))
	default:
		sections = append(sections, m.renderFeedStatus(), HelpBar(listKeys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("feedtime")
	now := m.feeder.Now().Format("Mon 02/01/2006, 15:04:05")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(now)) + "\n"
}

func (m *DashboardModel) renderFeedStatus() string {
	if m.feeding {
		return StyleFeeding.Render("Feeding...")
	}
	line := LastFeedLine(m.history)
	if next := NextCheckLine(m.feeder.Poller().NextRun()); next != "" {
		line += "  " + next
	}
	return line
}

// loadData reloads schedules and history from the feeder.
func (m *DashboardModel) loadData() {
	schedules, err := m.feeder.Schedules()
	if err != nil {
		m.err = err
		return
	}
	m.schedules = schedules
	m.history = m.feeder.History()

	if m.cursor >= len(m.schedules) {
		m.cursor = max(len(m.schedules)-1, 0)
	}
	m.err = nil
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// feedCmd sends a manual feed off the event loop.
func (m *DashboardModel) feedCmd() tea.Cmd {
	f := m.feeder
	return func() tea.Msg {
		ctx := logging.NewTraceContext(context.Background())
		return feedDoneMsg{result: f.FeedNow(ctx)}
	}
}

// Run starts the dashboard TUI and its poller, and blocks until the user quits.
func Run(config DashboardConfig) error {
	m := NewDashboardModel(config)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Send blocks until the program loop is running, so hand off to goroutines.
	unsubscribe := config.Feeder.Store().Subscribe(func([]*model.Schedule) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()
	config.Feeder.OnFire(func(r scheduler.FireResult) {
		go p.Send(fireMsg{result: r})
	})

	if err := config.Feeder.Start(); err != nil {
		return err
	}
	defer config.Feeder.Stop()

	_, err := p.Run()
	return err
}
