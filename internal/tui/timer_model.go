package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/reminder"
)

// Session is the running session the timer screen drives
type Session interface {
	Active() *models.ActiveSession
	Elapsed(now time.Time) int64
	Pause() error
	Resume() error
	RequestStop() error
}

// Reminders raises and answers check-in prompts
type Reminders interface {
	Check(ctx context.Context) bool
	Prompts() <-chan reminder.Prompt
	Respond(ctx context.Context, r reminder.Response) error
}

// TimerModel represents the TUI model for the running session
type TimerModel struct {
	ctx       context.Context
	width     int
	height    int
	session   Session
	reminders Reminders
	now       func() time.Time

	// Timer state
	active  models.ActiveSession
	elapsed int64

	// Animation state
	timerAnimation int

	// Check-in prompt, nil when none is open
	prompt *reminder.Prompt

	keys keyMap
	help help.Model
	err  error

	// UI state
	stopping bool // user chose to stop; the caller shows the end-session form
	exiting  bool // user left the screen, session keeps running
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a timer screen for the active session; reminders may be nil
func NewTimerModel(ctx context.Context, session Session, reminders Reminders, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	m := TimerModel{
		ctx:       ctx,
		session:   session,
		reminders: reminders,
		now:       now,
		keys:      defaultKeys(),
		help:      help.New(),
	}
	m.refresh()
	return m
}

// Stopping reports whether the user asked to stop the session
func (m TimerModel) Stopping() bool { return m.stopping }

// Exiting reports whether the user left with the session still running
func (m TimerModel) Exiting() bool { return m.exiting }

// Err returns the last error shown on screen
func (m TimerModel) Err() error { return m.err }

func (m *TimerModel) refresh() {
	if s := m.session.Active(); s != nil {
		m.active = *s
	}
	m.elapsed = m.session.Elapsed(m.now())
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Init checks for an overdue reminder right away, then starts the tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return timerTickMsg{} },
		animationTick(),
	)
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.refresh()
		m.checkReminder()
		if !m.stopping && !m.exiting {
			return m, timerTick()
		}
		return m, nil

	case animationTickMsg:
		if !m.active.Paused() {
			m.timerAnimation = (m.timerAnimation + 1) % 4
		}
		if !m.stopping && !m.exiting {
			return m, animationTick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *TimerModel) checkReminder() {
	if m.reminders == nil || m.prompt != nil {
		return
	}
	if !m.reminders.Check(m.ctx) {
		return
	}
	select {
	case p := <-m.reminders.Prompts():
		m.prompt = &p
	default:
	}
	m.keys.Continue.SetEnabled(m.prompt != nil)
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Continue):
		m.err = m.reminders.Respond(m.ctx, reminder.Continue)
		m.prompt = nil
		m.keys.Continue.SetEnabled(false)
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.active.Paused() {
			m.err = m.session.Resume()
		} else {
			m.err = m.session.Pause()
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if m.prompt != nil {
			if err := m.reminders.Respond(m.ctx, reminder.Stop); err != nil {
				m.err = err
				return m, nil
			}
			m.prompt = nil
		}
		if err := m.session.RequestStop(); err != nil {
			m.err = err
			return m, nil
		}
		m.stopping = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Leave), key.Matches(msg, m.keys.Quit):
		m.exiting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - lipgloss.Height(helpBar) - 1

	if m.prompt != nil {
		contentHeight -= 4
	}

	var content string
	if m.width < 90 {
		// Narrow view: just timer panel, full width
		content = m.renderTimerPanel(m.width, contentHeight)
	} else {
		leftWidth := m.width / 2
		rightWidth := m.width - leftWidth - 2
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderTimerPanel(leftWidth, contentHeight),
			"  ",
			m.renderDetailsPanel(rightWidth, contentHeight),
		)
	}

	parts := []string{content}
	if m.prompt != nil {
		parts = append(parts, m.renderPrompt())
	}
	parts = append(parts, helpBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTimerPanel renders the left timer panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	headerText := fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)
	headerColor := ColorAccentBright
	if m.active.Paused() {
		headerText = "⏸  PAUSED  ⏸"
		headerColor = ColorWarning
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, idStyle.Render(fmt.Sprintf("Session #%d · %s", m.active.SessionNo, m.active.Date)))

	clockLines := strings.Split(m.renderBigClock(), "\n")
	for i, line := range clockLines {
		clockLines[i] = lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	sessionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, sessionStyle.Render(fmt.Sprintf("Started at %s", m.active.StartTimeFull.Format("15:04:05"))))

	if m.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, errStyle.Render(m.err.Error()))
	}

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(strings.Join(components, "\n\n"))
}

// bigDigits is 5-row block art for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText is the worked time as MM:SS, or HH:MM:SS from the first hour on
func clockText(secs int64) string {
	hours, minutes, seconds := secs/3600, (secs%3600)/60, secs%60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// renderBigClock renders the worked time (pauses excluded) as block digits
func (m TimerModel) renderBigClock() string {
	var lines [5]strings.Builder
	for _, char := range clockText(m.elapsed) {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	color := ColorAccentBright
	if m.active.Paused() {
		color = ColorDisabledText
	}
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

// renderDetailsPanel renders the right panel with the session details
func (m TimerModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	logoLines := []string{
		"█▀█ █ █ █▄ █ █▀▀ █ █",
		"█▀▀ █▄█ █ ▀█ █▄▄ █▀█",
	}
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(logoStyle.Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(0, min(width-12, 40)))))
	b.WriteString("\n\n")

	statusColor := ColorSuccess
	if m.active.Paused() {
		statusColor = ColorWarning
	}
	paused := m.active.TotalPausedSeconds
	if m.active.LastPauseTime != nil {
		paused += int64(m.now().Sub(*m.active.LastPauseTime) / time.Second)
	}

	rows := []struct {
		label, value, color string
	}{
		{"👤 User", m.active.UserName, ColorPrimaryText},
		{"● Status", m.active.Status, statusColor},
		{"📅 Date", m.active.Date, ColorSecondaryText},
		{"🔢 Session", fmt.Sprintf("#%d", m.active.SessionNo), ColorAccentBright},
		{"⏸  Paused", parser.FormatDurationSeconds(paused), ColorSecondaryText},
	}
	lineStyle := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)
	for _, r := range rows {
		value := r.value
		color := r.color
		if value == "" {
			value, color = "none", ColorDisabledText
		}
		line := fmt.Sprintf("%s: %s", r.label, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(value))
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// renderPrompt renders the open check-in
func (m TimerModel) renderPrompt() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorWarning)).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Width(max(10, m.width-4)).
		Padding(0, 1)
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWarning)).Render(m.prompt.Notification.Title)
	return style.Render(title + "\n" + m.prompt.Notification.Body + " Press c to continue or s to stop.")
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)
	return helpStyle.Render(m.help.View(m.keys))
}
