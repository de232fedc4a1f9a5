package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Outcome is how the user left the timer screen
type Outcome int

const (
	OutcomeLeft    Outcome = iota // session still running
	OutcomeStopped                // stop requested, end-session form pending
)

// RunTimer shows the timer screen until the user stops or leaves
func RunTimer(ctx context.Context, session Session, reminders Reminders) (Outcome, error) {
	if session.Active() == nil {
		return OutcomeLeft, fmt.Errorf("no active session")
	}

	model := NewTimerModel(ctx, session, reminders, nil)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return OutcomeLeft, err
	}

	if m, ok := finalModel.(TimerModel); ok && m.Stopping() {
		return OutcomeStopped, nil
	}
	return OutcomeLeft, nil
}
