package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionActive   = errors.New("a session is already running")
	ErrNoActiveSession = errors.New("no active session")
	ErrAlreadyPaused   = errors.New("session is already paused")
	ErrNotPaused       = errors.New("session is not paused")
	ErrStartInFuture   = errors.New("start time is in the future")
	ErrBusy            = errors.New("session is already being saved")
	ErrRecordNotFound  = errors.New("record not found")
	ErrInvalidDuration = errors.New("invalid duration")
)

// StepError is the failure of one step of a multi-step flow. The other steps
// were still attempted; errors.Join collects one StepError per failed step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
