package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/balkashynov/punch/internal/models"
)

// Phase is where the session state machine currently is
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhasePaused
	PhaseAwaitingInput // stop requested, end-session form open
	PhaseFinalizing
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseAwaitingInput:
		return "awaiting input"
	case PhaseFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// Phase derives the current phase from state
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.finalizing:
		return PhaseFinalizing
	case t.active == nil:
		return PhaseIdle
	case t.stopRequested:
		return PhaseAwaitingInput
	case t.active.Paused():
		return PhasePaused
	default:
		return PhaseActive
	}
}

// Active returns a copy of the running session, or nil
func (t *Tracker) Active() *models.ActiveSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return nil
	}
	s := *t.active
	return &s
}

// Elapsed returns worked seconds of the active session at now
func (t *Tracker) Elapsed(now time.Time) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return 0
	}
	return t.active.WorkedSeconds(now)
}

// Start begins a session now, or at customStart when given
func (t *Tracker) Start(customStart *time.Time) (*models.ActiveSession, error) {
	now := t.now()
	start := now
	if customStart != nil {
		if customStart.After(now) {
			return nil, ErrStartInFuture
		}
		start = *customStart
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.identity.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	if t.active != nil || t.finalizing {
		return nil, ErrSessionActive
	}

	date := models.DateString(start)
	baseline := start
	s := &models.ActiveSession{
		Date:             date,
		UserName:         t.identity.Name,
		SessionNo:        NextSessionNo(t.sessions, date, t.identity.Name),
		StartTime:        models.ClockString(start),
		StartTimeFull:    start,
		Status:           models.StatusInProgress,
		LastReminderTime: &baseline,
	}
	t.active = s
	if err := t.persistActiveLocked(); err != nil {
		t.active = nil
		return nil, fmt.Errorf("save active session: %w", err)
	}
	t.logger.Info("session started", "date", s.Date, "session_no", s.SessionNo, "start", s.StartTime)
	out := *s
	return &out, nil
}

// Pause stops the clock of the running session
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return ErrNoActiveSession
	}
	if t.active.Paused() {
		return ErrAlreadyPaused
	}
	now := t.now()
	t.active.LastPauseTime = &now
	t.active.Status = models.StatusPaused
	return t.persistActiveLocked()
}

// Resume restarts the clock, adding the finished pause to the paused total
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return ErrNoActiveSession
	}
	if !t.active.Paused() {
		return ErrNotPaused
	}
	t.active.TotalPausedSeconds += clampSeconds(t.now().Sub(*t.active.LastPauseTime))
	t.active.LastPauseTime = nil
	t.active.Status = models.StatusInProgress
	return t.persistActiveLocked()
}

// RequestStop marks that the end-session form is open. The session keeps running
// until Finalize, and reminders are held back meanwhile.
func (t *Tracker) RequestStop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return ErrNoActiveSession
	}
	t.stopRequested = true
	return nil
}

// CancelStop closes the end-session form without stopping
func (t *Tracker) CancelStop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopRequested = false
}

// Finalize converts the active session into one record, or two across midnight.
// The session is cleared locally before anything is written remotely; records
// are inserted optimistically and created one after the other. A failed create
// is reported as a StepError and is not rolled back.
func (t *Tracker) Finalize(ctx context.Context, form models.FinishForm) ([]models.Record, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	if t.finalizing {
		t.mu.Unlock()
		return nil, ErrBusy
	}
	if t.active == nil {
		t.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	now := t.now()
	session := *t.active
	records := finishRecords(session, form, now, t.sessions)

	t.finalizing = true
	t.active = nil
	t.stopRequested = false
	if err := t.persistActiveLocked(); err != nil {
		t.logger.Warn("failed to clear stored active session", "error", err)
	}
	tempIDs := assignTempIDs(records, now)
	t.prependLocked(records)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.finalizing = false
		t.mu.Unlock()
	}()

	t.logger.Info("session finalized", "records", len(records), "user", session.UserName)
	created, err := t.createAll(ctx, t.records, records, tempIDs, "create")
	t.reloadInBackground(ctx)
	return created, err
}

// assignTempIDs stamps records with wall-clock millisecond ids, +1 for each further record
func assignTempIDs(records []models.Record, now time.Time) []string {
	base := now.UnixMilli()
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = strconv.FormatInt(base+int64(i), 10)
		records[i].RecordID = ids[i]
	}
	return ids
}

type creator interface {
	Create(ctx context.Context, r models.Record) (string, error)
}

// createAll creates records in order; every record is attempted even after a
// failure. Durable ids replace the temporary ones in the session list.
func (t *Tracker) createAll(ctx context.Context, store creator, records []models.Record, tempIDs []string, step string) ([]models.Record, error) {
	var errs []error
	for i, r := range records {
		id, err := store.Create(ctx, r)
		if err != nil {
			t.logger.Error("create failed", "date", r.Date, "session_no", r.SessionNo, "error", err)
			errs = append(errs, &StepError{Step: fmt.Sprintf("%s %s #%d", step, r.Date, r.SessionNo), Err: err})
			continue
		}
		if id != "" {
			records[i].RecordID = id
			t.replaceID(tempIDs[i], id)
		}
	}
	return records, errors.Join(errs...)
}

// ReminderState is a point-in-time view of what the reminder scheduler needs
type ReminderState struct {
	Running     bool // a session exists and is not paused
	StopPending bool
	Baseline    time.Time
	Interval    time.Duration
}

// ReminderState reads the state the scheduler acts on, in one go
func (t *Tracker) ReminderState() ReminderState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := ReminderState{Interval: t.reminderInterval, StopPending: t.stopRequested || t.finalizing}
	if t.active != nil {
		st.Running = !t.active.Paused()
		st.Baseline = t.active.ReminderBaseline()
	}
	return st
}

// MarkReminded resets the reminder baseline of the active session to at
func (t *Tracker) MarkReminded(at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return ErrNoActiveSession
	}
	// Stopped elsewhere: writing the blob back would resurrect the session.
	if _, ok, err := t.storage.Get(KeyActiveSession); err != nil {
		return err
	} else if !ok {
		t.active = nil
		t.stopRequested = false
		return ErrNoActiveSession
	}
	t.active.LastReminderTime = &at
	return t.persistActiveLocked()
}
