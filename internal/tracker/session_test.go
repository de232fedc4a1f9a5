package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
)

func TestStartNumbersAfterExistingSessions(t *testing.T) {
	h := newHarness(at("2026-01-06T14:00:00"),
		rec("1", "2026-01-06", 1, "09:00", "10:00", "01 HRS : 00 MIN : 00 SEC"),
		rec("2", "2026-01-06", 3, "11:00", "12:00", "01 HRS : 00 MIN : 00 SEC"),
		rec("3", "2026-01-05", 7, "11:00", "12:00", "01 HRS : 00 MIN : 00 SEC"),
	)
	require.NoError(t, h.tracker.Reload(context.Background()))

	s, err := h.tracker.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, s.SessionNo)
	assert.Equal(t, "2026-01-06", s.Date)
	assert.Equal(t, "14:00", s.StartTime)
	assert.Equal(t, models.StatusInProgress, s.Status)
	assert.Equal(t, PhaseActive, h.tracker.Phase())
	h.tracker.Wait()
}

func TestStartFirstSessionOfDay(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))

	s, err := h.tracker.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.SessionNo)
}

func TestStartPersistsActiveSession(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	custom := at("2026-01-06T07:30:00")

	_, err := h.tracker.Start(&custom)
	require.NoError(t, err)

	raw, ok, err := h.storage.Get(KeyActiveSession)
	require.NoError(t, err)
	require.True(t, ok)

	var stored models.ActiveSession
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "07:30", stored.StartTime)
	assert.True(t, stored.StartTimeFull.Equal(custom))
	require.NotNil(t, stored.LastReminderTime)
	assert.True(t, stored.LastReminderTime.Equal(custom))
}

func TestStartPreconditions(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	future := at("2026-01-06T09:00:00")

	_, err := h.tracker.Start(&future)
	assert.ErrorIs(t, err, ErrStartInFuture)

	_, err = h.tracker.Start(nil)
	require.NoError(t, err)
	_, err = h.tracker.Start(nil)
	assert.ErrorIs(t, err, ErrSessionActive)

	fresh := New(Config{Storage: h.storage, Records: h.records, Pending: h.pending, Clock: h.clock.Now})
	require.NoError(t, fresh.Load())
	_, err = fresh.Start(nil)
	assert.ErrorIs(t, err, ErrSessionActive, "restored session still blocks a new start")
}

func TestStartRequiresLogin(t *testing.T) {
	tr := New(Config{Storage: NewMemoryStorage()})
	require.NoError(t, tr.Load())

	_, err := tr.Start(nil)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestPauseResumeWithoutElapsedTimeAddsNothing(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(5 * time.Minute)

	require.NoError(t, h.tracker.Pause())
	assert.Equal(t, PhasePaused, h.tracker.Phase())
	require.NoError(t, h.tracker.Resume())

	s := h.tracker.Active()
	assert.Equal(t, int64(0), s.TotalPausedSeconds)
	assert.Nil(t, s.LastPauseTime)
	assert.Equal(t, models.StatusInProgress, s.Status)
}

func TestPauseResumeErrors(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	assert.ErrorIs(t, h.tracker.Pause(), ErrNoActiveSession)
	assert.ErrorIs(t, h.tracker.Resume(), ErrNoActiveSession)

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, h.tracker.Resume(), ErrNotPaused)
	require.NoError(t, h.tracker.Pause())
	assert.ErrorIs(t, h.tracker.Pause(), ErrAlreadyPaused)
}

func TestPausedTimeIsExcluded(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)

	h.clock.Advance(10 * time.Minute)
	require.NoError(t, h.tracker.Pause())
	h.clock.Advance(5 * time.Minute)
	require.NoError(t, h.tracker.Resume())
	h.clock.Advance(10 * time.Minute)

	assert.Equal(t, int64(300), h.tracker.Active().TotalPausedSeconds)
	assert.Equal(t, int64(20*60), h.tracker.Elapsed(h.clock.Now()))

	records, err := h.tracker.Finalize(context.Background(), models.FinishForm{WorkDescription: "review"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "00 HRS : 20 MIN : 00 SEC", records[0].Duration)
	assert.Equal(t, "08:00", records[0].StartTime)
	assert.Equal(t, "08:25", records[0].EndTime)
	h.tracker.Wait()
}

func TestFinalizeWhilePausedSubtractsCurrentPause(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(30 * time.Minute)
	require.NoError(t, h.tracker.Pause())
	h.clock.Advance(15 * time.Minute)

	records, err := h.tracker.Finalize(context.Background(), models.FinishForm{})
	require.NoError(t, err)
	assert.Equal(t, "00 HRS : 30 MIN : 00 SEC", records[0].Duration)
	h.tracker.Wait()
}

func TestFinalizeSingleDay(t *testing.T) {
	h := newHarness(at("2026-01-06T09:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(90 * time.Minute)

	records, err := h.tracker.Finalize(context.Background(), models.FinishForm{
		WorkDescription: "planning",
		Project:         "portal",
		ApprovedState:   models.ApprovalApproved,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "2026-01-06", r.Date)
	assert.Equal(t, 1, r.SessionNo)
	assert.Equal(t, "01 HRS : 30 MIN : 00 SEC", r.Duration)
	assert.Equal(t, models.StatusCompleted, r.Status)
	assert.Equal(t, "ana", r.ApprovedBy, "self-approved sessions carry the owner as approver")
	assert.Equal(t, "1001", r.RecordID, "durable id replaces the temporary one")

	assert.Nil(t, h.tracker.Active())
	assert.Equal(t, PhaseIdle, h.tracker.Phase())
	_, ok, _ := h.storage.Get(KeyActiveSession)
	assert.False(t, ok)

	h.tracker.Wait()
	assert.Len(t, h.records.snapshotCreates(), 1)
	assert.Empty(t, h.pending.snapshotCreates(), "finished sessions go to the canonical store only")
}

func TestOvernightSplit(t *testing.T) {
	h := newHarness(at("2026-01-06T23:50:00"),
		rec("9", "2026-01-07", 1, "00:00", "00:05", "00 HRS : 05 MIN : 00 SEC"),
	)
	require.NoError(t, h.tracker.Reload(context.Background()))
	h.tracker.Wait()
	h.records.noIDs = true

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(20 * time.Minute)
	stop := h.clock.Now()

	records, err := h.tracker.Finalize(context.Background(), models.FinishForm{WorkDescription: "deploy", Category: "ops"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	assert.Equal(t, "2026-01-06", first.Date)
	assert.Equal(t, 1, first.SessionNo)
	assert.Equal(t, "23:50", first.StartTime)
	assert.Equal(t, "23:59", first.EndTime)
	assert.Equal(t, "00 HRS : 09 MIN : 59 SEC", first.Duration)

	assert.Equal(t, "2026-01-07", second.Date)
	assert.Equal(t, 2, second.SessionNo)
	assert.Equal(t, "00:00", second.StartTime)
	assert.Equal(t, "00:10", second.EndTime)
	assert.Equal(t, "00 HRS : 10 MIN : 00 SEC", second.Duration)

	for _, r := range records {
		assert.Equal(t, "deploy", r.WorkDescription)
		assert.Equal(t, "ops", r.Category)
	}

	// temporary ids stay when the store returns none
	base := stop.UnixMilli()
	assert.Equal(t, first.RecordID, jsonInt(base))
	assert.Equal(t, second.RecordID, jsonInt(base+1))

	creates := h.records.snapshotCreates()
	require.Len(t, creates, 2)
	assert.Equal(t, "2026-01-06", creates[0].Date, "first half is created first")
	assert.Equal(t, "2026-01-07", creates[1].Date)
	h.tracker.Wait()
}

func TestOvernightSplitOptimisticInsertAtHead(t *testing.T) {
	h := newHarness(at("2026-01-06T23:50:00"))
	h.records.block = make(chan struct{})
	h.records.started = make(chan struct{}, 2)

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(20 * time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.tracker.Finalize(context.Background(), models.FinishForm{})
	}()
	<-h.records.started

	list := h.tracker.Sessions()
	require.Len(t, list, 2)
	assert.Equal(t, "2026-01-07", list[0].Date)
	assert.Equal(t, "2026-01-06", list[1].Date)
	assert.Equal(t, PhaseFinalizing, h.tracker.Phase())

	_, err = h.tracker.Finalize(context.Background(), models.FinishForm{})
	assert.ErrorIs(t, err, ErrBusy)

	close(h.records.block)
	<-h.records.started
	<-done
	h.tracker.Wait()
}

func TestFinalizeReportsFailedStepWithoutRollback(t *testing.T) {
	h := newHarness(at("2026-01-06T23:50:00"))
	h.records.failOn[0] = errBoom

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(20 * time.Minute)

	records, err := h.tracker.Finalize(context.Background(), models.FinishForm{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var step *StepError
	require.ErrorAs(t, err, &step)
	assert.Contains(t, step.Step, "2026-01-06")

	assert.Len(t, records, 2)
	assert.Len(t, h.records.snapshotCreates(), 2, "second half is still attempted")
	assert.Nil(t, h.tracker.Active(), "the session is not restored")
	h.tracker.Wait()
}

func TestFinalizeValidationNeverReachesNetwork(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)

	_, err = h.tracker.Finalize(context.Background(), models.FinishForm{Status: "Done"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.NotNil(t, h.tracker.Active())
	assert.Empty(t, h.records.snapshotCreates())
}

func TestFinalizeWithoutSession(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Finalize(context.Background(), models.FinishForm{})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStopRequestPhase(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	assert.ErrorIs(t, h.tracker.RequestStop(), ErrNoActiveSession)

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	require.NoError(t, h.tracker.RequestStop())
	assert.Equal(t, PhaseAwaitingInput, h.tracker.Phase())
	assert.True(t, h.tracker.ReminderState().StopPending)

	h.tracker.CancelStop()
	assert.Equal(t, PhaseActive, h.tracker.Phase())
	assert.NotNil(t, h.tracker.Active())
}

func TestLoadRestoresActiveSessionVerbatim(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	h.clock.Advance(time.Minute)
	require.NoError(t, h.tracker.Pause())
	before := h.tracker.Active()

	restored := New(Config{Storage: h.storage, Clock: h.clock.Now})
	require.NoError(t, restored.Load())

	after := restored.Active()
	require.NotNil(t, after)
	assert.Equal(t, before.SessionNo, after.SessionNo)
	assert.True(t, before.StartTimeFull.Equal(after.StartTimeFull))
	assert.True(t, before.LastPauseTime.Equal(*after.LastPauseTime))
	assert.Equal(t, PhasePaused, restored.Phase())
}

func TestLoadDropsCorruptActiveSession(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(KeyActiveSession, "{not json"))

	tr := New(Config{Storage: storage})
	require.NoError(t, tr.Load())
	assert.Nil(t, tr.Active())
	_, ok, _ := storage.Get(KeyActiveSession)
	assert.False(t, ok)
}

func TestLoadClearsSessionStoppedElsewhere(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	require.NoError(t, h.tracker.SetReminderInterval(300*time.Second))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)

	other := New(Config{Storage: h.storage, Clock: h.clock.Now})
	require.NoError(t, other.Load())
	require.NotNil(t, other.Active())
	require.True(t, other.ReminderState().Running)

	h.clock.Advance(time.Hour)
	_, err = h.tracker.Finalize(context.Background(), models.FinishForm{WorkDescription: "planning"})
	require.NoError(t, err)
	h.tracker.Wait()

	require.NoError(t, other.Load())
	assert.Nil(t, other.Active())
	assert.False(t, other.ReminderState().Running)
	assert.Equal(t, PhaseIdle, other.Phase())
	assert.Len(t, other.Sessions(), 1, "session list comes from the shared cache")
}

func TestMarkRemindedDoesNotResurrectStoppedSession(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	_, err := h.tracker.Start(nil)
	require.NoError(t, err)

	other := New(Config{Storage: h.storage, Clock: h.clock.Now})
	require.NoError(t, other.Load())

	h.clock.Advance(time.Hour)
	_, err = h.tracker.Finalize(context.Background(), models.FinishForm{WorkDescription: "planning"})
	require.NoError(t, err)
	h.tracker.Wait()

	assert.ErrorIs(t, other.MarkReminded(h.clock.Now()), ErrNoActiveSession)
	assert.Nil(t, other.Active())
	_, ok, _ := h.storage.Get(KeyActiveSession)
	assert.False(t, ok, "stored session stays removed")
}

func TestReminderStateAndMarkReminded(t *testing.T) {
	h := newHarness(at("2026-01-06T08:00:00"))
	require.NoError(t, h.tracker.SetReminderInterval(300*time.Second))
	assert.ErrorIs(t, h.tracker.MarkReminded(h.clock.Now()), ErrNoActiveSession)

	_, err := h.tracker.Start(nil)
	require.NoError(t, err)
	st := h.tracker.ReminderState()
	assert.True(t, st.Running)
	assert.Equal(t, 300*time.Second, st.Interval)
	assert.True(t, st.Baseline.Equal(at("2026-01-06T08:00:00")))

	h.clock.Advance(time.Hour)
	require.NoError(t, h.tracker.MarkReminded(h.clock.Now()))
	assert.True(t, h.tracker.ReminderState().Baseline.Equal(h.clock.Now()))

	require.NoError(t, h.tracker.Pause())
	assert.False(t, h.tracker.ReminderState().Running)

	raw, _, _ := h.storage.Get(KeyReminderInterval)
	assert.Equal(t, "300", raw)
}

func TestLoginAndLogout(t *testing.T) {
	storage := NewMemoryStorage()
	store := newFakeStore()
	tr := New(Config{Storage: storage, Auth: store})
	require.NoError(t, tr.Load())
	assert.False(t, tr.Identity().LoggedIn())

	id, err := tr.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ana", id.Name)
	name, _, _ := storage.Get(KeyUserName)
	assert.Equal(t, "ana", name)

	require.NoError(t, tr.Logout())
	assert.False(t, tr.Identity().LoggedIn())
	_, ok, _ := storage.Get(KeyUserEmail)
	assert.False(t, ok)

	store.loginErr = errors.New("Invalid credentials")
	_, err = tr.Login(context.Background(), "ana@example.com", "bad")
	assert.EqualError(t, err, "Invalid credentials")
	assert.False(t, tr.Identity().LoggedIn())
}

func jsonInt(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
