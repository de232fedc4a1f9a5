package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

// Reload replaces the session list with the user's records from the canonical store
func (t *Tracker) Reload(ctx context.Context) error {
	user := t.Identity()
	if !user.LoggedIn() {
		return ErrNotLoggedIn
	}
	list, err := t.records.Read(ctx, api.Filter{UserName: user.Name})
	if err != nil {
		return err
	}
	mine := list[:0]
	for _, r := range list {
		if r.UserName == "" || r.UserName == user.Name {
			mine = append(mine, r)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = mine
	t.changedLocked()
	return nil
}

// reloadInBackground resynchronizes with the store without blocking the caller
func (t *Tracker) reloadInBackground(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	t.bg.Add(1)
	go func() {
		defer t.bg.Done()
		if err := t.Reload(ctx); err != nil {
			t.logger.Warn("background reload failed", "error", err)
		}
	}()
}

// AddManual submits a hand-entered session for approval. An entry that ends
// before it starts is split at midnight into two records.
func (t *Tracker) AddManual(ctx context.Context, d models.Draft) ([]models.Record, error) {
	user := t.Identity()
	if !user.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	if d.UserName == "" {
		d.UserName = user.Name
	}
	if models.IsApproved(d.ApprovedState) && d.ApprovedBy == "" {
		d.ApprovedBy = user.Name
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	records, err := draftRecords(d, t.sessions)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	tempIDs := assignTempIDs(records, t.now())
	t.prependLocked(records)
	t.mu.Unlock()

	created, err := t.createAll(ctx, t.pending, records, tempIDs, "submit")
	t.reloadInBackground(ctx)
	return created, err
}

// Update edits a record in place. The duration is recomputed from the times
// whenever the end is after the start.
func (t *Tracker) Update(ctx context.Context, r models.Record) error {
	if err := r.ToDraft().Validate(); err != nil {
		return err
	}
	if secs := models.SecondsBetweenClock(r.StartTime, r.EndTime); secs > 0 {
		r.Duration = parser.FormatDurationSeconds(secs)
	}
	if models.IsApproved(r.ApprovedState) && r.ApprovedBy == "" {
		r.ApprovedBy = t.Identity().Name
	}

	t.mu.Lock()
	i := t.indexLocked(r.RecordID)
	if i < 0 {
		t.mu.Unlock()
		return ErrRecordNotFound
	}
	t.sessions[i] = r
	t.changedLocked()
	t.mu.Unlock()

	err := t.records.Update(ctx, r)
	t.reloadInBackground(ctx)
	return err
}

// Delete removes a record and renumbers the rest of its day by start time.
// Only records whose number changed are updated remotely. Any failure is
// followed by a reload so the list matches the store again.
func (t *Tracker) Delete(ctx context.Context, recordID string) error {
	t.mu.Lock()
	i := t.indexLocked(recordID)
	if i < 0 {
		t.mu.Unlock()
		return ErrRecordNotFound
	}
	target := t.sessions[i]
	rest := make([]models.Record, 0, len(t.sessions)-1)
	rest = append(rest, t.sessions[:i]...)
	rest = append(rest, t.sessions[i+1:]...)
	renumbered, changed := Renumber(rest, target.Date, target.UserName)
	t.sessions = renumbered
	t.changedLocked()
	t.mu.Unlock()

	defer t.reloadInBackground(ctx)

	if err := t.records.Delete(ctx, recordID); err != nil {
		return &StepError{Step: "delete " + recordID, Err: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range changed {
		g.Go(func() error {
			if err := t.records.Update(gctx, r); err != nil {
				return &StepError{Step: fmt.Sprintf("renumber %s to #%d", r.RecordID, r.SessionNo), Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

// TodayTotal sums the durations of today's sessions of the logged-in user
func (t *Tracker) TodayTotal() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalLocked(models.DateString(t.now()))
}

// SetDailyTotal forces the cached total of date to duration
func (t *Tracker) SetDailyTotal(ctx context.Context, date, duration string) error {
	user := t.Identity()
	if !user.LoggedIn() {
		return ErrNotLoggedIn
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &models.ValidationError{Fields: []string{"Date (datetime)"}, Err: err}
	}
	secs := parser.ParseDurationToSeconds(duration)
	if secs == 0 && !strings.Contains(duration, "0") {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}
	return t.pending.SetDailyTotal(ctx, date, user.Name, parser.FormatDurationSeconds(secs))
}

func (t *Tracker) totalLocked(date string) int64 {
	var total int64
	for _, r := range t.sessions {
		if r.InPartition(date, t.identity.Name) {
			total += parser.ParseDurationToSeconds(r.Duration)
		}
	}
	return total
}

// changedLocked caches the list and queues today's total for the store. The
// push is best effort; failures are only logged.
func (t *Tracker) changedLocked() {
	if raw, err := json.Marshal(t.sessions); err == nil {
		if err := t.storage.Set(KeySessionCache, string(raw)); err != nil {
			t.logger.Warn("failed to cache sessions", "error", err)
		}
	}

	if !t.identity.LoggedIn() || t.pending == nil {
		return
	}
	today := models.DateString(t.now())
	total := parser.FormatDurationSeconds(t.totalLocked(today))
	if err := t.storage.Set(KeyLastDailyTotal, total); err != nil {
		t.logger.Warn("failed to store daily total", "error", err)
	}

	t.queuedTotal = &dailyTotal{date: today, user: t.identity.Name, total: total}
	if t.pushingTotal {
		return
	}
	t.pushingTotal = true
	t.bg.Add(1)
	go t.pushTotals()
}

type dailyTotal struct {
	date, user, total string
}

// pushTotals sends queued totals one at a time. A total queued while a push
// is in flight replaces any older queued one, so the store ends on the newest.
func (t *Tracker) pushTotals() {
	defer t.bg.Done()
	for {
		t.mu.Lock()
		next := t.queuedTotal
		t.queuedTotal = nil
		if next == nil {
			t.pushingTotal = false
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()

		if err := t.pending.SetDailyTotal(context.Background(), next.date, next.user, next.total); err != nil {
			t.logger.Warn("daily total sync failed", "date", next.date, "error", err)
		}
	}
}

func (t *Tracker) prependLocked(records []models.Record) {
	list := make([]models.Record, 0, len(records)+len(t.sessions))
	for i := len(records) - 1; i >= 0; i-- {
		list = append(list, records[i])
	}
	t.sessions = append(list, t.sessions...)
	t.changedLocked()
}

func (t *Tracker) replaceID(tempID, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(tempID); i >= 0 {
		t.sessions[i].RecordID = id
	}
}

func (t *Tracker) indexLocked(recordID string) int {
	for i, r := range t.sessions {
		if r.RecordID == recordID {
			return i
		}
	}
	return -1
}
