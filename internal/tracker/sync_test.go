package tracker

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
)

func threeSessions() []models.Record {
	return []models.Record{
		rec("a", "2026-01-06", 1, "09:00", "10:00", "01 HRS : 00 MIN : 00 SEC"),
		rec("b", "2026-01-06", 2, "11:00", "12:00", "01 HRS : 00 MIN : 00 SEC"),
		rec("c", "2026-01-06", 3, "13:00", "14:00", "01 HRS : 00 MIN : 00 SEC"),
		rec("d", "2026-01-05", 2, "13:00", "14:00", "01 HRS : 00 MIN : 00 SEC"),
	}
}

func TestDeleteRenumbersRemainingSessions(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))

	require.NoError(t, h.tracker.Delete(context.Background(), "b"))

	numbers := map[string]int{}
	for _, r := range h.tracker.Sessions() {
		numbers[r.RecordID] = r.SessionNo
	}
	assert.Equal(t, map[string]int{"a": 1, "c": 2, "d": 2}, numbers)

	updates := h.records.snapshotUpdates()
	require.Len(t, updates, 1, "only records whose number changed are updated")
	assert.Equal(t, "c", updates[0].RecordID)
	assert.Equal(t, 2, updates[0].SessionNo)

	h.tracker.Wait()
	numbers = map[string]int{}
	for _, r := range h.tracker.Sessions() {
		numbers[r.RecordID] = r.SessionNo
	}
	assert.Equal(t, map[string]int{"a": 1, "c": 2, "d": 2}, numbers, "reload agrees with the optimistic state")
}

func TestDeleteFailureReloadsFromStore(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))
	h.records.failDel = errBoom

	err := h.tracker.Delete(context.Background(), "a")
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, h.records.snapshotUpdates(), "renumbering is not pushed after a failed delete")

	h.tracker.Wait()
	assert.Len(t, h.tracker.Sessions(), 4, "the reload brings the record back")
}

func TestDeleteUpdateFailureIsReported(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))
	h.records.failUpd = errBoom

	err := h.tracker.Delete(context.Background(), "a")
	var step *StepError
	require.ErrorAs(t, err, &step)
	assert.Contains(t, step.Step, "renumber")
	h.tracker.Wait()
}

func TestDeleteUnknownRecord(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"))
	assert.ErrorIs(t, h.tracker.Delete(context.Background(), "nope"), ErrRecordNotFound)
}

func TestNumberingStaysDenseAcrossCreatesAndDeletes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var list []models.Record
	nextID := 0

	for step := 0; step < 200; step++ {
		if len(list) == 0 || rng.Intn(3) > 0 {
			nextID++
			start := fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60))
			r := rec(fmt.Sprint(nextID), "2026-01-06", NextSessionNo(list, "2026-01-06", "ana"), start, start, "")
			list = append([]models.Record{r}, list...)
			continue
		}
		victim := rng.Intn(len(list))
		rest := append(append([]models.Record(nil), list[:victim]...), list[victim+1:]...)
		list, _ = Renumber(rest, "2026-01-06", "ana")

		sorted := append([]models.Record(nil), list...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SessionNo < sorted[j].SessionNo })
		for i, r := range sorted {
			require.Equal(t, i+1, r.SessionNo, "numbers are exactly 1..N")
			if i > 0 {
				require.LessOrEqual(t, sorted[i-1].StartTime, r.StartTime, "numbers follow start time")
			}
		}
	}
}

func TestRenumberLeavesOtherPartitionsAlone(t *testing.T) {
	list := []models.Record{
		rec("x", "2026-01-06", 5, "12:00", "", ""),
		rec("y", "2026-01-06", 9, "08:00", "", ""),
		rec("z", "2026-01-07", 4, "08:00", "", ""),
	}
	out, changed := Renumber(list, "2026-01-06", "ana")
	assert.Equal(t, 2, out[0].SessionNo)
	assert.Equal(t, 1, out[1].SessionNo)
	assert.Equal(t, 4, out[2].SessionNo)
	assert.Len(t, changed, 2)
	assert.Equal(t, 5, list[0].SessionNo, "input is not modified")
}

func TestRenumberOrdersUnpaddedClocks(t *testing.T) {
	list := []models.Record{
		rec("late", "2026-01-06", 1, "10:00", "", ""),
		rec("early", "2026-01-06", 2, "9:05", "", ""),
	}
	out, _ := Renumber(list, "2026-01-06", "ana")
	assert.Equal(t, 2, out[0].SessionNo)
	assert.Equal(t, 1, out[1].SessionNo)
}

func TestAddManualGoesToPendingStore(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))

	records, err := h.tracker.AddManual(context.Background(), models.Draft{
		Date:            "2026-01-06",
		StartTime:       "15:00",
		EndTime:         "16:30",
		WorkDescription: "workshop",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].SessionNo)
	assert.Equal(t, "ana", records[0].UserName)
	assert.Equal(t, "01 HRS : 30 MIN : 00 SEC", records[0].Duration)
	assert.Equal(t, models.ApprovalPending, records[0].ApprovedState)

	assert.Len(t, h.pending.snapshotCreates(), 1)
	assert.Empty(t, h.records.snapshotCreates())
	h.tracker.Wait()
}

func TestAddManualOvernightSplit(t *testing.T) {
	h := newHarness(at("2026-01-07T09:00:00"))
	h.pending.noIDs = true
	now := h.clock.Now()

	records, err := h.tracker.AddManual(context.Background(), models.Draft{
		Date:      "2026-01-06",
		StartTime: "22:00",
		EndTime:   "01:30",
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2026-01-06", records[0].Date)
	assert.Equal(t, "22:00", records[0].StartTime)
	assert.Equal(t, "23:59", records[0].EndTime)
	assert.Equal(t, "01 HRS : 59 MIN : 00 SEC", records[0].Duration)

	assert.Equal(t, "2026-01-07", records[1].Date)
	assert.Equal(t, "00:00", records[1].StartTime)
	assert.Equal(t, "01:30", records[1].EndTime)
	assert.Equal(t, "01 HRS : 30 MIN : 00 SEC", records[1].Duration)
	assert.Equal(t, 1, records[1].SessionNo)

	assert.Equal(t, jsonInt(now.UnixMilli()), records[0].RecordID)
	assert.Equal(t, jsonInt(now.UnixMilli()+1), records[1].RecordID)
	h.tracker.Wait()
}

func TestAddManualValidationNeverReachesNetwork(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"))

	_, err := h.tracker.AddManual(context.Background(), models.Draft{StartTime: "09:00", EndTime: "10:00"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Date")

	assert.Empty(t, h.pending.snapshotCreates())
	assert.Empty(t, h.tracker.Sessions())
}

func TestUpdateRecomputesDuration(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))

	r := threeSessions()[0]
	r.EndTime = "10:45"
	r.ApprovedState = models.ApprovalApproved
	require.NoError(t, h.tracker.Update(context.Background(), r))

	updates := h.records.snapshotUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, "01 HRS : 45 MIN : 00 SEC", updates[0].Duration)
	assert.Equal(t, "ana", updates[0].ApprovedBy)
	h.tracker.Wait()

	assert.ErrorIs(t, h.tracker.Update(context.Background(), rec("zz", "2026-01-06", 1, "09:00", "10:00", "")), ErrRecordNotFound)
}

func TestDailyTotalIsPushedWhenListChanges(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))
	h.tracker.Wait()

	assert.Equal(t, int64(3*3600), h.tracker.TodayTotal())
	assert.Equal(t, "03 HRS : 00 MIN : 00 SEC", h.pending.total("2026-01-06", "ana"))

	require.NoError(t, h.tracker.Delete(context.Background(), "c"))
	h.tracker.Wait()
	assert.Equal(t, "02 HRS : 00 MIN : 00 SEC", h.pending.total("2026-01-06", "ana"))

	cached, _, _ := h.storage.Get(KeyLastDailyTotal)
	assert.Equal(t, "02 HRS : 00 MIN : 00 SEC", cached)
}

func TestDailyTotalPushesAreOrderedAndCoalesced(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	gate := make(chan struct{})
	h.pending.totalGate = gate
	h.pending.totalStarted = make(chan struct{})

	require.NoError(t, h.tracker.Reload(context.Background()))
	<-h.pending.totalStarted

	// two more changes land while the first push is still in flight
	for range 2 {
		h.tracker.mu.Lock()
		h.tracker.sessions = h.tracker.sessions[1:]
		h.tracker.changedLocked()
		h.tracker.mu.Unlock()
	}

	close(gate)
	h.tracker.Wait()
	assert.Equal(t, []string{
		"03 HRS : 00 MIN : 00 SEC",
		"01 HRS : 00 MIN : 00 SEC",
	}, h.pending.snapshotTotals(), "the superseded 2h total is never sent")
	assert.Equal(t, "01 HRS : 00 MIN : 00 SEC", h.pending.total("2026-01-06", "ana"))
}

func TestSetDailyTotal(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"))

	require.NoError(t, h.tracker.SetDailyTotal(context.Background(), "2026-01-05", "7 hr 30 mins"))
	assert.Equal(t, "07 HRS : 30 MIN : 00 SEC", h.pending.total("2026-01-05", "ana"))

	assert.ErrorIs(t, h.tracker.SetDailyTotal(context.Background(), "2026-01-05", "soon"), ErrInvalidDuration)

	var verr *models.ValidationError
	assert.ErrorAs(t, h.tracker.SetDailyTotal(context.Background(), "yesterday", "1 hr"), &verr)
}

func TestSessionCacheSurvivesRestart(t *testing.T) {
	h := newHarness(at("2026-01-06T18:00:00"), threeSessions()...)
	require.NoError(t, h.tracker.Reload(context.Background()))
	h.tracker.Wait()

	restored := New(Config{Storage: h.storage})
	require.NoError(t, restored.Load())
	assert.Len(t, restored.Sessions(), 4)
}
