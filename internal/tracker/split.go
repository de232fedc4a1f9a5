package tracker

import (
	"time"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

const (
	endOfDayClock   = "23:59"
	startOfDayClock = "00:00"
)

// finishRecords turns an active session stopped at now into one record, or two
// when the session crossed midnight. The first half runs to 23:59:59 of the start
// date and the second from 00:00 of the end date; pauses are not split between halves.
func finishRecords(s models.ActiveSession, form models.FinishForm, now time.Time, known []models.Record) []models.Record {
	base := s.BaseRecord(form)
	start := s.StartTimeFull.In(now.Location())
	startDate := models.DateString(start)
	endDate := models.DateString(now)

	if startDate == endDate {
		r := base
		r.Date = startDate
		r.SessionNo = s.SessionNo
		r.StartTime = s.StartTime
		r.EndTime = models.ClockString(now)
		r.Duration = parser.FormatDurationSeconds(s.WorkedSeconds(now))
		return []models.Record{r}
	}

	endOfDay := time.Date(start.Year(), start.Month(), start.Day(), 23, 59, 59, int(999*time.Millisecond), start.Location())
	first := base
	first.Date = startDate
	first.SessionNo = s.SessionNo
	first.StartTime = s.StartTime
	first.EndTime = endOfDayClock
	first.Duration = parser.FormatDurationSeconds(clampSeconds(endOfDay.Sub(start)))

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	second := base
	second.Date = endDate
	second.SessionNo = NextSessionNo(known, endDate, s.UserName)
	second.StartTime = startOfDayClock
	second.EndTime = models.ClockString(now)
	second.Duration = parser.FormatDurationSeconds(clampSeconds(now.Sub(startOfDay)))

	return []models.Record{first, second}
}

// draftRecords turns a manual entry into one record, or two when it ends before it starts
func draftRecords(d models.Draft, known []models.Record) ([]models.Record, error) {
	if !d.Overnight() {
		n := NextSessionNo(known, d.Date, d.UserName)
		dur := models.SecondsBetweenClock(d.StartTime, d.EndTime)
		return []models.Record{d.ToRecord("", n, parser.FormatDurationSeconds(dur))}, nil
	}

	day, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil, err
	}
	nextDate := models.DateString(day.AddDate(0, 0, 1))

	first := d
	first.EndTime = endOfDayClock
	r1 := first.ToRecord("", NextSessionNo(known, d.Date, d.UserName),
		parser.FormatDurationSeconds(models.SecondsBetweenClock(d.StartTime, endOfDayClock)))

	second := d
	second.Date = nextDate
	second.StartTime = startOfDayClock
	r2 := second.ToRecord("", NextSessionNo(known, nextDate, d.UserName),
		parser.FormatDurationSeconds(models.SecondsBetweenClock(startOfDayClock, d.EndTime)))

	return []models.Record{r1, r2}, nil
}

func clampSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
