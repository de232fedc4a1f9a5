package models

import (
	"time"
)

// ActiveSession is the one running session of a user. It lives only on this
// machine until it is finalized into one or two Records.
type ActiveSession struct {
	Date               string     `json:"date"`
	UserName           string     `json:"userName"`
	SessionNo          int        `json:"sessionNo"`
	StartTime          string     `json:"startTime"`
	StartTimeFull      time.Time  `json:"startTimeFull"`
	Status             string     `json:"status"` // In Progress or Paused
	TotalPausedSeconds int64      `json:"totalPausedSeconds"`
	LastPauseTime      *time.Time `json:"lastPauseTime,omitempty"`
	LastReminderTime   *time.Time `json:"lastReminderTime,omitempty"`
}

// Paused reports whether the session is currently paused
func (s ActiveSession) Paused() bool {
	return s.LastPauseTime != nil
}

// WorkedSeconds is wall time since start minus all pauses, clamped at zero
func (s ActiveSession) WorkedSeconds(now time.Time) int64 {
	total := int64(now.Sub(s.StartTimeFull) / time.Second)
	total -= s.TotalPausedSeconds
	if s.LastPauseTime != nil {
		total -= int64(now.Sub(*s.LastPauseTime) / time.Second)
	}
	if total < 0 {
		return 0
	}
	return total
}

// ReminderBaseline is the instant the reminder interval is measured from
func (s ActiveSession) ReminderBaseline() time.Time {
	if s.LastReminderTime != nil {
		return *s.LastReminderTime
	}
	return s.StartTimeFull
}

// BaseRecord builds the record fields shared by every record finalized from this session
func (s ActiveSession) BaseRecord(form FinishForm) Record {
	status := form.Status
	if status == "" {
		status = StatusCompleted
	}
	approved := form.ApprovedState
	if approved == "" {
		approved = ApprovalPending
	}
	approvedBy := ""
	if IsApproved(approved) {
		approvedBy = s.UserName
	}
	return Record{
		UserName:        s.UserName,
		WorkDescription: form.WorkDescription,
		Project:         form.Project,
		Category:        form.Category,
		Status:          status,
		ApprovedState:   approved,
		ApprovedBy:      approvedBy,
	}
}
