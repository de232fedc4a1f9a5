package models

import (
	"strconv"
	"strings"
)

// Session workflow statuses
const (
	StatusInProgress = "In Progress"
	StatusPaused     = "Paused"
	StatusCompleted  = "Completed"
)

// Approval workflow states, orthogonal to Status
const (
	ApprovalPending   = "Pending"
	ApprovalApproved  = "Approved"
	ApprovalCompleted = "Completed"
	ApprovalRejected  = "Rejected"
)

// Record is a session persisted in the remote store
type Record struct {
	RecordID        string `json:"recordId"`
	Date            string `json:"date"`     // YYYY-MM-DD, partition key
	UserName        string `json:"userName"` // owner, partition key
	SessionNo       int    `json:"sessionNo"`
	StartTime       string `json:"startTime"` // HH:MM
	EndTime         string `json:"endTime"`   // HH:MM
	Duration        string `json:"duration"`
	WorkDescription string `json:"workDescription"`
	Project         string `json:"project"`
	Category        string `json:"category"`
	Status          string `json:"status"`
	ApprovedState   string `json:"approvedState"`
	ApprovedBy      string `json:"approvedBy"`
}

// Fields returns every field of the record as request parameters. sessionNo
// is left out while the record has no number yet.
func (r Record) Fields() map[string]string {
	all := map[string]string{
		"recordId":        r.RecordID,
		"date":            r.Date,
		"userName":        r.UserName,
		"startTime":       r.StartTime,
		"endTime":         r.EndTime,
		"duration":        r.Duration,
		"workDescription": r.WorkDescription,
		"project":         r.Project,
		"category":        r.Category,
		"status":          r.Status,
		"approvedState":   r.ApprovedState,
		"approvedBy":      r.ApprovedBy,
	}
	if r.SessionNo > 0 {
		all["sessionNo"] = strconv.Itoa(r.SessionNo)
	}
	return all
}

// Params returns the record as request parameters, skipping empty values
func (r Record) Params() map[string]string {
	all := r.Fields()
	params := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

// InPartition reports whether the record belongs to the (date, userName) partition
func (r Record) InPartition(date, userName string) bool {
	return r.Date == date && r.UserName == userName
}

// IsApproved reports whether the approval state counts as signed off
func IsApproved(state string) bool {
	switch strings.ToLower(state) {
	case strings.ToLower(ApprovalApproved), strings.ToLower(ApprovalCompleted):
		return true
	}
	return false
}

// ToDraft converts a persisted record back into an editable draft
func (r Record) ToDraft() Draft {
	return Draft{
		Date:            r.Date,
		UserName:        r.UserName,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		WorkDescription: r.WorkDescription,
		Project:         r.Project,
		Category:        r.Category,
		Status:          r.Status,
		ApprovedState:   r.ApprovedState,
		ApprovedBy:      r.ApprovedBy,
	}
}

// DailyTotal is the denormalized per-day aggregate kept by the auxiliary store
type DailyTotal struct {
	Date          string `json:"date"`
	UserName      string `json:"userName"`
	TotalDuration string `json:"totalDuration"`
}
