package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError reports form input rejected before any network call
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields, Err: err}
}

// Draft is a session being entered by hand or edited, not yet persisted
type Draft struct {
	Date            string `validate:"required,datetime=2006-01-02"`
	UserName        string `validate:"required"`
	StartTime       string `validate:"required,datetime=15:04"`
	EndTime         string `validate:"required,datetime=15:04"`
	WorkDescription string
	Project         string
	Category        string
	Status          string `validate:"omitempty,oneof='In Progress' Paused Completed"`
	ApprovedState   string `validate:"omitempty,oneof=Pending Approved Completed Rejected"`
	ApprovedBy      string
}

// Validate checks the draft before it is sent anywhere
func (d Draft) Validate() error {
	return validationError(validate.Struct(d))
}

// Overnight reports whether the draft ends on the following day
func (d Draft) Overnight() bool {
	return d.EndTime != "" && d.StartTime != "" && d.EndTime < d.StartTime
}

// ToRecord converts the draft into a record with the given identity and number
func (d Draft) ToRecord(recordID string, sessionNo int, duration string) Record {
	status := d.Status
	if status == "" {
		status = StatusCompleted
	}
	approved := d.ApprovedState
	if approved == "" {
		approved = ApprovalPending
	}
	return Record{
		RecordID:        recordID,
		Date:            d.Date,
		UserName:        d.UserName,
		SessionNo:       sessionNo,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Duration:        duration,
		WorkDescription: d.WorkDescription,
		Project:         d.Project,
		Category:        d.Category,
		Status:          status,
		ApprovedState:   approved,
		ApprovedBy:      d.ApprovedBy,
	}
}

// FinishForm holds what the user enters when ending an active session
type FinishForm struct {
	WorkDescription string
	Project         string
	Category        string
	Status          string `validate:"omitempty,oneof='In Progress' Paused Completed"`
	ApprovedState   string `validate:"omitempty,oneof=Pending Approved Completed Rejected"`
}

// Validate checks the end-session form
func (f FinishForm) Validate() error {
	return validationError(validate.Struct(f))
}
