package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/tracker"
)

// reportError prints err the way a user can act on it
func reportError(err error) {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("Cancelled.")
		return
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		fmt.Printf("Error: invalid input\n")
		for _, f := range verr.Fields {
			fmt.Printf("  - %s\n", f)
		}
		return
	}

	if steps := stepErrors(err); len(steps) > 0 {
		fmt.Println("Some steps failed; local state was kept and a resync was scheduled:")
		for _, s := range steps {
			fmt.Printf("  - %s: %v\n", s.Step, s.Err)
		}
		return
	}

	fmt.Printf("Error: %v\n", err)
	switch {
	case api.IsTransport(err):
		fmt.Println("The store could not be reached. Check PUNCH_API_URL and your connection.")
	case api.IsFormat(err):
		fmt.Println("The store answered with something that is not JSON. Check the endpoint URL.")
	}
}

// stepErrors unpacks the per-step failures of a multi-step operation
func stepErrors(err error) []*tracker.StepError {
	var out []*tracker.StepError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, stepErrors(e)...)
		}
		return out
	}
	var step *tracker.StepError
	if errors.As(err, &step) {
		out = append(out, step)
	}
	return out
}

// printRecords prints records as a table
func printRecords(records []models.Record) {
	fmt.Printf("%-14s %-10s %-10s %-3s %-5s %-5s %-14s %-30s %-12s %s\n",
		"ID", "DATE", "USER", "NO", "START", "END", "DURATION", "DESCRIPTION", "PROJECT", "APPROVAL")
	fmt.Println(strings.Repeat("-", 120))
	for _, r := range records {
		fmt.Printf("%-14s %-10s %-10s %-3d %-5s %-5s %-14s %-30s %-12s %s\n",
			truncate(r.RecordID, 14),
			r.Date,
			truncate(r.UserName, 10),
			r.SessionNo,
			r.StartTime,
			r.EndTime,
			parser.FormatShort(r.Duration),
			truncate(r.WorkDescription, 30),
			truncate(r.Project, 12),
			r.ApprovedState)
	}
}

// truncate shortens s to width, marking the cut with "..."
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
