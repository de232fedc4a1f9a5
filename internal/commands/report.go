package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a weekly timesheet",
	Long: `Show a weekly timesheet of recorded hours grouped by project and day.

Example output:
  Project                 Mon   Tue   Wed   Thu   Fri   Total
  portal                  2.0   3.5   1.0     -     -     6.5
  (no project)              -   1.0   2.0   4.0   1.0     8.0
  Total                   2.0   4.5   3.0   4.0   1.0    14.5`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		weeksBack, _ := cmd.Flags().GetInt("weeks-ago")
		weekStart := getWeekStart(time.Now()).AddDate(0, 0, -7*weeksBack)

		sheet := buildTimesheet(a.tracker.Sessions(), weekStart)
		if len(sheet.rows) == 0 {
			fmt.Println("No time recorded this week.")
			return nil
		}
		sheet.write(cmd.OutOrStdout())
		return nil
	}),
}

// timesheet holds hours per project per weekday for one week
type timesheet struct {
	weekStart time.Time
	rows      map[string]map[time.Weekday]float64
	active    map[time.Weekday]bool
}

const noProject = "(no project)"

// buildTimesheet groups the records of the week starting at weekStart
func buildTimesheet(records []models.Record, weekStart time.Time) timesheet {
	ts := timesheet{
		weekStart: weekStart,
		rows:      make(map[string]map[time.Weekday]float64),
		active:    make(map[time.Weekday]bool),
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	for _, r := range records {
		day, err := time.ParseInLocation("2006-01-02", r.Date, weekStart.Location())
		if err != nil || day.Before(weekStart) || !day.Before(weekEnd) {
			continue
		}
		secs := parser.ParseDurationToSeconds(r.Duration)
		if secs == 0 {
			continue
		}
		key := r.Project
		if key == "" {
			key = noProject
		}
		if ts.rows[key] == nil {
			ts.rows[key] = make(map[time.Weekday]float64)
		}
		ts.rows[key][day.Weekday()] += float64(secs) / 3600.0
		ts.active[day.Weekday()] = true
	}
	return ts
}

// days returns Mon-Fri plus any weekend day with recorded time
func (ts timesheet) days() []time.Weekday {
	var out []time.Weekday
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if (d >= time.Monday && d <= time.Friday) || ts.active[d] {
			out = append(out, d)
		}
	}
	return out
}

// keys returns project names sorted, with the no-project row last
func (ts timesheet) keys() []string {
	keys := make([]string, 0, len(ts.rows))
	for k := range ts.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == noProject || keys[j] == noProject {
			return keys[j] == noProject && keys[i] != noProject
		}
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

func (ts timesheet) write(w io.Writer) {
	days := ts.days()
	keys := ts.keys()

	nameWidth := 20
	for _, k := range keys {
		nameWidth = max(nameWidth, len(k))
	}
	nameWidth = min(nameWidth, 40)
	const colWidth = 6

	separator := func() {
		fmt.Fprint(w, strings.Repeat("-", nameWidth))
		for range days {
			fmt.Fprint(w, strings.Repeat("-", colWidth))
		}
		fmt.Fprintln(w, strings.Repeat("-", colWidth+2))
	}
	cell := func(hours float64) string {
		if hours <= 0 {
			return "-"
		}
		return fmt.Sprintf("%.1f", hours)
	}

	fmt.Fprintf(w, "%-*s", nameWidth, "Project")
	for _, d := range days {
		fmt.Fprintf(w, "%*s", colWidth, d.String()[:3])
	}
	fmt.Fprintf(w, "%*s\n", colWidth+2, "Total")
	separator()

	dayTotals := make(map[time.Weekday]float64)
	grand := 0.0
	for _, k := range keys {
		fmt.Fprintf(w, "%-*s", nameWidth, truncate(k, nameWidth))
		rowTotal := 0.0
		for _, d := range days {
			h := ts.rows[k][d]
			fmt.Fprintf(w, "%*s", colWidth, cell(h))
			dayTotals[d] += h
			rowTotal += h
		}
		fmt.Fprintf(w, "%*.1f\n", colWidth+2, rowTotal)
		grand += rowTotal
	}

	separator()
	fmt.Fprintf(w, "%-*s", nameWidth, "Total")
	for _, d := range days {
		fmt.Fprintf(w, "%*.1f", colWidth, dayTotals[d])
	}
	fmt.Fprintf(w, "%*.1f\n", colWidth+2, grand)

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		ts.weekStart.Format("Jan 2"),
		ts.weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6
	}

	weekStart := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

func init() {
	reportCmd.Flags().Int("weeks-ago", 0, "Show an earlier week, 1 being last week")
}
