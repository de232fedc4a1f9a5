package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/reminder"
	"github.com/balkashynov/punch/internal/tracker"
	"github.com/balkashynov/punch/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a work session",
	Long: `Start a work session. Opens the interactive timer by default, use --no-ui for a simple start.

Examples:
  punch start              # Start now and open the timer
  punch start --at 08:45   # Start earlier today
  punch start --no-ui      # Start without the timer`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		var custom *time.Time
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			t, err := clockToday(at, time.Now())
			if err != nil {
				return err
			}
			custom = &t
		}

		session, err := a.tracker.Start(custom)
		if err != nil {
			if errors.Is(err, tracker.ErrSessionActive) {
				fmt.Println("A session is already running. Use 'punch watch' or 'punch stop'.")
				return nil
			}
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started session #%d for %s\n", session.SessionNo, session.Date)
			fmt.Printf("Started at: %s\n", session.StartTime)
			return nil
		}
		return watch(cmd, a)
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.Pause(); err != nil {
			return err
		}
		fmt.Println("⏸️  Paused")
		return nil
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.Resume(); err != nil {
			return err
		}
		fmt.Println("▶️  Resumed")
		return nil
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running session and record it",
	Long: `Stop the running session. Opens the end-session form unless --description is given.

A session that started yesterday is recorded as two entries split at midnight.

Stopped sessions are recorded directly and do not show up as admin requests.
Use 'punch add' for an entry that needs approval.`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return finish(cmd, a)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		session := a.tracker.Active()
		if session == nil {
			fmt.Println("No active session")
		} else {
			elapsed := time.Duration(a.tracker.Elapsed(time.Now())) * time.Second
			fmt.Printf("⏱️  Session #%d on %s (%s)\n", session.SessionNo, session.Date, a.tracker.Phase())
			fmt.Printf("Started at: %s\n", session.StartTime)
			fmt.Printf("Worked: %s\n", formatDuration(elapsed))
			if session.TotalPausedSeconds > 0 {
				fmt.Printf("Paused: %s\n", formatDuration(time.Duration(session.TotalPausedSeconds)*time.Second))
			}
		}
		fmt.Printf("Today: %s\n", parser.FormatDurationSeconds(a.tracker.TodayTotal()))
		if interval := a.tracker.ReminderInterval(); interval > 0 {
			fmt.Printf("Check-ins every %s\n", reminder.FormatInterval(interval))
		}
		return nil
	}),
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the timer for the running session",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return watch(cmd, a)
	}),
}

// watch shows the timer with check-in reminders and runs the stop flow when asked
func watch(cmd *cobra.Command, a *app) error {
	sched := reminder.NewScheduler(reminder.Config{
		Session:  a.tracker,
		Notifier: a.notifier(),
		Logger:   a.logger,
	})

	outcome, err := tui.RunTimer(cmd.Context(), a.tracker, sched)
	if err != nil {
		return err
	}
	if outcome == tui.OutcomeStopped {
		return finish(cmd, a)
	}
	fmt.Println("Session still running. Use 'punch watch' to come back or 'punch stop' to finish.")
	return nil
}

// finish collects the end-session form and records the session
func finish(cmd *cobra.Command, a *app) error {
	if err := a.tracker.RequestStop(); err != nil {
		return err
	}

	form := finishFormFromFlags(cmd)
	if !cmd.Flags().Changed("description") {
		if err := runFinishForm(&form); err != nil {
			a.tracker.CancelStop()
			return err
		}
	}

	records, err := a.tracker.Finalize(cmd.Context(), form)
	if records != nil {
		fmt.Printf("⏹️  Recorded %d %s\n", len(records), plural(len(records), "entry", "entries"))
		for _, r := range records {
			fmt.Printf("  %s #%d  %s-%s  %s\n", r.Date, r.SessionNo, r.StartTime, r.EndTime, parser.FormatShort(r.Duration))
		}
	}
	return err
}

func finishFormFromFlags(cmd *cobra.Command) models.FinishForm {
	var form models.FinishForm
	descr, _ := cmd.Flags().GetString("description")
	form.Project, _ = cmd.Flags().GetString("project")
	form.Category, _ = cmd.Flags().GetString("category")
	form.Status, _ = cmd.Flags().GetString("status")
	form.ApprovedState, _ = cmd.Flags().GetString("approval")
	pullTokens(descr, &form.WorkDescription, &form.Project, &form.Category)
	return form
}

// clockToday turns "HH:MM" into that wall-clock time on now's date
func clockToday(clock string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s', use HH:MM", clock)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	startCmd.Flags().String("at", "", "Start time earlier today (HH:MM)")
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive timer")

	for _, c := range []*cobra.Command{startCmd, stopCmd, watchCmd} {
		c.Flags().StringP("description", "d", "", "Work description; skips the form")
		c.Flags().StringP("project", "p", "", "Project")
		c.Flags().StringP("category", "c", "", "Category")
		c.Flags().String("status", "", "Status: Completed, In Progress or Paused")
		c.Flags().String("approval", "", "Approval state: Pending or Approved")
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
