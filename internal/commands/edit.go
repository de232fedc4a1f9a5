package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/tracker"
)

var editCmd = &cobra.Command{
	Use:   "edit <session_id>",
	Short: "Edit a recorded session",
	Long: `Edit a recorded session in a form pre-filled with its current data.
The duration is recomputed from the new start and end times.

Usage:
  punch edit 1717430400000    - Edit the session with that id`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		rec, ok := findSession(a.tracker, args[0])
		if !ok {
			return fmt.Errorf("session %s not found; try 'punch sync'", args[0])
		}

		d := rec.ToDraft()
		if err := runDraftForm(fmt.Sprintf("Edit %s #%d", rec.Date, rec.SessionNo), &d); err != nil {
			return err
		}

		updated := rec
		updated.Date = d.Date
		updated.StartTime = d.StartTime
		updated.EndTime = d.EndTime
		updated.WorkDescription = d.WorkDescription
		updated.Project = d.Project
		updated.Category = d.Category
		if err := a.tracker.Update(cmd.Context(), updated); err != nil {
			return err
		}
		fmt.Printf("✏️  Updated %s #%d\n", updated.Date, updated.SessionNo)
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm <session_id>",
	Aliases: []string{"delete"},
	Short:   "Delete a recorded session",
	Long:    "Delete a recorded session. The remaining sessions of that day are renumbered 1, 2, 3...",
	Args:    cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		rec, ok := findSession(a.tracker, args[0])
		if !ok {
			return fmt.Errorf("session %s not found; try 'punch sync'", args[0])
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(fmt.Sprintf("Delete %s #%d (%s-%s)?", rec.Date, rec.SessionNo, rec.StartTime, rec.EndTime))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		if err := a.tracker.Delete(cmd.Context(), rec.RecordID); err != nil {
			return err
		}
		fmt.Printf("🗑️  Deleted %s #%d\n", rec.Date, rec.SessionNo)
		return nil
	}),
}

func findSession(tr *tracker.Tracker, recordID string) (models.Record, bool) {
	for _, r := range tr.Sessions() {
		if r.RecordID == recordID {
			return r, true
		}
	}
	return models.Record{}, false
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func init() {
	rmCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation")
}
