package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add [description]",
	Short: "Add a missed session for approval",
	Long: `Add a session you forgot to track. It is sent to an admin for approval.

Modes:
  Interactive: punch add (opens the form)
  Quick: punch add --start 09:00 --end 12:30 "Fixed login redirect @portal #development"

An end time before the start time means the session ran past midnight; it is
recorded as two entries, one per day.`,
	Args: cobra.ArbitraryArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		d := draftFromFlags(cmd, args)
		if d.StartTime == "" || d.EndTime == "" {
			if err := runDraftForm("Add a missed session", &d); err != nil {
				return err
			}
		}

		records, err := a.tracker.AddManual(cmd.Context(), d)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Submitted %d %s for approval\n", len(records), plural(len(records), "entry", "entries"))
		for _, r := range records {
			fmt.Printf("  %s  %s-%s  %s\n", r.Date, r.StartTime, r.EndTime, r.WorkDescription)
		}
		return nil
	}),
}

// draftFromFlags builds a draft from flags, today being the default date
func draftFromFlags(cmd *cobra.Command, args []string) models.Draft {
	var d models.Draft
	d.Date, _ = cmd.Flags().GetString("date")
	if d.Date == "" {
		d.Date = models.DateString(time.Now())
	}
	d.StartTime, _ = cmd.Flags().GetString("start")
	d.EndTime, _ = cmd.Flags().GetString("end")
	d.Project, _ = cmd.Flags().GetString("project")
	d.Category, _ = cmd.Flags().GetString("category")
	pullTokens(joinArgs(args), &d.WorkDescription, &d.Project, &d.Category)
	return d
}

func init() {
	addCmd.Flags().String("date", "", "Date (YYYY-MM-DD), defaults to today")
	addCmd.Flags().String("start", "", "Start time (HH:MM)")
	addCmd.Flags().String("end", "", "End time (HH:MM)")
	addCmd.Flags().StringP("project", "p", "", "Project")
	addCmd.Flags().StringP("category", "c", "", "Category")
}
