package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List your sessions",
	Long:    "List your recorded sessions, newest first, from the local copy. Use --sync to refresh it first.",
	Args:    cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		if refresh, _ := cmd.Flags().GetBool("sync"); refresh {
			if err := a.tracker.Reload(cmd.Context()); err != nil {
				return err
			}
		}

		day, _ := cmd.Flags().GetString("date")
		if today, _ := cmd.Flags().GetBool("today"); today {
			day = models.DateString(time.Now())
		}

		var sessions []models.Record
		var total int64
		for _, r := range a.tracker.Sessions() {
			if day != "" && r.Date != day {
				continue
			}
			sessions = append(sessions, r)
			total += parser.ParseDurationToSeconds(r.Duration)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found. Use 'punch start' or 'punch add' to record one.")
			return nil
		}
		printRecords(sessions)
		fmt.Printf("\n%d %s, %s\n", len(sessions), plural(len(sessions), "session", "sessions"), parser.FormatDurationSeconds(total))
		return nil
	}),
}

func init() {
	listCmd.Flags().String("date", "", "Only sessions on this date (YYYY-MM-DD)")
	listCmd.Flags().Bool("today", false, "Only today's sessions")
	listCmd.Flags().Bool("sync", false, "Reload from the store first")
}
