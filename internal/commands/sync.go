package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/parser"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reload your sessions from the store",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.Reload(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("🔄 Synced %d sessions, today %s\n", len(a.tracker.Sessions()), parser.FormatDurationSeconds(a.tracker.TodayTotal()))
		return nil
	}),
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Manage the daily totals kept for attendance",
}

var totalSetCmd = &cobra.Command{
	Use:   "set <date> <duration>",
	Short: "Override the recorded total of a day",
	Long: `Override the recorded total of a day.

Durations may be written as "08 HRS : 30 MIN : 00 SEC", "8:30", "8:30:00" or plain seconds.

Example:
  punch total set 2026-01-05 "7:45"`,
	Args: cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.SetDailyTotal(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Total for %s set to %s\n", args[0], parser.FormatDurationSeconds(parser.ParseDurationToSeconds(args[1])))
		return nil
	}),
}

func init() {
	totalCmd.AddCommand(totalSetCmd)
}
