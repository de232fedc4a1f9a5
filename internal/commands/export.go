package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/export"
	"github.com/balkashynov/punch/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export sessions to an Excel workbook",
	Long: `Export your sessions to an Excel workbook with a totals row.

Admins can export everyone's records with --everyone, optionally narrowed by --user.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		path := args[0]
		if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			path += ".xlsx"
		}
		day, _ := cmd.Flags().GetString("date")

		var records []models.Record
		if everyone, _ := cmd.Flags().GetBool("everyone"); everyone {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			user, _ := cmd.Flags().GetString("user")
			list, err := a.pipeline().History(cmd.Context(), api.Filter{Date: day, UserName: user})
			if err != nil {
				return err
			}
			records = list
		} else {
			for _, r := range a.tracker.Sessions() {
				if day == "" || r.Date == day {
					records = append(records, r)
				}
			}
		}

		if err := export.ToXLSX(records, path); err != nil {
			return err
		}
		fmt.Printf("📄 Exported %d sessions to %s\n", len(records), path)
		return nil
	}),
}

func init() {
	exportCmd.Flags().String("date", "", "Only sessions on this date (YYYY-MM-DD)")
	exportCmd.Flags().Bool("everyone", false, "Export all users' records (admin)")
	exportCmd.Flags().String("user", "", "With --everyone, only this user")
}
