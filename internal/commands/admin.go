package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/admin"
	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Approve requests and manage users (admin role)",
}

// withAdmin is withApp for commands that need the admin role
func withAdmin(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) {
	return withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		return fn(cmd, args, a)
	})
}

var adminRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List entries waiting for approval",
	Args:  cobra.NoArgs,
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		pending, err := a.pipeline().Pending(cmd.Context())
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending requests")
			return nil
		}
		printRecords(pending)
		return nil
	}),
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <request_id>...",
	Short: "Approve pending entries",
	Long: `Approve pending entries. Each is recorded with the next free session number
of its day, then removed from the pending list.`,
	Args: cobra.MinimumNArgs(1),
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		p := a.pipeline()
		pending, err := p.Pending(cmd.Context())
		if err != nil {
			return err
		}
		byID := make(map[string]models.Record, len(pending))
		for _, r := range pending {
			byID[r.RecordID] = r
		}

		for _, id := range args {
			req, ok := byID[id]
			if !ok {
				fmt.Printf("Request %s not found among pending requests\n", id)
				continue
			}
			rec, err := p.Approve(cmd.Context(), req)
			if err != nil {
				reportError(err)
				fmt.Printf("Request %s is %s\n", id, p.State(id))
				continue
			}
			fmt.Printf("✅ Approved %s: %s %s #%d\n", id, rec.UserName, rec.Date, rec.SessionNo)
		}
		return nil
	}),
}

var adminRejectCmd = &cobra.Command{
	Use:   "reject <request_id>",
	Short: "Reject a pending entry",
	Args:  cobra.ExactArgs(1),
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(fmt.Sprintf("Reject request %s? It will be deleted.", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := a.pipeline().Reject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("❌ Rejected %s\n", args[0])
		return nil
	}),
}

var adminAttendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show daily totals per user",
	Args:  cobra.NoArgs,
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		totals, err := a.pipeline().Attendance(cmd.Context())
		if err != nil {
			return err
		}
		day, _ := cmd.Flags().GetString("date")
		user, _ := cmd.Flags().GetString("user")

		fmt.Printf("%-10s %-20s %s\n", "DATE", "USER", "TOTAL")
		fmt.Println(strings.Repeat("-", 56))
		for _, t := range totals {
			if (day != "" && t.Date != day) || (user != "" && t.UserName != user) {
				continue
			}
			fmt.Printf("%-10s %-20s %s\n", t.Date, truncate(t.UserName, 20), t.TotalDuration)
		}
		return nil
	}),
}

var adminHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded sessions of all users",
	Args:  cobra.NoArgs,
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		day, _ := cmd.Flags().GetString("date")
		user, _ := cmd.Flags().GetString("user")
		records, err := a.pipeline().History(cmd.Context(), api.Filter{Date: day, UserName: user})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No sessions found")
			return nil
		}
		printRecords(records)
		return nil
	}),
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		users, err := a.users().List(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-14s %-20s %-30s %-6s %s\n", "ID", "NAME", "EMAIL", "ROLE", "CREATED")
		fmt.Println(strings.Repeat("-", 84))
		for _, u := range users {
			fmt.Printf("%-14s %-20s %-30s %-6s %s\n",
				truncate(u.RecordID, 14), truncate(u.Name, 20), truncate(u.Email, 30), u.Role, u.CreatedAt)
		}
		return nil
	}),
}

var adminUsersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		var u models.User
		if err := runUserForm(&u, true); err != nil {
			return err
		}
		created, err := a.users().Add(cmd.Context(), u)
		if err != nil {
			return err
		}
		fmt.Printf("👤 Added %s <%s> as %s\n", created.Name, created.Email, created.Role)
		return nil
	}),
}

var adminUsersUpdateCmd = &cobra.Command{
	Use:   "update <user_id>",
	Short: "Edit a user account",
	Args:  cobra.ExactArgs(1),
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		users := a.users()
		u, err := findUser(cmd, users, args[0])
		if err != nil {
			return err
		}
		if err := runUserForm(&u, false); err != nil {
			return err
		}
		if err := users.Update(cmd.Context(), u); err != nil {
			return err
		}
		fmt.Printf("✏️  Updated %s\n", u.Email)
		return nil
	}),
}

var adminUsersRmCmd = &cobra.Command{
	Use:   "rm <user_id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	Run: withAdmin(func(cmd *cobra.Command, args []string, a *app) error {
		users := a.users()
		u, err := findUser(cmd, users, args[0])
		if err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(fmt.Sprintf("Delete %s <%s>?", u.Name, u.Email))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := users.Remove(cmd.Context(), u.RecordID); err != nil {
			return err
		}
		fmt.Printf("🗑️  Deleted %s\n", u.Email)
		return nil
	}),
}

func findUser(cmd *cobra.Command, users *admin.Users, recordID string) (models.User, error) {
	list, err := users.List(cmd.Context())
	if err != nil {
		return models.User{}, err
	}
	for _, u := range list {
		if u.RecordID == recordID {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s not found", recordID)
}

func init() {
	adminRejectCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation")
	adminUsersRmCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation")
	for _, c := range []*cobra.Command{adminAttendanceCmd, adminHistoryCmd} {
		c.Flags().String("date", "", "Only this date (YYYY-MM-DD)")
		c.Flags().String("user", "", "Only this user")
	}

	adminUsersCmd.AddCommand(adminUsersAddCmd)
	adminUsersCmd.AddCommand(adminUsersUpdateCmd)
	adminUsersCmd.AddCommand(adminUsersRmCmd)

	adminCmd.AddCommand(adminRequestsCmd)
	adminCmd.AddCommand(adminApproveCmd)
	adminCmd.AddCommand(adminRejectCmd)
	adminCmd.AddCommand(adminAttendanceCmd)
	adminCmd.AddCommand(adminHistoryCmd)
	adminCmd.AddCommand(adminUsersCmd)
}
