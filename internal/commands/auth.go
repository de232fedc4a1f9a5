package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the attendance store",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		email, _ := cmd.Flags().GetString("email")
		var password string
		if err := runLoginForm(&email, &password); err != nil {
			return err
		}

		id, err := a.tracker.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", id.Name, id.Role)
		if err := a.tracker.Reload(cmd.Context()); err != nil {
			a.logger.Warn("initial sync failed", "error", err)
			return nil
		}
		fmt.Printf("Synced %d sessions\n", len(a.tracker.Sessions()))
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the logged-in user on this machine",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tracker.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		if a.tracker.Active() != nil {
			fmt.Println("The running session is kept; log in again to stop it.")
		}
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id := a.tracker.Identity()
		if !id.LoggedIn() {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s <%s> (%s)\n", id.Name, id.Email, id.Role)
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Prefill the email address")
}
