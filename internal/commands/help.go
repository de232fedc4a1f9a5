package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show a walkthrough of every punch command",
	Long:  `Display a grouped overview of all punch commands, their flags and examples.`,
	Run: func(cmd *cobra.Command, args []string) {
		showGuide(cmd.OutOrStdout())
	},
}

type helpSection struct {
	title    string
	commands []helpCommand
}

type helpCommand struct {
	name        string
	description string
	examples    []string
	flags       []helpFlag
}

type helpFlag struct {
	name        string
	description string
}

var guideSections = []helpSection{
	{
		title: "ACCOUNT",
		commands: []helpCommand{
			{name: "login", description: "Log in and sync your sessions", flags: []helpFlag{{"-e, --email", "Prefill the email address"}}},
			{name: "logout", description: "Forget the logged-in user"},
			{name: "whoami", description: "Show the logged-in user"},
		},
	},
	{
		title: "SESSIONS",
		commands: []helpCommand{
			{
				name:        "start",
				description: "Start a session and open the timer",
				flags:       []helpFlag{{"--at", "Start earlier today (HH:MM)"}, {"--no-ui", "Skip the timer"}},
				examples:    []string{"punch start --at 08:45"},
			},
			{name: "pause / resume", description: "Pause or resume the running session"},
			{
				name:        "stop",
				description: "Stop and record the session; past midnight it becomes two entries. Not sent as an admin request",
				flags: []helpFlag{
					{"-d, --description", "Work description, skips the form"},
					{"-p, --project", "Project"},
					{"-c, --category", "Category"},
				},
				examples: []string{`punch stop -d "Fixed login redirect @portal #development"`},
			},
			{name: "status", description: "Show the running session and today's total"},
			{name: "watch", description: "Reopen the timer (p pause, s stop, c continue, q leave)"},
		},
	},
	{
		title: "HISTORY",
		commands: []helpCommand{
			{name: "ls", description: "List your sessions", flags: []helpFlag{{"--date", "Only this date"}, {"--today", "Only today"}, {"--sync", "Reload first"}}},
			{
				name:        "add [description]",
				description: "Submit a missed session for approval",
				flags:       []helpFlag{{"--date", "Date, defaults to today"}, {"--start", "HH:MM"}, {"--end", "HH:MM"}},
				examples:    []string{`punch add --start 22:00 --end 01:30 "Release night"`},
			},
			{name: "edit <id>", description: "Edit a session"},
			{name: "rm <id>", description: "Delete a session and renumber its day", flags: []helpFlag{{"-y, --yes", "Skip the confirmation"}}},
			{name: "sync", description: "Reload sessions from the store"},
			{name: "total set <date> <duration>", description: "Override a day's recorded total"},
			{name: "report", description: "Weekly timesheet by project", flags: []helpFlag{{"--weeks-ago", "Earlier week"}}},
			{name: "export <file.xlsx>", description: "Export sessions to Excel", flags: []helpFlag{{"--everyone", "All users (admin)"}}},
		},
	},
	{
		title: "REMINDERS",
		commands: []helpCommand{
			{name: "remind [interval]", description: "Show or set the check-in interval", examples: []string{"punch remind 45m", "punch remind off"}},
			{name: "remind run", description: "Send check-ins via Slack or the terminal bell until Ctrl-C"},
		},
	},
	{
		title: "ADMIN",
		commands: []helpCommand{
			{name: "admin requests", description: "List pending entries"},
			{name: "admin approve <id>...", description: "Record pending entries with the next session number"},
			{name: "admin reject <id>", description: "Delete a pending entry"},
			{name: "admin attendance", description: "Daily totals per user"},
			{name: "admin history", description: "Sessions of all users"},
			{name: "admin users [add|update|rm]", description: "Manage accounts"},
		},
	},
}

func showGuide(w io.Writer) {
	fmt.Fprint(w, `
 ___  _  _  _  _  ___  _  _
| _ \| || || \| |/ __|| || |
|  _/| __ || .  | (__ | __ |
|_|   \__/ |_|\_|\___||_||_|

punch - attendance and time tracking from the terminal
`)
	for _, section := range guideSections {
		fmt.Fprintf(w, "\n%s:\n\n", section.title)
		for _, c := range section.commands {
			fmt.Fprintf(w, "  %-30s %s\n", c.name, c.description)
			for _, f := range c.flags {
				fmt.Fprintf(w, "    %-28s %s\n", f.name, f.description)
			}
			for _, e := range c.examples {
				fmt.Fprintf(w, "    e.g. %s\n", e)
			}
		}
	}
	fmt.Fprintln(w, "\nConfiguration is read from .env or ~/.punch/.env (PUNCH_API_URL, PUNCH_AUTH_URL).")
}
