package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/reminder"
	"github.com/balkashynov/punch/internal/tracker"
)

var remindCmd = &cobra.Command{
	Use:   "remind [interval]",
	Short: "Show or set the check-in reminder interval",
	Long: `Show or set how often you are asked whether you are still working.

Examples:
  punch remind          # Show the current interval
  punch remind 45m      # Every 45 minutes
  punch remind 1:30     # Every hour and a half
  punch remind off      # Never`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if len(args) == 0 {
			if interval := a.tracker.ReminderInterval(); interval > 0 {
				fmt.Printf("Check-ins every %s\n", reminder.FormatInterval(interval))
			} else {
				fmt.Println("Check-ins are off")
			}
			return nil
		}

		interval, err := parseInterval(args[0])
		if err != nil {
			return err
		}
		if err := a.tracker.SetReminderInterval(interval); err != nil {
			return err
		}
		if interval == 0 {
			fmt.Println("🔕 Check-ins turned off")
		} else {
			fmt.Printf("🔔 Check-ins every %s\n", reminder.FormatInterval(interval))
		}
		return nil
	}),
}

var remindRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Send check-in reminders until interrupted",
	Long: `Watch the running session in the background and send check-in reminders
through Slack (SLACK_BOT_TOKEN, SLACK_REMINDER_CHANNEL) or the terminal bell.

Sessions started, paused or stopped from other punch commands are picked up.`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		sched := reminder.NewScheduler(reminder.Config{
			Session:  liveSession{tr: a.tracker, logger: a.logger},
			Notifier: a.notifier(),
			Logger:   a.logger,
			Headless: true,
		})
		fmt.Println("Sending check-ins, press Ctrl-C to stop")
		err := sched.Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}),
}

// liveSession re-reads stored state before every check so changes made by
// other punch processes are seen
type liveSession struct {
	tr     *tracker.Tracker
	logger *slog.Logger
}

func (s liveSession) ReminderState() tracker.ReminderState {
	if err := s.tr.Load(); err != nil {
		s.logger.Warn("failed to reload state", "error", err)
	}
	return s.tr.ReminderState()
}

func (s liveSession) MarkReminded(at time.Time) error {
	return s.tr.MarkReminded(at)
}

// notifier picks Slack when configured, then the terminal bell, then the log
func (a *app) notifier() reminder.Notifier {
	var candidates []reminder.Notifier
	if a.cfg.Slack.BotToken != "" {
		candidates = append(candidates, reminder.NewSlackNotifier(a.cfg.Slack.BotToken, a.cfg.Slack.ReminderChannel))
	}
	candidates = append(candidates, reminder.NewBellNotifier())
	return reminder.Pick(a.logger, candidates...)
}

// parseInterval accepts "off", Go durations like "45m" and stored duration formats
func parseInterval(raw string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "off", "never", "0":
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, nil
	}
	if secs := parser.ParseDurationToSeconds(s); secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%w: %q", tracker.ErrInvalidDuration, raw)
}

func init() {
	remindCmd.AddCommand(remindRunCmd)
}
