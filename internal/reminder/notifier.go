package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/slack-go/slack"
)

// Notification is a check-in reminder as shown to the user
type Notification struct {
	Title string
	Body  string
}

// Notifier delivers reminders outside the prompt itself
type Notifier interface {
	// Available reports whether the capability exists in this environment
	Available() bool
	Notify(ctx context.Context, n Notification) error
}

// Pick returns the first available notifier, falling back to logging
func Pick(logger *slog.Logger, candidates ...Notifier) Notifier {
	for _, c := range candidates {
		if c != nil && c.Available() {
			return c
		}
	}
	return &LogNotifier{Logger: logger}
}

// CheckIn builds the reminder shown after interval of work
func CheckIn(interval time.Duration) Notification {
	return Notification{
		Title: "Still working?",
		Body:  fmt.Sprintf("You've been active for %s. Click to check in.", FormatInterval(interval)),
	}
}

// FormatInterval renders whole seconds as "1 h 30 m", "45 s" or "0 s"
func FormatInterval(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	out := ""
	if h > 0 {
		out += fmt.Sprintf("%d h ", h)
	}
	if m > 0 {
		out += fmt.Sprintf("%d m ", m)
	}
	if s > 0 || out == "" {
		out += fmt.Sprintf("%d s", s)
	}
	return strings.TrimSpace(out)
}

// LogNotifier writes reminders to the log. Always available.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l *LogNotifier) Available() bool { return true }

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info(n.Title, "body", n.Body)
	return nil
}

// SlackNotifier posts reminders to a Slack channel
type SlackNotifier struct {
	client  *slack.Client
	channel string
	token   string
}

func NewSlackNotifier(token, channel string, options ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token, options...),
		channel: channel,
		token:   token,
	}
}

func (s *SlackNotifier) Available() bool {
	return s.token != "" && s.channel != ""
}

func (s *SlackNotifier) Notify(ctx context.Context, n Notification) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(fmt.Sprintf("*%s*\n%s", n.Title, n.Body), false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

// BellNotifier rings the terminal bell and prints the reminder. Only
// available when the output is a terminal.
type BellNotifier struct {
	Out io.Writer
	FD  uintptr
}

func NewBellNotifier() *BellNotifier {
	return &BellNotifier{Out: os.Stdout, FD: os.Stdout.Fd()}
}

func (b *BellNotifier) Available() bool {
	return isatty.IsTerminal(b.FD) || isatty.IsCygwinTerminal(b.FD)
}

func (b *BellNotifier) Notify(_ context.Context, n Notification) error {
	_, err := fmt.Fprintf(b.Out, "\a%s %s\n", n.Title, n.Body)
	return err
}
