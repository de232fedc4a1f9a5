package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/balkashynov/punch/internal/tracker"
)

// Session is the part of the tracker the scheduler reads and updates
type Session interface {
	ReminderState() tracker.ReminderState
	MarkReminded(at time.Time) error
}

// State of the scheduler
type State int

const (
	Dormant State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "dormant"
}

// Response is the user's answer to a check-in prompt
type Response int

const (
	Continue Response = iota
	Stop
)

// Prompt is a raised check-in waiting for a Response
type Prompt struct {
	At           time.Time
	Notification Notification
}

// Config wires a Scheduler
type Config struct {
	Session  Session
	Notifier Notifier
	Clock    func() time.Time
	Logger   *slog.Logger
	// OnStop runs when the user answers Stop
	OnStop func(ctx context.Context) error
	// Headless schedulers have nobody to answer prompts; a fired reminder
	// does not hold the next one back.
	Headless bool
}

// Scheduler raises "still working?" prompts while a session runs
type Scheduler struct {
	session  Session
	notifier Notifier
	now      func() time.Time
	logger   *slog.Logger
	onStop   func(ctx context.Context) error
	headless bool
	prompts  chan Prompt

	mu         sync.Mutex
	promptOpen bool
}

func NewScheduler(cfg Config) *Scheduler {
	s := &Scheduler{
		session:  cfg.Session,
		notifier: cfg.Notifier,
		now:      cfg.Clock,
		logger:   cfg.Logger,
		onStop:   cfg.OnStop,
		headless: cfg.Headless,
		prompts:  make(chan Prompt, 1),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = &LogNotifier{Logger: s.logger}
	}
	return s
}

// Prompts delivers raised check-ins to whoever shows them
func (s *Scheduler) Prompts() <-chan Prompt {
	return s.prompts
}

// PromptOpen reports whether a check-in is waiting for an answer
func (s *Scheduler) PromptOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptOpen
}

// State reports whether a reminder can currently fire
func (s *Scheduler) State() State {
	st := s.session.ReminderState()
	if s.PromptOpen() || !armed(st) {
		return Dormant
	}
	return Armed
}

func armed(st tracker.ReminderState) bool {
	return st.Running && st.Interval > 0 && !st.StopPending
}

// Check fires a reminder if one is due. The session state is read once and
// the baseline is reset right away so a slow answer never causes a repeat.
func (s *Scheduler) Check(ctx context.Context) bool {
	st := s.session.ReminderState()

	s.mu.Lock()
	if s.promptOpen || !armed(st) {
		s.mu.Unlock()
		return false
	}
	now := s.now()
	if now.Sub(st.Baseline) < st.Interval {
		s.mu.Unlock()
		return false
	}
	s.promptOpen = !s.headless
	s.mu.Unlock()

	if err := s.session.MarkReminded(now); errors.Is(err, tracker.ErrNoActiveSession) {
		// stopped by another process since the state was read
		s.mu.Lock()
		s.promptOpen = false
		s.mu.Unlock()
		return false
	} else if err != nil {
		s.logger.Warn("failed to reset reminder baseline", "error", err)
	}

	n := CheckIn(st.Interval)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("reminder notification failed", "error", err)
	}
	if !s.headless {
		select {
		case s.prompts <- Prompt{At: now, Notification: n}:
		default:
		}
	}
	s.logger.Debug("check-in raised", "interval", st.Interval)
	return true
}

// Run checks immediately and then every second until ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	s.Check(ctx)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Respond closes the open prompt. Continue restarts the interval; Stop hands
// over to the stop flow.
func (s *Scheduler) Respond(ctx context.Context, r Response) error {
	s.mu.Lock()
	s.promptOpen = false
	s.mu.Unlock()

	if r == Stop {
		if s.onStop == nil {
			return nil
		}
		return s.onStop(ctx)
	}
	return s.session.MarkReminded(s.now())
}
