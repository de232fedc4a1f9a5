package tracker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
)

// RecordStore is the canonical record store
type RecordStore interface {
	Read(ctx context.Context, f api.Filter) ([]models.Record, error)
	Create(ctx context.Context, r models.Record) (string, error)
	Update(ctx context.Context, r models.Record) error
	Delete(ctx context.Context, recordID string) error
}

// PendingStore is the auxiliary store holding entries that wait for approval
// and the per-day totals cache
type PendingStore interface {
	Create(ctx context.Context, r models.Record) (string, error)
	SetDailyTotal(ctx context.Context, date, userName, total string) error
}

// Authenticator checks credentials
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// Config wires a Tracker to its collaborators
type Config struct {
	Storage Storage
	Records RecordStore
	Pending PendingStore
	Auth    Authenticator
	Clock   func() time.Time
	Logger  *slog.Logger
}

// Tracker owns the client-side application state: who is logged in, the one
// active session, the known session list and the reminder preference.
type Tracker struct {
	storage Storage
	records RecordStore
	pending PendingStore
	auth    Authenticator
	now     func() time.Time
	logger  *slog.Logger

	mu               sync.Mutex
	identity         models.Identity
	active           *models.ActiveSession
	stopRequested    bool
	finalizing       bool
	sessions         []models.Record
	reminderInterval time.Duration

	// latest daily total not yet pushed; one pusher drains it at a time
	queuedTotal  *dailyTotal
	pushingTotal bool

	bg sync.WaitGroup
}

// New creates a tracker. Call Load to rehydrate persisted state.
func New(cfg Config) *Tracker {
	t := &Tracker{
		storage: cfg.Storage,
		records: cfg.Records,
		pending: cfg.Pending,
		auth:    cfg.Auth,
		now:     cfg.Clock,
		logger:  cfg.Logger,
	}
	if t.storage == nil {
		t.storage = NewMemoryStorage()
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Load restores identity, reminder preference, the active session and the
// cached session list from storage. Corrupt entries are dropped.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	name, _, err := t.storage.Get(KeyUserName)
	if err != nil {
		return err
	}
	email, _, _ := t.storage.Get(KeyUserEmail)
	role, _, _ := t.storage.Get(KeyUserRole)
	if role == "" {
		role = models.RoleUser
	}
	t.identity = models.Identity{Name: name, Email: email, Role: role}

	// Storage is the source of truth; another process may have stopped the
	// session or changed the list since the last load.
	t.active = nil
	t.sessions = nil
	t.reminderInterval = 0

	if raw, ok, _ := t.storage.Get(KeyReminderInterval); ok {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			t.logger.Warn("ignoring stored reminder interval", "value", raw)
		} else {
			t.reminderInterval = time.Duration(secs) * time.Second
		}
	}

	if raw, ok, _ := t.storage.Get(KeyActiveSession); ok && raw != "" {
		var s models.ActiveSession
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.logger.Warn("dropping corrupt active session", "error", err)
			_ = t.storage.Remove(KeyActiveSession)
		} else {
			t.active = &s
		}
	}

	if raw, ok, _ := t.storage.Get(KeySessionCache); ok && raw != "" {
		var list []models.Record
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			t.logger.Warn("dropping corrupt session cache", "error", err)
			_ = t.storage.Remove(KeySessionCache)
		} else {
			t.sessions = list
		}
	}
	if t.active == nil {
		t.stopRequested = false
	}
	return nil
}

// Identity returns the logged-in user, empty when logged out
func (t *Tracker) Identity() models.Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.identity
}

// Login verifies credentials against the auxiliary store and caches the identity
func (t *Tracker) Login(ctx context.Context, email, password string) (models.Identity, error) {
	u, err := t.auth.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	id := models.Identity{Name: u.Name, Email: u.Email, Role: role}

	t.mu.Lock()
	defer t.mu.Unlock()
	for key, value := range map[string]string{
		KeyUserName:  id.Name,
		KeyUserEmail: id.Email,
		KeyUserRole:  id.Role,
	} {
		if err := t.storage.Set(key, value); err != nil {
			return models.Identity{}, err
		}
	}
	t.identity = id
	t.logger.Info("logged in", "user", id.Name, "role", id.Role)
	return id, nil
}

// Logout forgets the cached identity and session list
func (t *Tracker) Logout() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, key := range []string{KeyUserName, KeyUserEmail, KeyUserRole, KeySessionCache} {
		if err := t.storage.Remove(key); err != nil {
			return err
		}
	}
	t.identity = models.Identity{}
	t.sessions = nil
	return nil
}

// ReminderInterval returns the check-in interval; 0 means never
func (t *Tracker) ReminderInterval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reminderInterval
}

// SetReminderInterval stores the check-in interval, truncated to whole seconds
func (t *Tracker) SetReminderInterval(d time.Duration) error {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.storage.Set(KeyReminderInterval, strconv.FormatInt(secs, 10)); err != nil {
		return err
	}
	t.reminderInterval = time.Duration(secs) * time.Second
	return nil
}

// Sessions returns a copy of the known session list, newest first
func (t *Tracker) Sessions() []models.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Record, len(t.sessions))
	copy(out, t.sessions)
	return out
}

// Wait blocks until background reloads and total syncs have finished
func (t *Tracker) Wait() {
	t.bg.Wait()
}

// persistActiveLocked mirrors the active session to storage; t.mu must be held
func (t *Tracker) persistActiveLocked() error {
	if t.active == nil {
		return t.storage.Remove(KeyActiveSession)
	}
	raw, err := json.Marshal(t.active)
	if err != nil {
		return err
	}
	return t.storage.Set(KeyActiveSession, string(raw))
}
