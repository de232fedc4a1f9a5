package admin

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
)

// UserStore manages accounts in the auxiliary store
type UserStore interface {
	ReadAdmin(ctx context.Context) (*api.AdminData, error)
	Register(ctx context.Context, u models.User) (string, error)
	UpdateUser(ctx context.Context, u models.User) error
	DeleteFrom(ctx context.Context, recordID, sheet string) error
}

// Users administers accounts. Each kind of change runs one at a time.
type Users struct {
	store  UserStore
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	adding   bool
	updating string
	removing string
}

func NewUsers(store UserStore, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{store: store, now: time.Now, logger: logger}
}

// List returns all accounts
func (u *Users) List(ctx context.Context) ([]models.User, error) {
	data, err := u.store.ReadAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return data.Users, nil
}

// Add registers a new account and returns it without its password
func (u *Users) Add(ctx context.Context, user models.User) (models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}
	if user.Password == "" {
		return models.User{}, &models.ValidationError{Fields: []string{"Password (required)"}, Err: ErrPasswordRequired}
	}

	u.mu.Lock()
	if u.adding {
		u.mu.Unlock()
		return models.User{}, ErrInFlight
	}
	u.adding = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.adding = false
		u.mu.Unlock()
	}()

	id, err := u.store.Register(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	now := u.now()
	if id == "" {
		id = strconv.FormatInt(now.UnixMilli(), 10)
	}
	user.RecordID = id
	user.Password = ""
	user.CreatedAt = now.Format("1/2/2006")
	u.logger.Info("user added", "email", user.Email, "role", user.Role)
	return user, nil
}

// Update overwrites an account; an empty password keeps the current one
func (u *Users) Update(ctx context.Context, user models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if !u.begin(&u.updating, user.RecordID) {
		return ErrInFlight
	}
	defer u.end(&u.updating)

	if err := u.store.UpdateUser(ctx, user); err != nil {
		return err
	}
	u.logger.Info("user updated", "email", user.Email)
	return nil
}

// Remove deletes an account
func (u *Users) Remove(ctx context.Context, recordID string) error {
	if !u.begin(&u.removing, recordID) {
		return ErrInFlight
	}
	defer u.end(&u.removing)

	if err := u.store.DeleteFrom(ctx, recordID, api.SheetUsers); err != nil {
		return err
	}
	u.logger.Info("user removed", "id", recordID)
	return nil
}

func (u *Users) begin(slot *string, id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if *slot != "" {
		return false
	}
	*slot = id
	return true
}

func (u *Users) end(slot *string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	*slot = ""
}
