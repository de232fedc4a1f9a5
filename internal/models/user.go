package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account in the auxiliary store
type User struct {
	RecordID  string `json:"recordId"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"-"` // sent on register/update only, never read back
	Name      string `json:"name" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
	CreatedAt string `json:"createdAt"`
}

// Validate checks the user before it is registered or updated
func (u User) Validate() error {
	return validationError(validate.Struct(u))
}

// Identity is the logged-in user cached on this machine
type Identity struct {
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the identity has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// LoggedIn reports whether a user is logged in
func (i Identity) LoggedIn() bool {
	return i.Name != ""
}

// DateString formats t as a local calendar date
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockString formats t as a local HH:MM wall-clock time
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// PadClock turns "9:05" or "9:05:00" into "09:05" so clock values compare as
// strings. Anything else is returned unchanged.
func PadClock(s string) string {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return s
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return s
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return s
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// SecondsBetweenClock returns the seconds from a to b (both HH:MM) on the same day,
// or 0 when b is not after a or either value is malformed
func SecondsBetweenClock(a, b string) int64 {
	ta, err := time.Parse("15:04", a)
	if err != nil {
		return 0
	}
	tb, err := time.Parse("15:04", b)
	if err != nil {
		return 0
	}
	diff := int64(tb.Sub(ta) / time.Second)
	if diff < 0 {
		return 0
	}
	return diff
}
