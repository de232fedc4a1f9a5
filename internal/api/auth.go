package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/balkashynov/punch/internal/models"
)

// Sheet names of the auxiliary store
const (
	SheetRequests = "Requests"
	SheetUsers    = "Users"
)

// AdminData is everything the admin console loads from the auxiliary store
type AdminData struct {
	Sessions   []models.Record
	Users      []models.User
	Attendance []models.DailyTotal
}

// ReadAdmin loads pending sessions, users and daily totals in one call
func (c *Client) ReadAdmin(ctx context.Context) (*AdminData, error) {
	decoded, err := c.get(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	return &AdminData{
		Sessions:   NormalizeRecords(envelopeList(decoded, "sessions", "data")),
		Users:      NormalizeUsers(envelopeList(decoded, "users")),
		Attendance: NormalizeTotals(envelopeList(decoded, "attendance")),
	}, nil
}

// Login checks credentials and returns the account they belong to
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	decoded, err := c.post(ctx, "login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	obj, _ := decoded.(map[string]any)
	if status, _ := obj["status"].(string); !strings.EqualFold(status, "success") {
		return nil, &ProtocolError{Action: "login", Message: "Authentication failed"}
	}
	raw, ok := obj["user"].(map[string]any)
	if !ok {
		return nil, &FormatError{Action: "login", Body: fmt.Sprintf("%v", obj), Err: fmt.Errorf("missing user")}
	}
	users := NormalizeUsers([]any{raw})
	return &users[0], nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, u models.User) (string, error) {
	decoded, err := c.post(ctx, "register", map[string]string{
		"email":    u.Email,
		"password": u.Password,
		"name":     u.Name,
		"role":     u.Role,
	})
	if err != nil {
		return "", err
	}
	return responseRecordID(decoded), nil
}

// UpdateUser overwrites an account; an empty password keeps the current one
func (c *Client) UpdateUser(ctx context.Context, u models.User) error {
	_, err := c.post(ctx, "update", map[string]string{
		"sheet":    SheetUsers,
		"recordId": u.RecordID,
		"email":    u.Email,
		"name":     u.Name,
		"role":     u.Role,
		"password": u.Password,
	})
	return err
}

// SetDailyTotal forces the cached daily total for (date, userName)
func (c *Client) SetDailyTotal(ctx context.Context, date, userName, total string) error {
	_, err := c.post(ctx, "set_daily_total", map[string]string{
		"date":          date,
		"userName":      userName,
		"totalDuration": total,
	})
	return err
}
