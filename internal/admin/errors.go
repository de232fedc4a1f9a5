package admin

import "errors"

// ErrInFlight is returned while the same kind of admin action is still running
var ErrInFlight = errors.New("another request is still being processed")

// ErrPasswordRequired is returned when a new account has no password
var ErrPasswordRequired = errors.New("password is required")
