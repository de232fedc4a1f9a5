package api

import (
	"errors"
	"fmt"
)

// TransportError is a network failure or a non-success HTTP status
type TransportError struct {
	Action     string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Action, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a well-formed response carrying status "error"
type ProtocolError struct {
	Action  string
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// FormatError is a response body that is not structured data at all. It almost
// always means the endpoint URL points somewhere other than the store script.
type FormatError struct {
	Action string
	Body   string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("API returned invalid format. Check PUNCH_API_URL / PUNCH_AUTH_URL, the URL might be wrong. Response: %s...", e.Body)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport error
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is a server-reported error
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsFormat reports whether err is an invalid-format error
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
