// Package common holds small helpers shared across rqeeb's packages.
package common

import (
	"errors"
	"fmt"
)

// Configuration errors surfaced by the CLI.
var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message suitable for showing directly to the user
// while preserving the underlying error for logs.
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a user-facing message.
func NewUserError(message string, err error) *UserError {
	return &UserError{Message: message, Err: err}
}

// UserMessage extracts the display message if err is a UserError.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message, true
	}
	return "", false
}
