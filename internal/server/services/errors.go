package services

import (
	"fmt"

	"github.com/dmitrijs2005/storypoint/internal/common"
)

// Client-facing messages.
const (
	MsgMissingFields        = "Missing required fields"
	MsgInvalidEmail         = "Invalid email format"
	MsgPasswordTooShort     = "Password must be at least 8 characters"
	MsgPasswordTooLong      = "Password must be at most 72 bytes"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgNewPasswordTooShort  = "The new password must be at least 8 characters"
	MsgNewPasswordTooLong   = "The new password must be at most 72 bytes"
	MsgNewPasswordSame      = "The new password must be different from the current one"
	MsgInvalidUsername      = "Invalid username"
	MsgWrongCurrentPassword = "The current password is incorrect"
	MsgInternal             = "Internal server error"
)

// ValidationError rejects a request before or during a flow. Message is
// safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ConflictError reports which unique key of a registration was taken.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "username":
		return "Username already exists"
	case "email":
		return "Email already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error {
	switch e.Field {
	case "username":
		return common.ErrUsernameExists
	case "email":
		return common.ErrEmailExists
	}
	return nil
}
