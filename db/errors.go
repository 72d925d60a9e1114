package db

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist or when the
// acting user is not allowed to see it. Callers can not tell the two apart.
var ErrNotFound = errors.New("no rows in result set")

// ErrUnavailable marks infrastructure failures (store down, broken connection).
var ErrUnavailable = errors.New("store unavailable")

var ErrInvalidOperation = errors.New("invalid operation")

// Friend request conflicts.
var (
	ErrSelfReference     = errors.New("you can not send a friend request to yourself")
	ErrAlreadyFriends    = errors.New("you are already friends")
	ErrDuplicateRequest  = errors.New("friend request already sent")
	ErrReciprocalPending = errors.New("this user already sent you a friend request")
	ErrRequestExists     = errors.New("friend request already exists")
)

// Trip and membership conflicts.
var (
	ErrMissingField        = errors.New("missing or invalid field")
	ErrAlreadyCollaborator = errors.New("user is already a collaborator on this trip")
	ErrAlreadyMember       = errors.New("user is already a member of this trip")
	ErrSelfInvite          = errors.New("you can not invite yourself")
	ErrNotFriends          = errors.New("you can only invite friends")
	ErrDuplicateInvite     = errors.New("an invite for this user is already pending")
	ErrAlreadyResolved     = errors.New("this invite was already answered")
)

var ErrUsernameTaken = errors.New("username already exists")

// ValidationError describes a missing or malformed input field. It matches
// ErrMissingField with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingField
}

func NewValidationError(field string, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var domainErrors = []error{
	ErrNotFound,
	ErrInvalidOperation,
	ErrSelfReference,
	ErrAlreadyFriends,
	ErrDuplicateRequest,
	ErrReciprocalPending,
	ErrRequestExists,
	ErrMissingField,
	ErrAlreadyCollaborator,
	ErrAlreadyMember,
	ErrSelfInvite,
	ErrNotFriends,
	ErrDuplicateInvite,
	ErrAlreadyResolved,
	ErrUsernameTaken,
}

// IsDomainError reports whether err is one of the business-rule outcomes
// above rather than an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Unavailable wraps any non-domain error with ErrUnavailable so that callers can
// separate business-rule failures from store failures. Nil and domain errors
// are returned unchanged.
func Unavailable(err error) error {
	if err == nil || IsDomainError(err) || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
