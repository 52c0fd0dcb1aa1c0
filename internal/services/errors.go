package services

import (
	"errors"
	"fmt"

	"blog_api/internal/models"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidReference
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidReference:
		return "invalid_reference"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to API clients;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so the sentinels
// below work with errors.Is even when a cause is attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrUserNotFound      = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrPostNotFound      = &Error{Kind: KindNotFound, Message: "Post not found."}
	ErrDuplicateUser     = &Error{Kind: KindConflict, Message: "Username or email already exists."}
	ErrUnknownUser       = &Error{Kind: KindInvalidReference, Message: "Referenced user does not exist."}
	ErrInvalidPagination = &Error{Kind: KindValidation, Message: "Page and limit must be positive integers."}
	ErrPageOutOfRange    = &Error{Kind: KindValidation, Message: fmt.Sprintf("Page must not exceed %d and limit must not exceed %d.", models.MaxPage, models.MaxLimit)}
)

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func withCause(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
