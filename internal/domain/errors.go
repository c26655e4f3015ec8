package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindSlotUnavailable   ErrorKind = "SLOT_UNAVAILABLE"
	KindAlreadyAccepted   ErrorKind = "ALREADY_ACCEPTED"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
)

// Error is the structured failure surfaced to callers of the rental core.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so callers can test against the
// sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "not authorized"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrSlotUnavailable   = &Error{Kind: KindSlotUnavailable, Message: "slot unavailable"}
	ErrAlreadyAccepted   = &Error{Kind: KindAlreadyAccepted, Message: "quotation already accepted"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
)

// KindOf returns the kind of a domain error anywhere in err's chain, or "" for
// infrastructure errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
