package errors

import (
	"errors"
	"fmt"
)

// This package defines the sentinel errors shared by the stores, the chat
// manager and the API layer. The API maps them to HTTP status codes with
// errors.Is, so lower layers never need to know about transport details.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed a domain rule, such as
	// constructing a message with empty content.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with current state.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal is a generic error that hides implementation details.
	ErrInternal = errors.New("internal server error")
)

// The messages below are shown to the user verbatim, so they keep the
// capitalisation the client surfaces.
var (
	ErrChatNotFound         error = &notFoundError{msg: "Chat not found"}
	ErrNoActiveChat               = errors.New("No active chat")
	ErrNoProviderConfigured       = errors.New("No AI provider configured")
	ErrProviderNotFound     error = &notFoundError{msg: "Provider not found"}
	ErrProviderDisabled           = errors.New("provider is disabled")
)

// notFoundError keeps the user-facing text while still matching ErrNotFound.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// ProviderDisabledError reports an attempt to send through a provider whose
// enabled flag is off.
type ProviderDisabledError struct {
	Name string
}

func (e *ProviderDisabledError) Error() string {
	return fmt.Sprintf("Provider %s is disabled", e.Name)
}

func (e *ProviderDisabledError) Is(target error) bool {
	return target == ErrProviderDisabled
}
