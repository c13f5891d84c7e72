package validation

import (
	"fmt"
	"strings"
)

// Error is a single validation failure.
type Error struct {
	Message string `json:"message"`
}

// NewError builds an Error from a message.
func NewError(message string) Error {
	return Error{Message: message}
}

// Errorf builds an Error from a format string.
func Errorf(format string, args ...any) Error {
	return Error{Message: fmt.Sprintf(format, args...)}
}

// Handler receives validation errors produced by a validator pass.
type Handler interface {
	Append(err Error) Handler
	AppendAll(other Handler) Handler
	HasErrors() bool
	Errors() []Error
}

// Validator inspects an aggregate and reports problems to a Handler.
type Validator interface {
	Validate(h Handler)
}

// Notification accumulates every error appended during a validation pass, in order.
type Notification struct {
	errors []Error
}

// NewNotification returns an empty notification.
func NewNotification() *Notification {
	return &Notification{errors: make([]Error, 0)}
}

// NotificationOf returns a notification seeded with the given errors.
func NotificationOf(errs ...Error) *Notification {
	n := NewNotification()
	for _, err := range errs {
		n.Append(err)
	}
	return n
}

// Append records err and never fails.
func (n *Notification) Append(err Error) Handler {
	n.errors = append(n.errors, err)
	return n
}

// AppendAll copies every error held by other.
func (n *Notification) AppendAll(other Handler) Handler {
	if other == nil {
		return n
	}
	n.errors = append(n.errors, other.Errors()...)
	return n
}

// HasErrors reports whether at least one error was recorded.
func (n *Notification) HasErrors() bool {
	return n != nil && len(n.errors) > 0
}

// Errors returns a copy of the recorded errors in insertion order.
func (n *Notification) Errors() []Error {
	if n == nil {
		return nil
	}
	out := make([]Error, len(n.errors))
	copy(out, n.errors)
	return out
}

// FirstError returns the first recorded error, if any.
func (n *Notification) FirstError() (Error, bool) {
	if !n.HasErrors() {
		return Error{}, false
	}
	return n.errors[0], true
}

// Messages flattens the recorded errors into their messages.
func (n *Notification) Messages() []string {
	errs := n.Errors()
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Message)
	}
	return out
}

// DomainError is the structured failure raised by a FailFastHandler.
type DomainError struct {
	Errors []Error
}

func (e *DomainError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// FailFastHandler keeps only the first appended error and surfaces it through Err.
// It is meant for construction-time invariants that cannot be partially satisfied.
type FailFastHandler struct {
	first *Error
}

// NewFailFastHandler returns a handler that stops at the first error.
func NewFailFastHandler() *FailFastHandler {
	return &FailFastHandler{}
}

// Append records err only when no error was recorded before.
func (h *FailFastHandler) Append(err Error) Handler {
	if h.first == nil {
		e := err
		h.first = &e
	}
	return h
}

// AppendAll records the first error held by other.
func (h *FailFastHandler) AppendAll(other Handler) Handler {
	if other == nil {
		return h
	}
	for _, err := range other.Errors() {
		h.Append(err)
	}
	return h
}

// HasErrors reports whether an error was recorded.
func (h *FailFastHandler) HasErrors() bool {
	return h.first != nil
}

// Errors returns at most one error.
func (h *FailFastHandler) Errors() []Error {
	if h.first == nil {
		return nil
	}
	return []Error{*h.first}
}

// Err returns a *DomainError for the first recorded error, or nil.
func (h *FailFastHandler) Err() error {
	if h.first == nil {
		return nil
	}
	return &DomainError{Errors: []Error{*h.first}}
}

// Check runs v against a fail-fast handler and returns the first failure.
func Check(v Validator) error {
	h := NewFailFastHandler()
	v.Validate(h)
	return h.Err()
}
