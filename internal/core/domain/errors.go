package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError through errors.Is.
var ErrNotFound = errors.New("resource not found")

// Entity names used in NotFoundError messages.
const (
	EntityAccount     = "Account"
	EntityRole        = "Role"
	EntityPermission  = "Permission"
	EntityAccountMail = "AccountMail"
	EntityAccountCode = "AccountCode"
)

// NotFoundError reports that a resource the request targets does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError builds a NotFoundError for entity and id.
func NewNotFoundError[T ~string](entity string, id T) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: string(id)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s was not found", e.Entity, e.ID)
}

// Is allows errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
