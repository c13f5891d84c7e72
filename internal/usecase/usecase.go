package usecase

import (
	"errors"
	"fmt"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

// Every mutating operation returns (either.Either[*validation.Notification, Output], error).
// The left branch carries user-correctable validation errors; the error return carries
// not-found and infrastructure failures.

func invalid[T any](n *validation.Notification) either.Either[*validation.Notification, T] {
	return either.Left[*validation.Notification, T](n)
}

func invalidWith[T any](errs ...validation.Error) either.Either[*validation.Notification, T] {
	return invalid[T](validation.NotificationOf(errs...))
}

func valid[T any](value T) either.Either[*validation.Notification, T] {
	return either.Right[*validation.Notification](value)
}

// lookupError turns a gateway miss into a NotFoundError and wraps anything else.
func lookupError[ID ~string](err error, entity string, id ID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}
