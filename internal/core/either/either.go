// Package either provides a two-branch result used by use cases to report a
// recoverable failure (left) or a successful value (right) without errors as control flow.
package either

// Either holds exactly one of a left or a right value.
type Either[L, R any] struct {
	left   L
	right  R
	isLeft bool
}

// Left builds the failure branch.
func Left[L, R any](value L) Either[L, R] {
	return Either[L, R]{left: value, isLeft: true}
}

// Right builds the success branch.
func Right[L, R any](value R) Either[L, R] {
	return Either[L, R]{right: value}
}

// IsLeft reports whether the failure branch is set.
func (e Either[L, R]) IsLeft() bool {
	return e.isLeft
}

// IsRight reports whether the success branch is set.
func (e Either[L, R]) IsRight() bool {
	return !e.isLeft
}

// LeftValue returns the failure value; the zero value when the branch is right.
func (e Either[L, R]) LeftValue() L {
	return e.left
}

// RightValue returns the success value; the zero value when the branch is left.
func (e Either[L, R]) RightValue() R {
	return e.right
}

// Fold applies onLeft or onRight depending on the branch.
func Fold[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.isLeft {
		return onLeft(e.left)
	}
	return onRight(e.right)
}

// Map transforms the success value, leaving a left untouched.
func Map[L, R, T any](e Either[L, R], fn func(R) T) Either[L, T] {
	if e.isLeft {
		return Left[L, T](e.left)
	}
	return Right[L](fn(e.right))
}
