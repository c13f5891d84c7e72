package validation

import (
	"strings"
	"unicode/utf8"
)

// Message templates shared by every validator.
const (
	blankTemplate  = "'%s' should not be null or blank"
	rangeTemplate  = "'%s' must be between %d and %d characters"
	maxLenTemplate = "'%s' should not be greater than %d"
	existsTemplate = "'%s' already exists"
)

// BlankError is the error for a missing field.
func BlankError(field string) Error {
	return Errorf(blankTemplate, field)
}

// RangeError is the error for a value outside [min, max] characters.
func RangeError(field string, min, max int) Error {
	return Errorf(rangeTemplate, field, min, max)
}

// MaxLengthError is the error for a value longer than max characters.
func MaxLengthError(field string, max int) Error {
	return Errorf(maxLenTemplate, field, max)
}

// AlreadyExistsError is the error for a value colliding with an existing record.
func AlreadyExistsError(field string) Error {
	return Errorf(existsTemplate, field)
}

// IsBlank reports whether value is empty after trimming.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// RequireNotBlank appends the blank error and returns false when value is blank.
func RequireNotBlank(h Handler, field, value string) bool {
	if IsBlank(value) {
		h.Append(BlankError(field))
		return false
	}
	return true
}

// RequireLength checks presence first, then the trimmed length bounds.
// A blank value only yields the blank error.
func RequireLength(h Handler, field, value string, min, max int) bool {
	if !RequireNotBlank(h, field, value) {
		return false
	}
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min || length > max {
		h.Append(RangeError(field, min, max))
		return false
	}
	return true
}

// RequireMaxLength checks an optional value against max. Nil values pass.
func RequireMaxLength(h Handler, field string, value *string, max int) bool {
	if value == nil {
		return true
	}
	if utf8.RuneCountInString(strings.TrimSpace(*value)) > max {
		h.Append(MaxLengthError(field, max))
		return false
	}
	return true
}

// RequireNotBlankMax checks presence, then an upper bound only.
func RequireNotBlankMax(h Handler, field, value string, max int) bool {
	if !RequireNotBlank(h, field, value) {
		return false
	}
	trimmed := strings.TrimSpace(value)
	return RequireMaxLength(h, field, &trimmed, max)
}
