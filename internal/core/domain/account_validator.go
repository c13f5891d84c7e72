package domain

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

const (
	nameMinLength     = 3
	nameMaxLength     = 255
	emailMaxLength    = 255
	passwordMinLength = 8
	passwordMaxLength = 255
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AccountValidator checks a freshly built account, including its raw password.
type AccountValidator struct {
	account *Account
}

// NewAccountValidator wraps account.
func NewAccountValidator(account *Account) *AccountValidator {
	return &AccountValidator{account: account}
}

// Validate runs every field check; each field reports at most one error.
func (v *AccountValidator) Validate(h validation.Handler) {
	validation.RequireLength(h, "firstName", v.account.FirstName, nameMinLength, nameMaxLength)
	validation.RequireLength(h, "lastName", v.account.LastName, nameMinLength, nameMaxLength)
	validateEmail(h, v.account.Email)
	PasswordValidator{Password: v.account.Password}.Validate(h)
}

func validateEmail(h validation.Handler, email string) {
	if !validation.RequireNotBlankMax(h, "email", email, emailMaxLength) {
		return
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		h.Append(validation.NewError("'email' must be a valid email address"))
	}
}

// PasswordValidator checks a raw password before it is hashed.
type PasswordValidator struct {
	Password string
}

// Validate checks presence, length, then composition.
func (v PasswordValidator) Validate(h validation.Handler) {
	if !validation.RequireLength(h, "password", v.Password, passwordMinLength, passwordMaxLength) {
		return
	}
	if !hasPasswordComposition(v.Password) {
		h.Append(validation.NewError("'password' should contain at least one uppercase letter, one lowercase letter and one number"))
	}
}

func hasPasswordComposition(password string) bool {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
