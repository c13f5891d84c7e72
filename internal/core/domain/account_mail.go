package domain

import (
	"strings"
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

// AccountMailType tells what an issued mail token authorises.
type AccountMailType string

const (
	AccountMailTypeConfirmation  AccountMailType = "ACCOUNT_CONFIRMATION"
	AccountMailTypePasswordReset AccountMailType = "PASSWORD_RESET"
)

// Valid reports whether t is a known mail type.
func (t AccountMailType) Valid() bool {
	return t == AccountMailTypeConfirmation || t == AccountMailTypePasswordReset
}

const accountMailTokenMaxLength = 36

// AccountMail is a single-use, time-bounded token sent to an account's address.
type AccountMail struct {
	ID        AccountMailID   `json:"id"`
	Token     string          `json:"token"`
	Type      AccountMailType `json:"type"`
	AccountID AccountID       `json:"account_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAccountMail issues a token of mailType for accountID.
func NewAccountMail(accountID AccountID, token string, mailType AccountMailType, expiresAt, now time.Time) *AccountMail {
	now = now.UTC()
	return &AccountMail{
		ID:        NewAccountMailID(),
		Token:     strings.TrimSpace(token),
		Type:      mailType,
		AccountID: accountID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired reports whether the token can no longer be consumed at the given instant.
// A token expiring exactly at `at` is expired.
func (m *AccountMail) IsExpired(at time.Time) bool {
	return !m.ExpiresAt.After(at)
}

// Validate checks the mail against the current time.
func (m *AccountMail) Validate(h validation.Handler) {
	NewAccountMailValidator(m, time.Now()).Validate(h)
}

// ExpiredTokenError is reported when a found token is past its window.
func ExpiredTokenError() validation.Error {
	return validation.NewError("Token expired")
}

// AccountMailValidator checks an AccountMail against a reference instant.
type AccountMailValidator struct {
	mail *AccountMail
	now  time.Time
}

// NewAccountMailValidator wraps mail; now is the instant expiresAt is compared to.
func NewAccountMailValidator(mail *AccountMail, now time.Time) *AccountMailValidator {
	return &AccountMailValidator{mail: mail, now: now}
}

// Validate checks token, type, owner and expiry.
func (v *AccountMailValidator) Validate(h validation.Handler) {
	validation.RequireNotBlankMax(h, "token", v.mail.Token, accountMailTokenMaxLength)
	if validation.RequireNotBlank(h, "type", string(v.mail.Type)) && !v.mail.Type.Valid() {
		h.Append(validation.NewError("AccountMailType not found, types available: [ACCOUNT_CONFIRMATION, PASSWORD_RESET]"))
	}
	validation.RequireNotBlank(h, "accountId", v.mail.AccountID.String())
	if v.mail.ExpiresAt.IsZero() {
		h.Append(validation.BlankError("expiresAt"))
	} else if !v.mail.ExpiresAt.After(v.now) {
		h.Append(validation.NewError("'expiresAt' must be after current date"))
	}
}
