package domain

import (
	"strings"
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

// MailStatus tracks whether an account confirmed its email address.
type MailStatus string

const (
	MailStatusWaitingConfirmation MailStatus = "WAITING_CONFIRMATION"
	MailStatusConfirmed           MailStatus = "CONFIRMED"
)

// Account is the user aggregate. Password holds the raw value only between
// NewAccount and the hashing step; persisted accounts always carry a hash.
type Account struct {
	ID         AccountID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	MailStatus MailStatus `json:"mail_status"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	RoleID     RoleID     `json:"role_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewAccount builds an unconfirmed account. Inputs are trimmed but not validated.
func NewAccount(firstName, lastName, email, password string, now time.Time) *Account {
	now = now.UTC()
	return &Account{
		ID:         NewAccountID(),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Password:   password,
		MailStatus: MailStatusWaitingConfirmation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate runs the account rules into h.
func (a *Account) Validate(h validation.Handler) {
	NewAccountValidator(a).Validate(h)
}

// IsConfirmed reports whether the email was confirmed.
func (a *Account) IsConfirmed() bool {
	return a.MailStatus == MailStatusConfirmed
}

// ConfirmEmail moves the account to CONFIRMED.
func (a *Account) ConfirmEmail(at time.Time) *Account {
	a.MailStatus = MailStatusConfirmed
	a.UpdatedAt = at.UTC()
	return a
}

// SetHashedPassword stores an already hashed password without touching the mail status.
func (a *Account) SetHashedPassword(hash string, at time.Time) *Account {
	a.Password = hash
	a.UpdatedAt = at.UTC()
	return a
}

// ResetPassword stores the new hash and sends the account back to WAITING_CONFIRMATION.
func (a *Account) ResetPassword(hash string, at time.Time) *Account {
	a.Password = hash
	a.MailStatus = MailStatusWaitingConfirmation
	a.UpdatedAt = at.UTC()
	return a
}

// ChangeRole points the account at another role.
func (a *Account) ChangeRole(roleID RoleID, at time.Time) *Account {
	a.RoleID = roleID
	a.UpdatedAt = at.UTC()
	return a
}

// ChangeAvatar replaces the avatar url; nil clears it.
func (a *Account) ChangeAvatar(url *string, at time.Time) *Account {
	a.AvatarURL = url
	a.UpdatedAt = at.UTC()
	return a
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
