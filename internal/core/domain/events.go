package domain

import "time"

// AccountCreatedEvent is emitted once an account is persisted.
type AccountCreatedEvent struct {
	EventID   string
	AccountID string
	FirstName string
	LastName  string
	Email     string
	RoleID    string
	CreatedAt time.Time
}

// AccountDeletedEvent is emitted after an account and its cache entry are removed.
type AccountDeletedEvent struct {
	EventID   string
	AccountID string
	DeletedAt time.Time
}

// AccountRoleChangedEvent is emitted when an account is moved to another role.
type AccountRoleChangedEvent struct {
	EventID        string
	AccountID      string
	PreviousRoleID string
	RoleID         string
	ChangedAt      time.Time
}

// AccountConfirmedEvent is emitted when an email confirmation token is consumed.
type AccountConfirmedEvent struct {
	EventID     string
	AccountID   string
	ConfirmedAt time.Time
}

// PasswordChangedEvent is emitted after a password reset succeeds.
type PasswordChangedEvent struct {
	EventID   string
	AccountID string
	ChangedAt time.Time
}

// AccountMailRequestedEvent asks the mail sender to deliver a token to the account holder.
type AccountMailRequestedEvent struct {
	EventID   string
	AccountID string
	Email     string
	FirstName string
	Type      AccountMailType
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
