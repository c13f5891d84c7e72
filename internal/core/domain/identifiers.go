package domain

import (
	"strings"

	"github.com/google/uuid"
)

// AccountID identifies an Account.
type AccountID string

// RoleID identifies a Role.
type RoleID string

// PermissionID identifies a Permission.
type PermissionID string

// AccountMailID identifies an AccountMail.
type AccountMailID string

// AccountCodeID identifies an AccountCode.
type AccountCodeID string

func newIdentifier() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewAccountID generates a fresh AccountID.
func NewAccountID() AccountID { return AccountID(newIdentifier()) }

// NewRoleID generates a fresh RoleID.
func NewRoleID() RoleID { return RoleID(newIdentifier()) }

// NewPermissionID generates a fresh PermissionID.
func NewPermissionID() PermissionID { return PermissionID(newIdentifier()) }

// NewAccountMailID generates a fresh AccountMailID.
func NewAccountMailID() AccountMailID { return AccountMailID(newIdentifier()) }

// NewAccountCodeID generates a fresh AccountCodeID.
func NewAccountCodeID() AccountCodeID { return AccountCodeID(newIdentifier()) }

func (id AccountID) String() string     { return string(id) }
func (id RoleID) String() string        { return string(id) }
func (id PermissionID) String() string  { return string(id) }
func (id AccountMailID) String() string { return string(id) }
func (id AccountCodeID) String() string { return string(id) }

// PermissionIDsFrom converts raw strings, skipping blanks and duplicates.
func PermissionIDsFrom(values []string) []PermissionID {
	out := make([]PermissionID, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, PermissionID(trimmed))
	}
	return out
}
