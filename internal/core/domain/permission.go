package domain

import (
	"strings"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

const (
	permissionNameMinLength = 3
	permissionNameMaxLength = 50
)

// Permission is a named capability that roles reference.
type Permission struct {
	ID          PermissionID `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
}

// NewPermission builds a permission with a fresh id.
func NewPermission(name string, description *string) *Permission {
	return &Permission{
		ID:          NewPermissionID(),
		Name:        strings.TrimSpace(name),
		Description: trimOptional(description),
	}
}

// UpdateDescription replaces the description; the name is immutable once created.
func (p *Permission) UpdateDescription(description *string) *Permission {
	p.Description = trimOptional(description)
	return p
}

// ToRolePermission projects the permission into the value object stored on roles.
func (p *Permission) ToRolePermission() RolePermission {
	return RolePermission{PermissionID: p.ID, PermissionName: p.Name}
}

// Validate checks name then description.
func (p *Permission) Validate(h validation.Handler) {
	validation.RequireLength(h, "name", p.Name, permissionNameMinLength, permissionNameMaxLength)
	validation.RequireMaxLength(h, "description", p.Description, descriptionMaxLength)
}
