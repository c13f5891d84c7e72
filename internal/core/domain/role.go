package domain

import (
	"strings"
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

// RoleType classifies who a role is meant for.
type RoleType string

const (
	RoleTypeCommon    RoleType = "COMMON"
	RoleTypeEmployees RoleType = "EMPLOYEES"
)

// RoleTypes lists the accepted role types in declaration order.
func RoleTypes() []RoleType {
	return []RoleType{RoleTypeCommon, RoleTypeEmployees}
}

// ParseRoleType normalises raw and reports whether it names a known type.
func ParseRoleType(raw string) (RoleType, bool) {
	candidate := RoleType(strings.ToUpper(strings.TrimSpace(raw)))
	return candidate, candidate.Valid()
}

// Valid reports whether t is one of RoleTypes.
func (t RoleType) Valid() bool {
	for _, known := range RoleTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// RolePermission pairs a permission id with its denormalised name. It lives only inside a Role.
type RolePermission struct {
	PermissionID   PermissionID `json:"permission_id"`
	PermissionName string       `json:"permission_name"`
}

// NewRolePermission builds a RolePermission; both fields are mandatory.
func NewRolePermission(id PermissionID, name string) (RolePermission, error) {
	rp := RolePermission{PermissionID: PermissionID(strings.TrimSpace(id.String())), PermissionName: strings.TrimSpace(name)}
	if err := validation.Check(rp); err != nil {
		return RolePermission{}, err
	}
	return rp, nil
}

// Validate implements validation.Validator.
func (rp RolePermission) Validate(h validation.Handler) {
	validation.RequireNotBlank(h, "permissionId", rp.PermissionID.String())
	validation.RequireNotBlank(h, "permissionName", rp.PermissionName)
}

// Role groups permissions. At most one role system-wide may be the default one;
// that rule needs a cross-aggregate query and lives in the use case layer.
type Role struct {
	ID          RoleID           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	RoleType    RoleType         `json:"role_type"`
	IsDefault   bool             `json:"is_default"`
	Permissions []RolePermission `json:"permissions"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewRole builds a role without permissions. roleType is normalised but not checked.
func NewRole(name string, description *string, roleType string, isDefault bool, now time.Time) *Role {
	now = now.UTC()
	parsed, _ := ParseRoleType(roleType)
	return &Role{
		ID:          NewRoleID(),
		Name:        strings.TrimSpace(name),
		Description: trimOptional(description),
		RoleType:    parsed,
		IsDefault:   isDefault,
		Permissions: make([]RolePermission, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Update replaces the mutable fields; identity, permissions and CreatedAt are kept.
func (r *Role) Update(name string, description *string, roleType string, isDefault bool, at time.Time) *Role {
	parsed, _ := ParseRoleType(roleType)
	r.Name = strings.TrimSpace(name)
	r.Description = trimOptional(description)
	r.RoleType = parsed
	r.IsDefault = isDefault
	r.UpdatedAt = at.UTC()
	return r
}

// Validate runs the role rules into h.
func (r *Role) Validate(h validation.Handler) {
	NewRoleValidator(r).Validate(h)
}

// AddPermissions appends permissions that are not already present.
func (r *Role) AddPermissions(permissions ...RolePermission) *Role {
	for _, candidate := range permissions {
		if !r.HasPermission(candidate.PermissionID) {
			r.Permissions = append(r.Permissions, candidate)
		}
	}
	return r
}

// ReplacePermissions swaps the whole permission set.
func (r *Role) ReplacePermissions(permissions []RolePermission, at time.Time) *Role {
	r.Permissions = make([]RolePermission, 0, len(permissions))
	r.AddPermissions(permissions...)
	r.UpdatedAt = at.UTC()
	return r
}

// RemovePermission drops a permission by id and reports whether it was present.
func (r *Role) RemovePermission(id PermissionID, at time.Time) bool {
	for i, existing := range r.Permissions {
		if existing.PermissionID == id {
			r.Permissions = append(r.Permissions[:i], r.Permissions[i+1:]...)
			r.UpdatedAt = at.UTC()
			return true
		}
	}
	return false
}

// HasPermission reports whether the role holds id.
func (r *Role) HasPermission(id PermissionID) bool {
	for _, existing := range r.Permissions {
		if existing.PermissionID == id {
			return true
		}
	}
	return false
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
