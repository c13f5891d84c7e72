package domain

import (
	"fmt"
	"strings"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

const (
	roleNameMinLength    = 3
	roleNameMaxLength    = 50
	descriptionMaxLength = 255
)

// RoleValidator checks the fields of a Role.
type RoleValidator struct {
	role *Role
}

// NewRoleValidator wraps role.
func NewRoleValidator(role *Role) *RoleValidator {
	return &RoleValidator{role: role}
}

// Validate checks name, description and role type, in that order.
func (v *RoleValidator) Validate(h validation.Handler) {
	validation.RequireLength(h, "name", v.role.Name, roleNameMinLength, roleNameMaxLength)
	validation.RequireMaxLength(h, "description", v.role.Description, descriptionMaxLength)
	validateRoleType(h, v.role.RoleType)
}

func validateRoleType(h validation.Handler, roleType RoleType) {
	if !validation.RequireNotBlank(h, "roleType", string(roleType)) {
		return
	}
	if !roleType.Valid() {
		h.Append(RoleTypeNotFoundError())
	}
}

// RoleTypeNotFoundError lists the accepted role types.
func RoleTypeNotFoundError() validation.Error {
	names := make([]string, 0, len(RoleTypes()))
	for _, t := range RoleTypes() {
		names = append(names, string(t))
	}
	return validation.NewError(fmt.Sprintf("RoleType not found, role types available: [%s]", strings.Join(names, ", ")))
}
