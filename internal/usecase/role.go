package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

var (
	errRoleAlreadyExists        = validation.NewError("Role already exists")
	errDefaultRoleAlreadyExists = validation.NewError("Default role already exists")
)

// CreateRoleCommand carries the raw role input. Permissions holds permission ids.
type CreateRoleCommand struct {
	Name        string
	Description *string
	RoleType    string
	IsDefault   bool
	Permissions []string
}

// UpdateRoleCommand changes an existing role. Blank strings and nil pointers keep the
// current value; a nil Permissions slice keeps the current set, an empty one clears it.
type UpdateRoleCommand struct {
	ID          string
	Name        string
	Description *string
	RoleType    string
	IsDefault   *bool
	Permissions []string
}

// RoleOutput identifies a written role.
type RoleOutput struct {
	ID domain.RoleID
}

// RoleService manages roles and their permission sets.
type RoleService struct {
	roles       port.RoleGateway
	permissions port.PermissionGateway
	logger      *zap.Logger
	now         func() time.Time
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleGateway, permissions port.PermissionGateway, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{roles: roles, permissions: permissions, logger: logger, now: time.Now}
}

// WithClock overrides the time source (primarily for tests).
func (s *RoleService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateRole validates and stores a new role.
func (s *RoleService) CreateRole(ctx context.Context, cmd CreateRoleCommand) (either.Either[*validation.Notification, RoleOutput], error) {
	role := domain.NewRole(cmd.Name, cmd.Description, cmd.RoleType, cmd.IsDefault, s.now())

	notification := validation.NewNotification()
	role.Validate(notification)
	if notification.HasErrors() {
		return invalid[RoleOutput](notification), nil
	}

	exists, err := s.roles.ExistsByName(ctx, role.Name)
	if err != nil {
		return valid(RoleOutput{}), fmt.Errorf("check role name: %w", err)
	}
	if exists {
		notification.Append(errRoleAlreadyExists)
	}
	if err := s.checkDefaultRole(ctx, role, notification); err != nil {
		return valid(RoleOutput{}), err
	}
	if notification.HasErrors() {
		return invalid[RoleOutput](notification), nil
	}

	permissions, err := s.resolvePermissions(ctx, cmd.Permissions)
	if err != nil {
		return valid(RoleOutput{}), err
	}
	role.AddPermissions(permissions...)

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return valid(RoleOutput{}), fmt.Errorf("create role: %w", err)
	}
	return valid(RoleOutput{ID: created.ID}), nil
}

// UpdateRole applies the command to an existing role.
func (s *RoleService) UpdateRole(ctx context.Context, cmd UpdateRoleCommand) (either.Either[*validation.Notification, RoleOutput], error) {
	roleID := domain.RoleID(strings.TrimSpace(cmd.ID))
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return valid(RoleOutput{}), lookupError(err, domain.EntityRole, roleID)
	}

	previousName := role.Name
	name := role.Name
	if !validation.IsBlank(cmd.Name) {
		name = cmd.Name
	}
	description := role.Description
	if cmd.Description != nil {
		description = cmd.Description
	}
	roleType := string(role.RoleType)
	if !validation.IsBlank(cmd.RoleType) {
		roleType = cmd.RoleType
	}
	isDefault := role.IsDefault
	if cmd.IsDefault != nil {
		isDefault = *cmd.IsDefault
	}
	role.Update(name, description, roleType, isDefault, s.now())

	notification := validation.NewNotification()
	role.Validate(notification)
	if notification.HasErrors() {
		return invalid[RoleOutput](notification), nil
	}

	if !strings.EqualFold(role.Name, previousName) {
		exists, err := s.roles.ExistsByName(ctx, role.Name)
		if err != nil {
			return valid(RoleOutput{}), fmt.Errorf("check role name: %w", err)
		}
		if exists {
			notification.Append(errRoleAlreadyExists)
		}
	}
	if err := s.checkDefaultRole(ctx, role, notification); err != nil {
		return valid(RoleOutput{}), err
	}
	if notification.HasErrors() {
		return invalid[RoleOutput](notification), nil
	}

	if cmd.Permissions != nil {
		permissions, err := s.resolvePermissions(ctx, cmd.Permissions)
		if err != nil {
			return valid(RoleOutput{}), err
		}
		role.ReplacePermissions(permissions, role.UpdatedAt)
	}

	updated, err := s.roles.Update(ctx, role)
	if err != nil {
		return valid(RoleOutput{}), fmt.Errorf("update role: %w", err)
	}
	return valid(RoleOutput{ID: updated.ID}), nil
}

// DeleteRole removes a role.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	roleID := domain.RoleID(strings.TrimSpace(id))
	if err := s.roles.DeleteByID(ctx, roleID); err != nil {
		return lookupError(err, domain.EntityRole, roleID)
	}
	return nil
}

// GetRoleByID returns a role with its permissions.
func (s *RoleService) GetRoleByID(ctx context.Context, id string) (*domain.Role, error) {
	roleID := domain.RoleID(strings.TrimSpace(id))
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, lookupError(err, domain.EntityRole, roleID)
	}
	return role, nil
}

// GetDefaultRole returns the role assigned to new accounts.
func (s *RoleService) GetDefaultRole(ctx context.Context) (*domain.Role, error) {
	role, err := s.roles.FindDefaultRole(ctx)
	if err != nil {
		return nil, lookupError(err, domain.EntityRole, defaultRoleLookupID)
	}
	return role, nil
}

// ListRoles returns one page of roles.
func (s *RoleService) ListRoles(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Role], error) {
	page, err := s.roles.FindAll(ctx, query.Normalize())
	if err != nil {
		return port.Pagination[*domain.Role]{}, fmt.Errorf("list roles: %w", err)
	}
	return page, nil
}

// RemoveRolePermission drops one permission from a role.
func (s *RoleService) RemoveRolePermission(ctx context.Context, roleID, permissionID string) error {
	role, err := s.GetRoleByID(ctx, roleID)
	if err != nil {
		return err
	}

	target := domain.PermissionID(strings.TrimSpace(permissionID))
	if !role.RemovePermission(target, s.now()) {
		return domain.NewNotFoundError(domain.EntityPermission, target)
	}

	if _, err := s.roles.Update(ctx, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// checkDefaultRole appends the default-role error when another role already holds the flag.
func (s *RoleService) checkDefaultRole(ctx context.Context, role *domain.Role, notification *validation.Notification) error {
	if !role.IsDefault {
		return nil
	}

	current, err := s.roles.FindDefaultRole(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find default role: %w", err)
	}
	if current != nil && current.ID != role.ID {
		notification.Append(errDefaultRoleAlreadyExists)
	}
	return nil
}

// resolvePermissions loads the requested permissions. Ids that do not resolve are dropped.
func (s *RoleService) resolvePermissions(ctx context.Context, raw []string) ([]domain.RolePermission, error) {
	ids := domain.PermissionIDsFrom(raw)
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.permissions.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	if len(found) < len(ids) {
		s.logger.Debug("dropping unresolved permission ids", zap.Int("requested", len(ids)), zap.Int("resolved", len(found)))
	}

	out := make([]domain.RolePermission, 0, len(found))
	for _, permission := range found {
		out = append(out, permission.ToRolePermission())
	}
	return out, nil
}
