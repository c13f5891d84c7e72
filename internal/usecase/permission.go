package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

var errPermissionAlreadyExists = validation.NewError("Permission already exists")

// CreatePermissionCommand carries the raw permission input.
type CreatePermissionCommand struct {
	Name        string
	Description *string
}

// UpdatePermissionCommand replaces a permission description.
type UpdatePermissionCommand struct {
	ID          string
	Description *string
}

// PermissionOutput identifies a written permission.
type PermissionOutput struct {
	ID domain.PermissionID
}

// PermissionService manages the permission catalogue.
type PermissionService struct {
	permissions port.PermissionGateway
	logger      *zap.Logger
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionGateway, logger *zap.Logger) *PermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{permissions: permissions, logger: logger}
}

// CreatePermission validates and stores a permission with a unique name.
func (s *PermissionService) CreatePermission(ctx context.Context, cmd CreatePermissionCommand) (either.Either[*validation.Notification, PermissionOutput], error) {
	permission := domain.NewPermission(cmd.Name, cmd.Description)

	notification := validation.NewNotification()
	permission.Validate(notification)
	if notification.HasErrors() {
		return invalid[PermissionOutput](notification), nil
	}

	exists, err := s.permissions.ExistsByName(ctx, permission.Name)
	if err != nil {
		return valid(PermissionOutput{}), fmt.Errorf("check permission name: %w", err)
	}
	if exists {
		return invalidWith[PermissionOutput](errPermissionAlreadyExists), nil
	}

	created, err := s.permissions.Create(ctx, permission)
	if err != nil {
		return valid(PermissionOutput{}), fmt.Errorf("create permission: %w", err)
	}
	return valid(PermissionOutput{ID: created.ID}), nil
}

// UpdatePermission replaces the description of an existing permission.
func (s *PermissionService) UpdatePermission(ctx context.Context, cmd UpdatePermissionCommand) (either.Either[*validation.Notification, PermissionOutput], error) {
	permission, err := s.GetPermissionByID(ctx, cmd.ID)
	if err != nil {
		return valid(PermissionOutput{}), err
	}

	permission.UpdateDescription(cmd.Description)
	notification := validation.NewNotification()
	permission.Validate(notification)
	if notification.HasErrors() {
		return invalid[PermissionOutput](notification), nil
	}

	updated, err := s.permissions.Update(ctx, permission)
	if err != nil {
		return valid(PermissionOutput{}), fmt.Errorf("update permission: %w", err)
	}
	return valid(PermissionOutput{ID: updated.ID}), nil
}

// DeletePermission removes a permission.
func (s *PermissionService) DeletePermission(ctx context.Context, id string) error {
	permissionID := domain.PermissionID(strings.TrimSpace(id))
	if err := s.permissions.DeleteByID(ctx, permissionID); err != nil {
		return lookupError(err, domain.EntityPermission, permissionID)
	}
	return nil
}

// GetPermissionByID returns a permission.
func (s *PermissionService) GetPermissionByID(ctx context.Context, id string) (*domain.Permission, error) {
	permissionID := domain.PermissionID(strings.TrimSpace(id))
	permission, err := s.permissions.FindByID(ctx, permissionID)
	if err != nil {
		return nil, lookupError(err, domain.EntityPermission, permissionID)
	}
	return permission, nil
}

// ListPermissions returns one page of permissions.
func (s *PermissionService) ListPermissions(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Permission], error) {
	page, err := s.permissions.FindAll(ctx, query.Normalize())
	if err != nil {
		return port.Pagination[*domain.Permission]{}, fmt.Errorf("list permissions: %w", err)
	}
	return page, nil
}
