package port

import (
	"context"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
)

// Gateways report a missing row with repository.ErrNotFound; use cases translate it
// into a domain.NotFoundError carrying the entity and the id that was searched.

// AccountGateway persists accounts.
type AccountGateway interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	DeleteByID(ctx context.Context, id domain.AccountID) error
}

// RoleGateway persists roles together with their permission set.
type RoleGateway interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id domain.RoleID) (*domain.Role, error)
	FindDefaultRole(ctx context.Context) (*domain.Role, error)
	FindAll(ctx context.Context, query SearchQuery) (Pagination[*domain.Role], error)
	DeleteByID(ctx context.Context, id domain.RoleID) error
}

// PermissionGateway persists permissions.
type PermissionGateway interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	Update(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	FindByID(ctx context.Context, id domain.PermissionID) (*domain.Permission, error)
	// FindAllByIDs returns the permissions that exist among ids; unknown ids are skipped.
	FindAllByIDs(ctx context.Context, ids []domain.PermissionID) ([]*domain.Permission, error)
	FindAll(ctx context.Context, query SearchQuery) (Pagination[*domain.Permission], error)
	DeleteByID(ctx context.Context, id domain.PermissionID) error
}

// AccountMailGateway persists confirmation and reset tokens.
type AccountMailGateway interface {
	Create(ctx context.Context, mail *domain.AccountMail) (*domain.AccountMail, error)
	FindByToken(ctx context.Context, token string) (*domain.AccountMail, error)
	FindAllByAccountID(ctx context.Context, accountID domain.AccountID) ([]*domain.AccountMail, error)
	DeleteByID(ctx context.Context, id domain.AccountMailID) error
}

// AccountCodeGateway persists exchange codes. Codes are never updated.
type AccountCodeGateway interface {
	Create(ctx context.Context, code *domain.AccountCode) (*domain.AccountCode, error)
	FindByCode(ctx context.Context, code string) (*domain.AccountCode, error)
	DeleteByID(ctx context.Context, id domain.AccountCodeID) error
}
