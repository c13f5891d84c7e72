package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups the PostgreSQL gateways.
type Repositories struct {
	Accounts     *AccountRepository
	Roles        *RoleRepository
	Permissions  *PermissionRepository
	AccountMails *AccountMailRepository
	AccountCodes *AccountCodeRepository
}

// NewRepositories wires every repository to the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Accounts:     NewAccountRepository(pool),
		Roles:        NewRoleRepository(pool),
		Permissions:  NewPermissionRepository(pool),
		AccountMails: NewAccountMailRepository(pool),
		AccountCodes: NewAccountCodeRepository(pool),
	}
}
