package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const (
	rolesTable           = "roles"
	rolePermissionsTable = "roles_permissions"
)

var (
	roleColumns     = []string{"id", "name", "description", "role_type", "is_default", "created_at", "updated_at"}
	roleSortColumns = map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"role_type":  "role_type",
	}
)

// RoleRepository implements port.RoleGateway. A role and its permission links are
// written in one transaction.
type RoleRepository struct {
	db      pgTxStarter
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a repository backed by db.
func NewRoleRepository(db pgTxStarter) *RoleRepository {
	return &RoleRepository{db: db, builder: newBuilder()}
}

// ExistsByName reports whether a role already uses name.
func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, r.builder, rolesTable, squirrel.Eq{"name": name})
}

// Create inserts a role and its permission links.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	err := inTx(ctx, r.db, func(exec pgExecutor) error {
		stmt, args, err := r.builder.Insert(rolesTable).
			Columns(roleColumns...).
			Values(
				role.ID.String(),
				role.Name,
				optionalString(role.Description),
				string(role.RoleType),
				role.IsDefault,
				role.CreatedAt.UTC(),
				role.UpdatedAt.UTC(),
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert role sql: %w", err)
		}
		if _, err := exec.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert role: %w", translateError(err))
		}
		return r.insertPermissions(ctx, exec, role)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Update rewrites a role and replaces its permission links.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	err := inTx(ctx, r.db, func(exec pgExecutor) error {
		stmt, args, err := r.builder.Update(rolesTable).
			Set("name", role.Name).
			Set("description", optionalString(role.Description)).
			Set("role_type", string(role.RoleType)).
			Set("is_default", role.IsDefault).
			Set("updated_at", role.UpdatedAt.UTC()).
			Where(squirrel.Eq{"id": role.ID.String()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update role sql: %w", err)
		}
		tag, err := exec.Exec(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("update role: %w", translateError(err))
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		stmt, args, err = r.builder.Delete(rolePermissionsTable).Where(squirrel.Eq{"role_id": role.ID.String()}).ToSql()
		if err != nil {
			return fmt.Errorf("build clear role permissions sql: %w", err)
		}
		if _, err := exec.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}
		return r.insertPermissions(ctx, exec, role)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// FindByID loads a role with its permissions.
func (r *RoleRepository) FindByID(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id.String()})
}

// FindDefaultRole loads the role flagged as default.
func (r *RoleRepository) FindDefaultRole(ctx context.Context) (*domain.Role, error) {
	return r.findOne(ctx, squirrel.Eq{"is_default": true})
}

// FindAll returns one page of roles with their permissions.
func (r *RoleRepository) FindAll(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Role], error) {
	query = query.Normalize()
	stmt, args, err := applySearch(
		r.builder.Select(roleColumns...).From(rolesTable),
		query, "name", roleSortColumns, "name",
	).ToSql()
	if err != nil {
		return port.Pagination[*domain.Role]{}, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return port.Pagination[*domain.Role]{}, fmt.Errorf("query roles: %w", err)
	}
	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return port.Pagination[*domain.Role]{}, err
		}
		roles = append(roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return port.Pagination[*domain.Role]{}, fmt.Errorf("iterate roles: %w", err)
	}

	if err := r.loadPermissions(ctx, roles...); err != nil {
		return port.Pagination[*domain.Role]{}, err
	}
	total, err := countSearch(ctx, r.db, r.builder, rolesTable, query, "name")
	if err != nil {
		return port.Pagination[*domain.Role]{}, err
	}

	return port.Pagination[*domain.Role]{CurrentPage: query.Page, PerPage: query.PerPage, Total: total, Items: roles}, nil
}

// DeleteByID removes a role. A role still referenced by accounts yields repository.ErrConflict.
func (r *RoleRepository) DeleteByID(ctx context.Context, id domain.RoleID) error {
	stmt, args, err := r.builder.Delete(rolesTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	role, err := scanRole(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadPermissions(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) insertPermissions(ctx context.Context, exec pgExecutor, role *domain.Role) error {
	if len(role.Permissions) == 0 {
		return nil
	}

	insert := r.builder.Insert(rolePermissionsTable).Columns("role_id", "permission_id", "permission_name")
	for _, permission := range role.Permissions {
		insert = insert.Values(role.ID.String(), permission.PermissionID.String(), permission.PermissionName)
	}
	stmt, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert role permissions sql: %w", err)
	}
	if _, err := exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role permissions: %w", translateError(err))
	}
	return nil
}

func (r *RoleRepository) loadPermissions(ctx context.Context, roles ...*domain.Role) error {
	if len(roles) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Role, len(roles))
	ids := make([]string, 0, len(roles))
	for _, role := range roles {
		byID[role.ID.String()] = role
		ids = append(ids, role.ID.String())
	}

	stmt, args, err := r.builder.Select("role_id", "permission_id", "permission_name").
		From(rolePermissionsTable).
		Where(squirrel.Eq{"role_id": ids}).
		OrderBy("permission_name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select role permissions sql: %w", err)
	}

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleID, permissionID, permissionName string
		if err := rows.Scan(&roleID, &permissionID, &permissionName); err != nil {
			return fmt.Errorf("scan role permission: %w", err)
		}
		if role, ok := byID[roleID]; ok {
			role.AddPermissions(domain.RolePermission{PermissionID: domain.PermissionID(permissionID), PermissionName: permissionName})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate role permissions: %w", err)
	}
	return nil
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role        domain.Role
		id          string
		description sql.NullString
		roleType    string
	)
	if err := row.Scan(&id, &role.Name, &description, &roleType, &role.IsDefault, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	role.ID = domain.RoleID(id)
	role.Description = nullableStringPtr(description)
	role.RoleType = domain.RoleType(roleType)
	role.Permissions = make([]domain.RolePermission, 0)
	role.CreatedAt = role.CreatedAt.UTC()
	role.UpdatedAt = role.UpdatedAt.UTC()
	return &role, nil
}
