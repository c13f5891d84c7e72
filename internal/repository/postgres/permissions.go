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

const permissionsTable = "permissions"

var permissionSortColumns = map[string]string{
	"name": "name",
	"id":   "id",
}

// PermissionRepository implements port.PermissionGateway.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{exec: exec, builder: newBuilder()}
}

// ExistsByName reports whether a permission already uses name.
func (r *PermissionRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.exec, r.builder, permissionsTable, squirrel.Eq{"name": name})
}

// Create inserts a permission.
func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	stmt, args, err := r.builder.Insert(permissionsTable).
		Columns("id", "name", "description").
		Values(permission.ID.String(), permission.Name, optionalString(permission.Description)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("insert permission: %w", translateError(err))
	}
	return permission, nil
}

// Update rewrites the description; names are immutable.
func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	stmt, args, err := r.builder.Update(permissionsTable).
		Set("description", optionalString(permission.Description)).
		Where(squirrel.Eq{"id": permission.ID.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update permission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("update permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return permission, nil
}

// FindByID loads a permission.
func (r *PermissionRepository) FindByID(ctx context.Context, id domain.PermissionID) (*domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "name", "description").
		From(permissionsTable).
		Where(squirrel.Eq{"id": id.String()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission sql: %w", err)
	}
	return scanPermission(r.exec.QueryRow(ctx, stmt, args...))
}

// FindAllByIDs returns the permissions whose ids are in ids, ordered by name.
func (r *PermissionRepository) FindAllByIDs(ctx context.Context, ids []domain.PermissionID) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return []*domain.Permission{}, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	stmt, args, err := r.builder.Select("id", "name", "description").
		From(permissionsTable).
		Where(squirrel.Eq{"id": raw}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permissions sql: %w", err)
	}
	return r.queryPermissions(ctx, stmt, args)
}

// FindAll returns one page of permissions filtered by name.
func (r *PermissionRepository) FindAll(ctx context.Context, query port.SearchQuery) (port.Pagination[*domain.Permission], error) {
	query = query.Normalize()
	stmt, args, err := applySearch(
		r.builder.Select("id", "name", "description").From(permissionsTable),
		query, "name", permissionSortColumns, "name",
	).ToSql()
	if err != nil {
		return port.Pagination[*domain.Permission]{}, fmt.Errorf("build list permissions sql: %w", err)
	}

	items, err := r.queryPermissions(ctx, stmt, args)
	if err != nil {
		return port.Pagination[*domain.Permission]{}, err
	}
	total, err := countSearch(ctx, r.exec, r.builder, permissionsTable, query, "name")
	if err != nil {
		return port.Pagination[*domain.Permission]{}, err
	}

	return port.Pagination[*domain.Permission]{CurrentPage: query.Page, PerPage: query.PerPage, Total: total, Items: items}, nil
}

// DeleteByID removes a permission; role links cascade.
func (r *PermissionRepository) DeleteByID(ctx context.Context, id domain.PermissionID) error {
	stmt, args, err := r.builder.Delete(permissionsTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete permission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PermissionRepository) queryPermissions(ctx context.Context, stmt string, args []any) ([]*domain.Permission, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	permissions := make([]*domain.Permission, 0)
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return permissions, nil
}

func scanPermission(row pgx.Row) (*domain.Permission, error) {
	var (
		id          string
		name        string
		description sql.NullString
	)
	if err := row.Scan(&id, &name, &description); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}
	return &domain.Permission{ID: domain.PermissionID(id), Name: name, Description: nullableStringPtr(description)}, nil
}
