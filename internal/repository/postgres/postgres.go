package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgTxStarter is satisfied by *pgxpool.Pool and by pgxmock pools.
type pgTxStarter interface {
	pgExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func inTx(ctx context.Context, db pgTxStarter, fn func(exec pgExecutor) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// translateError maps constraint violations onto repository sentinels.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func exists(ctx context.Context, exec pgExecutor, builder squirrel.StatementBuilderType, table string, where squirrel.Sqlizer) (bool, error) {
	inner, args, err := builder.Select("1").From(table).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists sql: %w", err)
	}

	var found bool
	if err := exec.QueryRow(ctx, "SELECT EXISTS ("+inner+")", args...).Scan(&found); err != nil {
		return false, fmt.Errorf("query exists in %s: %w", table, err)
	}
	return found, nil
}

// applySearch adds the term filter, ordering and paging of query to a select.
func applySearch(stmt squirrel.SelectBuilder, query port.SearchQuery, searchColumn string, sortable map[string]string, defaultSort string) squirrel.SelectBuilder {
	if query.Terms != "" {
		stmt = stmt.Where(squirrel.ILike{searchColumn: "%" + query.Terms + "%"})
	}
	column, ok := sortable[strings.ToLower(query.Sort)]
	if !ok {
		column = defaultSort
	}
	return stmt.OrderBy(column + " " + strings.ToUpper(query.Direction)).
		Limit(uint64(query.PerPage)).
		Offset(uint64(query.Offset()))
}

func countSearch(ctx context.Context, exec pgExecutor, builder squirrel.StatementBuilderType, table string, query port.SearchQuery, searchColumn string) (int64, error) {
	stmt := builder.Select("COUNT(*)").From(table)
	if query.Terms != "" {
		stmt = stmt.Where(squirrel.ILike{searchColumn: "%" + query.Terms + "%"})
	}
	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count sql: %w", err)
	}

	var total int64
	if err := exec.QueryRow(ctx, sqlText, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

func optionalString(value *string) any {
	if value == nil {
		return nil
	}
	return strings.TrimSpace(*value)
}

func nullableStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
