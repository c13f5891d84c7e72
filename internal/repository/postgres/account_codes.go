package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const accountCodesTable = "accounts_codes"

// AccountCodeRepository implements port.AccountCodeGateway.
type AccountCodeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountCodeRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAccountCodeRepository(exec pgExecutor) *AccountCodeRepository {
	return &AccountCodeRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a code.
func (r *AccountCodeRepository) Create(ctx context.Context, code *domain.AccountCode) (*domain.AccountCode, error) {
	stmt, args, err := r.builder.Insert(accountCodesTable).
		Columns("id", "code", "code_challenge", "account_id", "created_at").
		Values(code.ID.String(), code.Code, code.CodeChallenge, code.AccountID.String(), code.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert account code sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("insert account code: %w", translateError(err))
	}
	return code, nil
}

// FindByCode loads a code.
func (r *AccountCodeRepository) FindByCode(ctx context.Context, code string) (*domain.AccountCode, error) {
	stmt, args, err := r.builder.Select("id", "code", "code_challenge", "account_id", "created_at").
		From(accountCodesTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account code sql: %w", err)
	}

	var (
		found     domain.AccountCode
		id        string
		accountID string
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id, &found.Code, &found.CodeChallenge, &accountID, &found.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account code: %w", err)
	}

	found.ID = domain.AccountCodeID(id)
	found.AccountID = domain.AccountID(accountID)
	found.CreatedAt = found.CreatedAt.UTC()
	return &found, nil
}

// DeleteByID removes a code.
func (r *AccountCodeRepository) DeleteByID(ctx context.Context, id domain.AccountCodeID) error {
	stmt, args, err := r.builder.Delete(accountCodesTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete account code sql: %w", err)
	}
	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete account code: %w", err)
	}
	return nil
}
