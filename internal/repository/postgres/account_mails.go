package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const accountMailsTable = "accounts_mails"

var accountMailColumns = []string{"id", "token", "type", "account_id", "expires_at", "created_at", "updated_at"}

// AccountMailRepository implements port.AccountMailGateway.
type AccountMailRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountMailRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAccountMailRepository(exec pgExecutor) *AccountMailRepository {
	return &AccountMailRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a token.
func (r *AccountMailRepository) Create(ctx context.Context, mail *domain.AccountMail) (*domain.AccountMail, error) {
	stmt, args, err := r.builder.Insert(accountMailsTable).
		Columns(accountMailColumns...).
		Values(
			mail.ID.String(),
			mail.Token,
			string(mail.Type),
			mail.AccountID.String(),
			mail.ExpiresAt.UTC(),
			mail.CreatedAt.UTC(),
			mail.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert account mail sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("insert account mail: %w", translateError(err))
	}
	return mail, nil
}

// FindByToken loads a token regardless of its expiry.
func (r *AccountMailRepository) FindByToken(ctx context.Context, token string) (*domain.AccountMail, error) {
	stmt, args, err := r.builder.Select(accountMailColumns...).
		From(accountMailsTable).
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account mail sql: %w", err)
	}
	return scanAccountMail(r.exec.QueryRow(ctx, stmt, args...))
}

// FindAllByAccountID lists every token issued to an account, newest first.
func (r *AccountMailRepository) FindAllByAccountID(ctx context.Context, accountID domain.AccountID) ([]*domain.AccountMail, error) {
	stmt, args, err := r.builder.Select(accountMailColumns...).
		From(accountMailsTable).
		Where(squirrel.Eq{"account_id": accountID.String()}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list account mails sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query account mails: %w", err)
	}
	defer rows.Close()

	mails := make([]*domain.AccountMail, 0)
	for rows.Next() {
		mail, err := scanAccountMail(rows)
		if err != nil {
			return nil, err
		}
		mails = append(mails, mail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account mails: %w", err)
	}
	return mails, nil
}

// DeleteByID removes a token. Deleting a missing token is not an error.
func (r *AccountMailRepository) DeleteByID(ctx context.Context, id domain.AccountMailID) error {
	stmt, args, err := r.builder.Delete(accountMailsTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete account mail sql: %w", err)
	}
	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete account mail: %w", err)
	}
	return nil
}

func scanAccountMail(row pgx.Row) (*domain.AccountMail, error) {
	var (
		mail      domain.AccountMail
		id        string
		mailType  string
		accountID string
	)
	if err := row.Scan(&id, &mail.Token, &mailType, &accountID, &mail.ExpiresAt, &mail.CreatedAt, &mail.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account mail: %w", err)
	}

	mail.ID = domain.AccountMailID(id)
	mail.Type = domain.AccountMailType(mailType)
	mail.AccountID = domain.AccountID(accountID)
	mail.ExpiresAt = mail.ExpiresAt.UTC()
	mail.CreatedAt = mail.CreatedAt.UTC()
	mail.UpdatedAt = mail.UpdatedAt.UTC()
	return &mail, nil
}
