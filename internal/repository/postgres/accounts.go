package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

const accountsTable = "accounts"

var accountColumns = []string{
	"id", "first_name", "last_name", "email", "password", "mail_status", "avatar_url", "role_id", "created_at", "updated_at",
}

// AccountRepository implements port.AccountGateway.
type AccountRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	return &AccountRepository{exec: exec, builder: newBuilder()}
}

// ExistsByEmail reports whether an account already uses email.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.exec, r.builder, accountsTable, squirrel.Eq{"email": email})
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	stmt, args, err := r.builder.Insert(accountsTable).
		Columns(accountColumns...).
		Values(
			account.ID.String(),
			account.FirstName,
			account.LastName,
			account.Email,
			account.Password,
			string(account.MailStatus),
			optionalString(account.AvatarURL),
			account.RoleID.String(),
			account.CreatedAt.UTC(),
			account.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("insert account: %w", translateError(err))
	}
	return account, nil
}

// Update overwrites the mutable columns of an account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	stmt, args, err := r.builder.Update(accountsTable).
		Set("first_name", account.FirstName).
		Set("last_name", account.LastName).
		Set("email", account.Email).
		Set("password", account.Password).
		Set("mail_status", string(account.MailStatus)).
		Set("avatar_url", optionalString(account.AvatarURL)).
		Set("role_id", account.RoleID.String()).
		Set("updated_at", account.UpdatedAt.UTC()).
		Where(squirrel.Eq{"id": account.ID.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return account, nil
}

// FindByID loads an account by id.
func (r *AccountRepository) FindByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id.String()})
}

// FindByEmail loads an account by its normalised email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// DeleteByID removes an account; mails and codes cascade.
func (r *AccountRepository) DeleteByID(ctx context.Context, id domain.AccountID) error {
	stmt, args, err := r.builder.Delete(accountsTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Account, error) {
	stmt, args, err := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	account, err := scanAccount(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account    domain.Account
		id         string
		mailStatus string
		avatarURL  sql.NullString
		roleID     string
	)

	if err := row.Scan(
		&id,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.Password,
		&mailStatus,
		&avatarURL,
		&roleID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	account.ID = domain.AccountID(id)
	account.MailStatus = domain.MailStatus(mailStatus)
	account.AvatarURL = nullableStringPtr(avatarURL)
	account.RoleID = domain.RoleID(roleID)
	account.CreatedAt = account.CreatedAt.UTC()
	account.UpdatedAt = account.UpdatedAt.UTC()
	return &account, nil
}
