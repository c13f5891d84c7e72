package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func assertExpectations(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var accountRowColumns = []string{"id", "first_name", "last_name", "email", "password", "mail_status", "avatar_url", "role_id", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	now := time.Now().UTC()
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", now)
	account.ChangeRole("role-1", now)

	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(account.ID.String(), "Fulano", "Silveira", "teste@teste.com", "hash", "WAITING_CONFIRMATION", nil, "role-1", account.CreatedAt, account.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), account)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != account.ID {
		t.Fatalf("expected same account back")
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	mock.ExpectExec(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), account)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_ExistsByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE email = \$1 LIMIT 1\)`).
		WithArgs("teste@teste.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.ExistsByEmail(context.Background(), "teste@teste.com")
	if err != nil || !found {
		t.Fatalf("expected email to exist, got %v %v", found, err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	now := time.Now().UTC()
	avatar := "https://cdn/avatar.png"
	rows := pgxmock.NewRows(accountRowColumns).
		AddRow("acc-1", "Fulano", "Silveira", "teste@teste.com", "hash", "CONFIRMED", avatar, "role-1", now, now)
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1`).WithArgs("acc-1").WillReturnRows(rows)

	account, err := repo.FindByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if account.ID != "acc-1" || account.RoleID != "role-1" || !account.IsConfirmed() {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.AvatarURL == nil || *account.AvatarURL != avatar {
		t.Fatalf("expected avatar url populated")
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_FindByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE email = \$1`).WithArgs("nobody@teste.com").WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@teste.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	mock.ExpectExec(`UPDATE accounts SET`).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if _, err := repo.Update(context.Background(), account); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAccountRepository_DeleteByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAccountRepository(mock)

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).WithArgs("acc-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).WithArgs("acc-2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteByID(context.Background(), "acc-1"); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}
	if err := repo.DeleteByID(context.Background(), "acc-2"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}
