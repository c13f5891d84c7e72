package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
)

type accountFixture struct {
	service  *AccountService
	accounts *accountGatewayMock
	roles    *roleGatewayMock
	cache    *accountCacheMock
	avatars  *avatarGatewayMock
	events   *eventPublisherMock
}

func newAccountFixture(t *testing.T, roles ...*domain.Role) accountFixture {
	t.Helper()
	f := accountFixture{
		accounts: newAccountGatewayMock(),
		roles:    newRoleGatewayMock(roles...),
		cache:    newAccountCacheMock(),
		avatars:  &avatarGatewayMock{},
		events:   &eventPublisherMock{},
	}
	f.service = NewAccountService(f.accounts, f.roles, f.cache, encrypterMock{}, f.avatars, f.events, zaptest.NewLogger(t))
	return f
}

func defaultRole() *domain.Role {
	return domain.NewRole("user", nil, "COMMON", true, time.Now())
}

func happyPathCommand() CreateAccountCommand {
	return CreateAccountCommand{FirstName: "Fulano", LastName: "Silveira", Email: "teste@teste.com", Password: "1234567Ab"}
}

func TestAccountService_CreateAccount_Success(t *testing.T) {
	role := defaultRole()
	f := newAccountFixture(t, role)

	result, err := f.service.CreateAccount(context.Background(), happyPathCommand())
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if result.IsLeft() {
		t.Fatalf("expected success, got %v", result.LeftValue().Messages())
	}

	id := result.RightValue().ID
	if id == "" {
		t.Fatal("expected non-empty id")
	}
	stored := f.accounts.accounts[id]
	if stored.MailStatus != domain.MailStatusWaitingConfirmation {
		t.Errorf("expected WAITING_CONFIRMATION, got %s", stored.MailStatus)
	}
	if stored.Password != "hashed:1234567Ab" {
		t.Errorf("expected hashed password, got %q", stored.Password)
	}
	if stored.RoleID != role.ID {
		t.Errorf("expected default role %s, got %s", role.ID, stored.RoleID)
	}
	if _, ok := f.cache.entries[id.String()]; !ok {
		t.Error("expected account to be written through to the cache")
	}
	if len(f.events.created) != 1 || f.events.created[0].AccountID != id.String() {
		t.Errorf("expected one account created event, got %+v", f.events.created)
	}
}

func TestAccountService_CreateAccount_DuplicateEmail(t *testing.T) {
	f := newAccountFixture(t, defaultRole())
	f.accounts.emailExists = true

	result, err := f.service.CreateAccount(context.Background(), happyPathCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsLeft() {
		t.Fatal("expected validation failure")
	}
	messages := result.LeftValue().Messages()
	if len(messages) != 1 || messages[0] != "'email' already exists" {
		t.Fatalf("expected single duplicate email error, got %v", messages)
	}
	if f.accounts.createCalls != 0 {
		t.Errorf("create must not be called, got %d calls", f.accounts.createCalls)
	}
}

func TestAccountService_CreateAccount_AccumulatesFieldErrors(t *testing.T) {
	f := newAccountFixture(t, defaultRole())

	result, err := f.service.CreateAccount(context.Background(), CreateAccountCommand{FirstName: "", LastName: "", Email: "", Password: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(result.LeftValue().Errors()); got != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", got, result.LeftValue().Messages())
	}
	if f.accounts.createCalls != 0 {
		t.Error("create must not be called for invalid input")
	}
}

func TestAccountService_CreateAccount_MissingDefaultRole(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.CreateAccount(context.Background(), happyPathCommand())
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Entity != domain.EntityRole {
		t.Errorf("expected Role entity, got %s", notFound.Entity)
	}
	if f.accounts.createCalls != 0 {
		t.Error("create must not be called without a default role")
	}
}

func TestAccountService_CreateAccount_SideEffectFailuresDoNotFail(t *testing.T) {
	f := newAccountFixture(t, defaultRole())
	f.cache.saveErr = errBoom
	f.events.err = errBoom

	result, err := f.service.CreateAccount(context.Background(), happyPathCommand())
	if err != nil || result.IsLeft() {
		t.Fatalf("expected success despite side-effect failures, got %v %v", result, err)
	}
}

func TestAccountService_CreateAccount_StoreFailure(t *testing.T) {
	f := newAccountFixture(t, defaultRole())
	f.accounts.createErr = errBoom

	_, err := f.service.CreateAccount(context.Background(), happyPathCommand())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if f.cache.saves != 0 || len(f.events.created) != 0 {
		t.Error("side effects must not run when the write fails")
	}
}

func TestAccountService_GetAccountByID_CacheFirst(t *testing.T) {
	f := newAccountFixture(t)
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	f.accounts.accounts[account.ID] = account

	got, err := f.service.GetAccountByID(context.Background(), account.ID.String())
	if err != nil || got.ID != account.ID {
		t.Fatalf("unexpected result %v %v", got, err)
	}
	if f.cache.saves != 1 {
		t.Fatalf("expected cache population on miss, got %d saves", f.cache.saves)
	}

	delete(f.accounts.accounts, account.ID)
	got, err = f.service.GetAccountByID(context.Background(), account.ID.String())
	if err != nil || got.ID != account.ID {
		t.Fatalf("expected cache hit, got %v %v", got, err)
	}
}

func TestAccountService_GetAccountByID_NotFound(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.GetAccountByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Account with id missing was not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAccountService_UpdateAccountRole(t *testing.T) {
	current := defaultRole()
	target := domain.NewRole("manager", nil, "EMPLOYEES", false, time.Now())
	f := newAccountFixture(t, current, target)
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	account.ChangeRole(current.ID, time.Now())
	f.accounts.accounts[account.ID] = account

	result, err := f.service.UpdateAccountRole(context.Background(), UpdateAccountRoleCommand{AccountID: account.ID.String(), RoleID: target.ID.String()})
	if err != nil || result.IsLeft() {
		t.Fatalf("unexpected failure %v %v", result, err)
	}
	if f.accounts.accounts[account.ID].RoleID != target.ID {
		t.Error("expected role to change")
	}
	cached := f.cache.entries[account.ID.String()]
	if cached == nil || cached.RoleID != target.ID {
		t.Error("expected cache to reflect the new role")
	}
	if len(f.events.changed) != 1 || f.events.changed[0].PreviousRoleID != current.ID.String() {
		t.Errorf("unexpected role changed events %+v", f.events.changed)
	}
}

func TestAccountService_UpdateAccountRole_Failures(t *testing.T) {
	f := newAccountFixture(t)
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	f.accounts.accounts[account.ID] = account

	result, err := f.service.UpdateAccountRole(context.Background(), UpdateAccountRoleCommand{AccountID: account.ID.String(), RoleID: " "})
	if err != nil || !result.IsLeft() {
		t.Fatalf("expected validation failure, got %v %v", result, err)
	}

	_, err = f.service.UpdateAccountRole(context.Background(), UpdateAccountRoleCommand{AccountID: account.ID.String(), RoleID: "unknown"})
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) || notFound.Entity != domain.EntityRole || notFound.ID != "unknown" {
		t.Fatalf("expected role not found, got %v", err)
	}
	if f.accounts.updateCalls != 0 {
		t.Error("update must not be called")
	}
}

func TestAccountService_UpdateAvatar(t *testing.T) {
	f := newAccountFixture(t)
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	f.accounts.accounts[account.ID] = account

	invalid, err := f.service.UpdateAvatar(context.Background(), UpdateAvatarCommand{AccountID: account.ID.String()})
	if err != nil || !invalid.IsLeft() {
		t.Fatalf("expected validation failure for empty upload, got %v %v", invalid, err)
	}

	resource := domain.NewResource([]byte("png"), "image/png", "me.png")
	result, err := f.service.UpdateAvatar(context.Background(), UpdateAvatarCommand{AccountID: account.ID.String(), Resource: resource})
	if err != nil || result.IsLeft() {
		t.Fatalf("unexpected failure %v %v", result, err)
	}
	want := "https://avatars.local/" + account.ID.String() + ".png"
	if result.RightValue().AvatarURL != want {
		t.Errorf("expected %s, got %s", want, result.RightValue().AvatarURL)
	}
	stored := f.accounts.accounts[account.ID]
	if stored.AvatarURL == nil || *stored.AvatarURL != want {
		t.Errorf("expected stored avatar url, got %v", stored.AvatarURL)
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	f := newAccountFixture(t)
	account := domain.NewAccount("Fulano", "Silveira", "teste@teste.com", "hash", time.Now())
	account.ChangeAvatar(strPtr("https://avatars.local/x.png"), time.Now())
	f.accounts.accounts[account.ID] = account
	f.cache.entries[account.ID.String()] = account

	if err := f.service.DeleteAccount(context.Background(), account.ID.String()); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, ok := f.accounts.accounts[account.ID]; ok {
		t.Error("expected account removed")
	}
	if _, ok := f.cache.entries[account.ID.String()]; ok {
		t.Error("expected cache entry removed")
	}
	if len(f.avatars.deleted) != 1 {
		t.Error("expected avatar removal")
	}
	if len(f.events.deleted) != 1 {
		t.Error("expected account deleted event")
	}

	if err := f.service.DeleteAccount(context.Background(), account.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
