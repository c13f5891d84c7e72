package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/repository"
)

var errBoom = errors.New("boom")

type accountGatewayMock struct {
	accounts    map[domain.AccountID]*domain.Account
	emailExists bool
	existsErr   error
	createErr   error
	updateErr   error
	createCalls int
	updateCalls int
	deleteCalls int
}

func newAccountGatewayMock(accounts ...*domain.Account) *accountGatewayMock {
	m := &accountGatewayMock{accounts: make(map[domain.AccountID]*domain.Account)}
	for _, account := range accounts {
		m.accounts[account.ID] = account
	}
	return m
}

func (m *accountGatewayMock) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.emailExists {
		return true, nil
	}
	for _, account := range m.accounts {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *accountGatewayMock) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.accounts[account.ID] = account
	return account, nil
}

func (m *accountGatewayMock) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.updateCalls++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if _, ok := m.accounts[account.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.accounts[account.ID] = account
	return account, nil
}

func (m *accountGatewayMock) FindByID(_ context.Context, id domain.AccountID) (*domain.Account, error) {
	if account, ok := m.accounts[id]; ok {
		clone := *account
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *accountGatewayMock) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *accountGatewayMock) DeleteByID(_ context.Context, id domain.AccountID) error {
	m.deleteCalls++
	if _, ok := m.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

type roleGatewayMock struct {
	roles       map[domain.RoleID]*domain.Role
	nameExists  bool
	defaultErr  error
	createCalls int
	updateCalls int
	created     *domain.Role
	updated     *domain.Role
}

func newRoleGatewayMock(roles ...*domain.Role) *roleGatewayMock {
	m := &roleGatewayMock{roles: make(map[domain.RoleID]*domain.Role)}
	for _, role := range roles {
		m.roles[role.ID] = role
	}
	return m
}

func (m *roleGatewayMock) ExistsByName(_ context.Context, name string) (bool, error) {
	if m.nameExists {
		return true, nil
	}
	for _, role := range m.roles {
		if strings.EqualFold(role.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *roleGatewayMock) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	m.createCalls++
	m.created = role
	m.roles[role.ID] = role
	return role, nil
}

func (m *roleGatewayMock) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	m.updateCalls++
	m.updated = role
	m.roles[role.ID] = role
	return role, nil
}

func (m *roleGatewayMock) FindByID(_ context.Context, id domain.RoleID) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		clone := *role
		clone.Permissions = append([]domain.RolePermission(nil), role.Permissions...)
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleGatewayMock) FindDefaultRole(_ context.Context) (*domain.Role, error) {
	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	for _, role := range m.roles {
		if role.IsDefault {
			clone := *role
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleGatewayMock) FindAll(_ context.Context, query port.SearchQuery) (port.Pagination[*domain.Role], error) {
	items := make([]*domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		items = append(items, role)
	}
	return port.Pagination[*domain.Role]{CurrentPage: query.Page, PerPage: query.PerPage, Total: int64(len(items)), Items: items}, nil
}

func (m *roleGatewayMock) DeleteByID(_ context.Context, id domain.RoleID) error {
	if _, ok := m.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

type permissionGatewayMock struct {
	permissions map[domain.PermissionID]*domain.Permission
	createCalls int
	lastQuery   port.SearchQuery
}

func newPermissionGatewayMock(permissions ...*domain.Permission) *permissionGatewayMock {
	m := &permissionGatewayMock{permissions: make(map[domain.PermissionID]*domain.Permission)}
	for _, permission := range permissions {
		m.permissions[permission.ID] = permission
	}
	return m
}

func (m *permissionGatewayMock) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, permission := range m.permissions {
		if strings.EqualFold(permission.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *permissionGatewayMock) Create(_ context.Context, permission *domain.Permission) (*domain.Permission, error) {
	m.createCalls++
	m.permissions[permission.ID] = permission
	return permission, nil
}

func (m *permissionGatewayMock) Update(_ context.Context, permission *domain.Permission) (*domain.Permission, error) {
	m.permissions[permission.ID] = permission
	return permission, nil
}

func (m *permissionGatewayMock) FindByID(_ context.Context, id domain.PermissionID) (*domain.Permission, error) {
	if permission, ok := m.permissions[id]; ok {
		clone := *permission
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionGatewayMock) FindAllByIDs(_ context.Context, ids []domain.PermissionID) ([]*domain.Permission, error) {
	out := make([]*domain.Permission, 0, len(ids))
	for _, id := range ids {
		if permission, ok := m.permissions[id]; ok {
			out = append(out, permission)
		}
	}
	return out, nil
}

func (m *permissionGatewayMock) FindAll(_ context.Context, query port.SearchQuery) (port.Pagination[*domain.Permission], error) {
	m.lastQuery = query
	items := make([]*domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		items = append(items, permission)
	}
	return port.Pagination[*domain.Permission]{CurrentPage: query.Page, PerPage: query.PerPage, Total: int64(len(items)), Items: items}, nil
}

func (m *permissionGatewayMock) DeleteByID(_ context.Context, id domain.PermissionID) error {
	if _, ok := m.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.permissions, id)
	return nil
}

type accountMailGatewayMock struct {
	mails       map[domain.AccountMailID]*domain.AccountMail
	createCalls int
	deleted     []domain.AccountMailID
}

func newAccountMailGatewayMock(mails ...*domain.AccountMail) *accountMailGatewayMock {
	m := &accountMailGatewayMock{mails: make(map[domain.AccountMailID]*domain.AccountMail)}
	for _, mail := range mails {
		m.mails[mail.ID] = mail
	}
	return m
}

func (m *accountMailGatewayMock) Create(_ context.Context, mail *domain.AccountMail) (*domain.AccountMail, error) {
	m.createCalls++
	m.mails[mail.ID] = mail
	return mail, nil
}

func (m *accountMailGatewayMock) FindByToken(_ context.Context, token string) (*domain.AccountMail, error) {
	for _, mail := range m.mails {
		if mail.Token == token {
			clone := *mail
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *accountMailGatewayMock) FindAllByAccountID(_ context.Context, accountID domain.AccountID) ([]*domain.AccountMail, error) {
	out := make([]*domain.AccountMail, 0)
	for _, mail := range m.mails {
		if mail.AccountID == accountID {
			out = append(out, mail)
		}
	}
	return out, nil
}

func (m *accountMailGatewayMock) DeleteByID(_ context.Context, id domain.AccountMailID) error {
	m.deleted = append(m.deleted, id)
	delete(m.mails, id)
	return nil
}

type accountCodeGatewayMock struct {
	codes   map[string]*domain.AccountCode
	deleted []domain.AccountCodeID
}

func newAccountCodeGatewayMock(codes ...*domain.AccountCode) *accountCodeGatewayMock {
	m := &accountCodeGatewayMock{codes: make(map[string]*domain.AccountCode)}
	for _, code := range codes {
		m.codes[code.Code] = code
	}
	return m
}

func (m *accountCodeGatewayMock) Create(_ context.Context, code *domain.AccountCode) (*domain.AccountCode, error) {
	m.codes[code.Code] = code
	return code, nil
}

func (m *accountCodeGatewayMock) FindByCode(_ context.Context, code string) (*domain.AccountCode, error) {
	if found, ok := m.codes[code]; ok {
		return found, nil
	}
	return nil, repository.ErrNotFound
}

func (m *accountCodeGatewayMock) DeleteByID(_ context.Context, id domain.AccountCodeID) error {
	m.deleted = append(m.deleted, id)
	for key, code := range m.codes {
		if code.ID == id {
			delete(m.codes, key)
		}
	}
	return nil
}

type accountCacheMock struct {
	entries map[string]*domain.Account
	saveErr error
	saves   int
	gets    int
}

func newAccountCacheMock() *accountCacheMock {
	return &accountCacheMock{entries: make(map[string]*domain.Account)}
}

func (m *accountCacheMock) Save(_ context.Context, account *domain.Account) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[account.ID.String()] = account
	return nil
}

func (m *accountCacheMock) Get(_ context.Context, id string) (*domain.Account, bool, error) {
	m.gets++
	account, ok := m.entries[id]
	return account, ok, nil
}

func (m *accountCacheMock) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

type encrypterMock struct{}

func (encrypterMock) Encrypt(plain string) (string, error) { return "hashed:" + plain, nil }

func (encrypterMock) Matches(plain, encoded string) (bool, error) {
	return encoded == "hashed:"+plain, nil
}

type avatarGatewayMock struct {
	saved   map[domain.AccountID]domain.Resource
	deleted []domain.AccountID
}

func (m *avatarGatewayMock) Save(_ context.Context, accountID domain.AccountID, resource domain.Resource) (string, error) {
	if m.saved == nil {
		m.saved = make(map[domain.AccountID]domain.Resource)
	}
	m.saved[accountID] = resource
	return "https://avatars.local/" + accountID.String() + resource.Extension(), nil
}

func (m *avatarGatewayMock) Delete(_ context.Context, accountID domain.AccountID) error {
	m.deleted = append(m.deleted, accountID)
	return nil
}

type eventPublisherMock struct {
	err      error
	created  []domain.AccountCreatedEvent
	deleted  []domain.AccountDeletedEvent
	changed  []domain.AccountRoleChangedEvent
	confirm  []domain.AccountConfirmedEvent
	password []domain.PasswordChangedEvent
	mails    []domain.AccountMailRequestedEvent
}

func (m *eventPublisherMock) PublishAccountCreated(_ context.Context, event domain.AccountCreatedEvent) error {
	m.created = append(m.created, event)
	return m.err
}

func (m *eventPublisherMock) PublishAccountDeleted(_ context.Context, event domain.AccountDeletedEvent) error {
	m.deleted = append(m.deleted, event)
	return m.err
}

func (m *eventPublisherMock) PublishAccountRoleChanged(_ context.Context, event domain.AccountRoleChangedEvent) error {
	m.changed = append(m.changed, event)
	return m.err
}

func (m *eventPublisherMock) PublishAccountConfirmed(_ context.Context, event domain.AccountConfirmedEvent) error {
	m.confirm = append(m.confirm, event)
	return m.err
}

func (m *eventPublisherMock) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.password = append(m.password, event)
	return m.err
}

func (m *eventPublisherMock) PublishAccountMailRequested(_ context.Context, event domain.AccountMailRequestedEvent) error {
	m.mails = append(m.mails, event)
	return m.err
}

type signerMock struct {
	signed []domain.AccountID
}

func (m *signerMock) Sign(account *domain.Account, issuedAt time.Time) (port.AccessToken, error) {
	m.signed = append(m.signed, account.ID)
	return port.AccessToken{Token: "signed-" + account.ID.String(), ExpiresAt: issuedAt.Add(15 * time.Minute)}, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
