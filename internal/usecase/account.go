package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/either"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

// defaultRoleLookupID names the missing role when no default role is configured.
const defaultRoleLookupID = "default"

// CreateAccountCommand carries the raw registration input.
type CreateAccountCommand struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// CreateAccountOutput identifies the created account.
type CreateAccountOutput struct {
	ID domain.AccountID
}

// UpdateAccountRoleCommand moves an account to another role.
type UpdateAccountRoleCommand struct {
	AccountID string
	RoleID    string
}

// UpdateAccountRoleOutput identifies the updated account.
type UpdateAccountRoleOutput struct {
	ID domain.AccountID
}

// UpdateAvatarCommand carries an uploaded avatar.
type UpdateAvatarCommand struct {
	AccountID string
	Resource  domain.Resource
}

// UpdateAvatarOutput returns the stored avatar location.
type UpdateAvatarOutput struct {
	ID        domain.AccountID
	AvatarURL string
}

// AccountService orchestrates account registration and account-level changes.
type AccountService struct {
	accounts  port.AccountGateway
	roles     port.RoleGateway
	cache     port.CacheGateway[*domain.Account]
	encrypter port.EncrypterGateway
	avatars   port.AvatarGateway
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService constructs an AccountService. cache, avatars and events are optional.
func NewAccountService(accounts port.AccountGateway, roles port.RoleGateway, cache port.CacheGateway[*domain.Account], encrypter port.EncrypterGateway, avatars port.AvatarGateway, events port.EventPublisher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:  accounts,
		roles:     roles,
		cache:     cache,
		encrypter: encrypter,
		avatars:   avatars,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *AccountService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateAccount registers a new account bound to the default role.
func (s *AccountService) CreateAccount(ctx context.Context, cmd CreateAccountCommand) (either.Either[*validation.Notification, CreateAccountOutput], error) {
	account := domain.NewAccount(cmd.FirstName, cmd.LastName, cmd.Email, cmd.Password, s.now())

	notification := validation.NewNotification()
	account.Validate(notification)
	if notification.HasErrors() {
		return invalid[CreateAccountOutput](notification), nil
	}

	exists, err := s.accounts.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return valid(CreateAccountOutput{}), fmt.Errorf("check email: %w", err)
	}
	if exists {
		return invalidWith[CreateAccountOutput](validation.AlreadyExistsError("email")), nil
	}

	role, err := s.roles.FindDefaultRole(ctx)
	if err != nil {
		return valid(CreateAccountOutput{}), lookupError(err, domain.EntityRole, defaultRoleLookupID)
	}

	hashed, err := s.encrypter.Encrypt(account.Password)
	if err != nil {
		return valid(CreateAccountOutput{}), fmt.Errorf("hash password: %w", err)
	}
	account.SetHashedPassword(hashed, account.CreatedAt)
	account.ChangeRole(role.ID, account.CreatedAt)

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return valid(CreateAccountOutput{}), fmt.Errorf("create account: %w", err)
	}

	s.writeThrough(ctx, created)
	if s.events != nil {
		event := domain.AccountCreatedEvent{
			EventID:   uuid.NewString(),
			AccountID: created.ID.String(),
			FirstName: created.FirstName,
			LastName:  created.LastName,
			Email:     created.Email,
			RoleID:    created.RoleID.String(),
			CreatedAt: created.CreatedAt,
		}
		if err := s.events.PublishAccountCreated(ctx, event); err != nil {
			s.logger.Warn("publish account created failed", zap.String("account_id", created.ID.String()), zap.Error(err))
		}
	}

	return valid(CreateAccountOutput{ID: created.ID}), nil
}

// GetAccountByID reads the cache first and falls back to the store, repopulating the cache.
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	accountID := domain.AccountID(strings.TrimSpace(id))

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, accountID.String())
		if err != nil {
			s.logger.Warn("account cache lookup failed", zap.String("account_id", accountID.String()), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, lookupError(err, domain.EntityAccount, accountID)
	}
	s.writeThrough(ctx, account)
	return account, nil
}

// DeleteAccount removes the account, its avatar and its cache entry.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	accountID := domain.AccountID(strings.TrimSpace(id))

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return lookupError(err, domain.EntityAccount, accountID)
	}

	if account.AvatarURL != nil && s.avatars != nil {
		if err := s.avatars.Delete(ctx, account.ID); err != nil {
			s.logger.Warn("delete avatar failed", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}

	if err := s.accounts.DeleteByID(ctx, account.ID); err != nil {
		return lookupError(err, domain.EntityAccount, account.ID)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, account.ID.String()); err != nil {
			s.logger.Warn("evict account cache failed", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}
	if s.events != nil {
		event := domain.AccountDeletedEvent{EventID: uuid.NewString(), AccountID: account.ID.String(), DeletedAt: s.now().UTC()}
		if err := s.events.PublishAccountDeleted(ctx, event); err != nil {
			s.logger.Warn("publish account deleted failed", zap.String("account_id", account.ID.String()), zap.Error(err))
		}
	}
	return nil
}

// UpdateAccountRole moves an account to an existing role.
func (s *AccountService) UpdateAccountRole(ctx context.Context, cmd UpdateAccountRoleCommand) (either.Either[*validation.Notification, UpdateAccountRoleOutput], error) {
	notification := validation.NewNotification()
	validation.RequireNotBlank(notification, "roleId", cmd.RoleID)
	if notification.HasErrors() {
		return invalid[UpdateAccountRoleOutput](notification), nil
	}

	accountID := domain.AccountID(strings.TrimSpace(cmd.AccountID))
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return valid(UpdateAccountRoleOutput{}), lookupError(err, domain.EntityAccount, accountID)
	}

	roleID := domain.RoleID(strings.TrimSpace(cmd.RoleID))
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return valid(UpdateAccountRoleOutput{}), lookupError(err, domain.EntityRole, roleID)
	}

	previous := account.RoleID
	account.ChangeRole(role.ID, s.now())

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return valid(UpdateAccountRoleOutput{}), fmt.Errorf("update account: %w", err)
	}

	s.writeThrough(ctx, updated)
	if s.events != nil {
		event := domain.AccountRoleChangedEvent{
			EventID:        uuid.NewString(),
			AccountID:      updated.ID.String(),
			PreviousRoleID: previous.String(),
			RoleID:         updated.RoleID.String(),
			ChangedAt:      updated.UpdatedAt,
		}
		if err := s.events.PublishAccountRoleChanged(ctx, event); err != nil {
			s.logger.Warn("publish account role changed failed", zap.String("account_id", updated.ID.String()), zap.Error(err))
		}
	}

	return valid(UpdateAccountRoleOutput{ID: updated.ID}), nil
}

// UpdateAvatar stores a new avatar and points the account at it.
func (s *AccountService) UpdateAvatar(ctx context.Context, cmd UpdateAvatarCommand) (either.Either[*validation.Notification, UpdateAvatarOutput], error) {
	notification := validation.NewNotification()
	cmd.Resource.Validate(notification)
	if notification.HasErrors() {
		return invalid[UpdateAvatarOutput](notification), nil
	}

	accountID := domain.AccountID(strings.TrimSpace(cmd.AccountID))
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return valid(UpdateAvatarOutput{}), lookupError(err, domain.EntityAccount, accountID)
	}

	if s.avatars == nil {
		return valid(UpdateAvatarOutput{}), fmt.Errorf("avatar storage is not configured")
	}
	url, err := s.avatars.Save(ctx, account.ID, cmd.Resource)
	if err != nil {
		return valid(UpdateAvatarOutput{}), fmt.Errorf("store avatar: %w", err)
	}

	account.ChangeAvatar(&url, s.now())
	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return valid(UpdateAvatarOutput{}), fmt.Errorf("update account: %w", err)
	}
	s.writeThrough(ctx, updated)

	return valid(UpdateAvatarOutput{ID: updated.ID, AvatarURL: url}), nil
}

// writeThrough caches the instance that was just committed. Failures only get logged.
func (s *AccountService) writeThrough(ctx context.Context, account *domain.Account) {
	cacheAccount(ctx, s.cache, s.logger, account)
}

func cacheAccount(ctx context.Context, cache port.CacheGateway[*domain.Account], logger *zap.Logger, account *domain.Account) {
	if cache == nil || account == nil {
		return
	}
	if err := cache.Save(ctx, account); err != nil {
		logger.Warn("cache account failed", zap.String("account_id", account.ID.String()), zap.Error(err))
	}
}
