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

const (
	defaultConfirmationTTL  = 3 * time.Hour
	defaultPasswordResetTTL = 30 * time.Minute
)

// RequestAccountConfirmationCommand asks for a confirmation token for an account.
type RequestAccountConfirmationCommand struct {
	AccountID string
}

// RequestPasswordResetCommand asks for a reset token for the account owning Email.
type RequestPasswordResetCommand struct {
	Email string
}

// AccountMailOutput describes an issued token without exposing it.
type AccountMailOutput struct {
	ID        domain.AccountMailID
	AccountID domain.AccountID
	ExpiresAt time.Time
}

// ConfirmAccountMailCommand consumes a confirmation token.
type ConfirmAccountMailCommand struct {
	Token string
}

// ResetPasswordCommand consumes a reset token and sets a new password.
type ResetPasswordCommand struct {
	Token    string
	Password string
}

// ConsumeAccountMailOutput identifies the account the token belonged to.
type ConsumeAccountMailOutput struct {
	AccountID domain.AccountID
}

// AccountMailService issues and consumes confirmation and password reset tokens.
type AccountMailService struct {
	accounts        port.AccountGateway
	mails           port.AccountMailGateway
	cache           port.CacheGateway[*domain.Account]
	encrypter       port.EncrypterGateway
	events          port.EventPublisher
	logger          *zap.Logger
	now             func() time.Time
	newToken        func() string
	confirmationTTL time.Duration
	resetTTL        time.Duration
}

// NewAccountMailService constructs an AccountMailService.
func NewAccountMailService(accounts port.AccountGateway, mails port.AccountMailGateway, cache port.CacheGateway[*domain.Account], encrypter port.EncrypterGateway, events port.EventPublisher, logger *zap.Logger) *AccountMailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountMailService{
		accounts:        accounts,
		mails:           mails,
		cache:           cache,
		encrypter:       encrypter,
		events:          events,
		logger:          logger,
		now:             time.Now,
		newToken:        uuid.NewString,
		confirmationTTL: defaultConfirmationTTL,
		resetTTL:        defaultPasswordResetTTL,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *AccountMailService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithTTLs adjusts token lifetimes; non-positive values keep the current setting.
func (s *AccountMailService) WithTTLs(confirmation, reset time.Duration) {
	if confirmation > 0 {
		s.confirmationTTL = confirmation
	}
	if reset > 0 {
		s.resetTTL = reset
	}
}

// RequestAccountConfirmation issues a confirmation token for an account.
func (s *AccountMailService) RequestAccountConfirmation(ctx context.Context, cmd RequestAccountConfirmationCommand) (either.Either[*validation.Notification, AccountMailOutput], error) {
	if validation.IsBlank(cmd.AccountID) {
		return invalidWith[AccountMailOutput](validation.BlankError("accountId")), nil
	}

	accountID := domain.AccountID(strings.TrimSpace(cmd.AccountID))
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return valid(AccountMailOutput{}), lookupError(err, domain.EntityAccount, accountID)
	}

	return s.issue(ctx, account, domain.AccountMailTypeConfirmation, s.confirmationTTL)
}

// RequestPasswordReset issues a reset token for the account registered under an email.
func (s *AccountMailService) RequestPasswordReset(ctx context.Context, cmd RequestPasswordResetCommand) (either.Either[*validation.Notification, AccountMailOutput], error) {
	if validation.IsBlank(cmd.Email) {
		return invalidWith[AccountMailOutput](validation.BlankError("email")), nil
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return valid(AccountMailOutput{}), lookupError(err, domain.EntityAccount, email)
	}

	return s.issue(ctx, account, domain.AccountMailTypePasswordReset, s.resetTTL)
}

// issue replaces any pending token of the same type and publishes the delivery request.
func (s *AccountMailService) issue(ctx context.Context, account *domain.Account, mailType domain.AccountMailType, ttl time.Duration) (either.Either[*validation.Notification, AccountMailOutput], error) {
	now := s.now()
	mail := domain.NewAccountMail(account.ID, s.newToken(), mailType, now.Add(ttl), now)

	notification := validation.NewNotification()
	domain.NewAccountMailValidator(mail, now).Validate(notification)
	if notification.HasErrors() {
		return invalid[AccountMailOutput](notification), nil
	}

	pending, err := s.mails.FindAllByAccountID(ctx, account.ID)
	if err != nil {
		return valid(AccountMailOutput{}), fmt.Errorf("list account mails: %w", err)
	}
	for _, previous := range pending {
		if previous.Type != mailType {
			continue
		}
		if err := s.mails.DeleteByID(ctx, previous.ID); err != nil {
			return valid(AccountMailOutput{}), fmt.Errorf("delete previous account mail: %w", err)
		}
	}

	created, err := s.mails.Create(ctx, mail)
	if err != nil {
		return valid(AccountMailOutput{}), fmt.Errorf("create account mail: %w", err)
	}

	if s.events != nil {
		event := domain.AccountMailRequestedEvent{
			EventID:   uuid.NewString(),
			AccountID: account.ID.String(),
			Email:     account.Email,
			FirstName: account.FirstName,
			Type:      created.Type,
			Token:     created.Token,
			ExpiresAt: created.ExpiresAt,
			CreatedAt: created.CreatedAt,
		}
		if err := s.events.PublishAccountMailRequested(ctx, event); err != nil {
			s.logger.Warn("publish account mail requested failed", zap.String("account_id", account.ID.String()), zap.String("type", string(mailType)), zap.Error(err))
		}
	}

	return valid(AccountMailOutput{ID: created.ID, AccountID: account.ID, ExpiresAt: created.ExpiresAt}), nil
}

// ConfirmAccountMail consumes a confirmation token and confirms the account email.
func (s *AccountMailService) ConfirmAccountMail(ctx context.Context, cmd ConfirmAccountMailCommand) (either.Either[*validation.Notification, ConsumeAccountMailOutput], error) {
	notification := validation.NewNotification()
	validation.RequireNotBlank(notification, "token", cmd.Token)
	if notification.HasErrors() {
		return invalid[ConsumeAccountMailOutput](notification), nil
	}

	return s.consume(ctx, cmd.Token, domain.AccountMailTypeConfirmation, func(account *domain.Account, at time.Time) error {
		account.ConfirmEmail(at)
		return nil
	})
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AccountMailService) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) (either.Either[*validation.Notification, ConsumeAccountMailOutput], error) {
	notification := validation.NewNotification()
	validation.RequireNotBlank(notification, "token", cmd.Token)
	domain.PasswordValidator{Password: cmd.Password}.Validate(notification)
	if notification.HasErrors() {
		return invalid[ConsumeAccountMailOutput](notification), nil
	}

	return s.consume(ctx, cmd.Token, domain.AccountMailTypePasswordReset, func(account *domain.Account, at time.Time) error {
		hashed, err := s.encrypter.Encrypt(cmd.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		account.ResetPassword(hashed, at)
		return nil
	})
}

// consume runs the shared token state machine: lookup, expiry guard, mutate, persist, delete.
// An expired token is left in place.
func (s *AccountMailService) consume(ctx context.Context, rawToken string, mailType domain.AccountMailType, mutate func(*domain.Account, time.Time) error) (either.Either[*validation.Notification, ConsumeAccountMailOutput], error) {
	token := strings.TrimSpace(rawToken)
	mail, err := s.mails.FindByToken(ctx, token)
	if err != nil {
		return valid(ConsumeAccountMailOutput{}), lookupError(err, domain.EntityAccountMail, token)
	}
	if mail.Type != mailType {
		return valid(ConsumeAccountMailOutput{}), domain.NewNotFoundError(domain.EntityAccountMail, token)
	}

	now := s.now()
	if mail.IsExpired(now) {
		return invalidWith[ConsumeAccountMailOutput](domain.ExpiredTokenError()), nil
	}

	account, err := s.accounts.FindByID(ctx, mail.AccountID)
	if err != nil {
		return valid(ConsumeAccountMailOutput{}), lookupError(err, domain.EntityAccount, mail.AccountID)
	}
	if err := mutate(account, now); err != nil {
		return valid(ConsumeAccountMailOutput{}), err
	}

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return valid(ConsumeAccountMailOutput{}), fmt.Errorf("update account: %w", err)
	}
	cacheAccount(ctx, s.cache, s.logger, updated)

	if err := s.mails.DeleteByID(ctx, mail.ID); err != nil {
		return valid(ConsumeAccountMailOutput{}), fmt.Errorf("delete account mail: %w", err)
	}

	s.publishConsumed(ctx, mailType, updated)
	return valid(ConsumeAccountMailOutput{AccountID: updated.ID}), nil
}

func (s *AccountMailService) publishConsumed(ctx context.Context, mailType domain.AccountMailType, account *domain.Account) {
	if s.events == nil {
		return
	}

	var err error
	switch mailType {
	case domain.AccountMailTypeConfirmation:
		err = s.events.PublishAccountConfirmed(ctx, domain.AccountConfirmedEvent{
			EventID:     uuid.NewString(),
			AccountID:   account.ID.String(),
			ConfirmedAt: account.UpdatedAt,
		})
	case domain.AccountMailTypePasswordReset:
		err = s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			AccountID: account.ID.String(),
			ChangedAt: account.UpdatedAt,
		})
	}
	if err != nil {
		s.logger.Warn("publish account mail consumed failed", zap.String("account_id", account.ID.String()), zap.String("type", string(mailType)), zap.Error(err))
	}
}
