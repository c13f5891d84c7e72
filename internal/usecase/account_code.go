package usecase

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
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

// CreateAccountCodeCommand binds a new code to an account.
type CreateAccountCodeCommand struct {
	AccountID     string
	CodeChallenge string
}

// AccountCodeOutput returns the issued code.
type AccountCodeOutput struct {
	ID        domain.AccountCodeID
	Code      string
	AccountID domain.AccountID
}

// ExchangeAccountCodeCommand trades a code and its verifier for an access token.
type ExchangeAccountCodeCommand struct {
	Code         string
	CodeVerifier string
}

// ExchangeAccountCodeOutput carries the issued access token.
type ExchangeAccountCodeOutput struct {
	AccountID   domain.AccountID
	AccessToken string
	ExpiresAt   time.Time
}

// AccountCodeService issues single-use codes and exchanges them PKCE style.
type AccountCodeService struct {
	accounts port.AccountGateway
	codes    port.AccountCodeGateway
	signer   port.AccessTokenSigner
	logger   *zap.Logger
	now      func() time.Time
	newCode  func() string
}

// NewAccountCodeService constructs an AccountCodeService.
func NewAccountCodeService(accounts port.AccountGateway, codes port.AccountCodeGateway, signer port.AccessTokenSigner, logger *zap.Logger) *AccountCodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountCodeService{
		accounts: accounts,
		codes:    codes,
		signer:   signer,
		logger:   logger,
		now:      time.Now,
		newCode:  uuid.NewString,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *AccountCodeService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateAccountCode issues a code for an existing account.
func (s *AccountCodeService) CreateAccountCode(ctx context.Context, cmd CreateAccountCodeCommand) (either.Either[*validation.Notification, AccountCodeOutput], error) {
	if validation.IsBlank(cmd.AccountID) {
		return invalidWith[AccountCodeOutput](validation.BlankError("accountId")), nil
	}

	accountID := domain.AccountID(strings.TrimSpace(cmd.AccountID))
	code := domain.NewAccountCode(accountID, s.newCode(), cmd.CodeChallenge, s.now())

	notification := validation.NewNotification()
	code.Validate(notification)
	if notification.HasErrors() {
		return invalid[AccountCodeOutput](notification), nil
	}

	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return valid(AccountCodeOutput{}), lookupError(err, domain.EntityAccount, accountID)
	}

	created, err := s.codes.Create(ctx, code)
	if err != nil {
		return valid(AccountCodeOutput{}), fmt.Errorf("create account code: %w", err)
	}
	return valid(AccountCodeOutput{ID: created.ID, Code: created.Code, AccountID: created.AccountID}), nil
}

// GetAccountCode returns a stored code.
func (s *AccountCodeService) GetAccountCode(ctx context.Context, code string) (*domain.AccountCode, error) {
	code = strings.TrimSpace(code)
	found, err := s.codes.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError(err, domain.EntityAccountCode, code)
	}
	return found, nil
}

// ExchangeAccountCode checks the verifier against the stored challenge and, on a match,
// signs an access token and deletes the code.
func (s *AccountCodeService) ExchangeAccountCode(ctx context.Context, cmd ExchangeAccountCodeCommand) (either.Either[*validation.Notification, ExchangeAccountCodeOutput], error) {
	notification := validation.NewNotification()
	validation.RequireNotBlank(notification, "code", cmd.Code)
	validation.RequireNotBlank(notification, "codeVerifier", cmd.CodeVerifier)
	if notification.HasErrors() {
		return invalid[ExchangeAccountCodeOutput](notification), nil
	}

	code, err := s.GetAccountCode(ctx, cmd.Code)
	if err != nil {
		return valid(ExchangeAccountCodeOutput{}), err
	}
	if !VerifyCodeChallenge(strings.TrimSpace(cmd.CodeVerifier), code.CodeChallenge) {
		return invalidWith[ExchangeAccountCodeOutput](validation.NewError("'codeVerifier' does not match code challenge")), nil
	}

	account, err := s.accounts.FindByID(ctx, code.AccountID)
	if err != nil {
		return valid(ExchangeAccountCodeOutput{}), lookupError(err, domain.EntityAccount, code.AccountID)
	}

	token, err := s.signer.Sign(account, s.now())
	if err != nil {
		return valid(ExchangeAccountCodeOutput{}), fmt.Errorf("sign access token: %w", err)
	}

	if err := s.codes.DeleteByID(ctx, code.ID); err != nil {
		return valid(ExchangeAccountCodeOutput{}), fmt.Errorf("delete account code: %w", err)
	}

	return valid(ExchangeAccountCodeOutput{AccountID: account.ID, AccessToken: token.Token, ExpiresAt: token.ExpiresAt}), nil
}

// CodeChallengeS256 derives the challenge for verifier: base64url(sha256(verifier)) without padding.
func CodeChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyCodeChallenge compares the derived challenge in constant time.
func VerifyCodeChallenge(verifier, challenge string) bool {
	return subtle.ConstantTimeCompare([]byte(CodeChallengeS256(verifier)), []byte(challenge)) == 1
}
