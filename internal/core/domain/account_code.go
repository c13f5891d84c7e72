package domain

import (
	"strings"
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/validation"
)

const (
	accountCodeMaxLength          = 36
	accountCodeChallengeMaxLength = 100
)

// AccountCode binds a short-lived code to an account for a PKCE-style exchange.
// It is immutable: codes are created, read and deleted, never updated.
type AccountCode struct {
	ID            AccountCodeID `json:"id"`
	Code          string        `json:"code"`
	CodeChallenge string        `json:"code_challenge"`
	AccountID     AccountID     `json:"account_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewAccountCode builds a code for accountID.
func NewAccountCode(accountID AccountID, code, codeChallenge string, now time.Time) *AccountCode {
	return &AccountCode{
		ID:            NewAccountCodeID(),
		Code:          strings.TrimSpace(code),
		CodeChallenge: strings.TrimSpace(codeChallenge),
		AccountID:     accountID,
		CreatedAt:     now.UTC(),
	}
}

// Validate checks code, challenge and owner.
func (c *AccountCode) Validate(h validation.Handler) {
	validation.RequireNotBlankMax(h, "code", c.Code, accountCodeMaxLength)
	validation.RequireNotBlankMax(h, "codeChallenge", c.CodeChallenge, accountCodeChallengeMaxLength)
	validation.RequireNotBlank(h, "accountId", c.AccountID.String())
}
