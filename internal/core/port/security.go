package port

import (
	"time"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
)

// EncrypterGateway hashes secrets one way.
type EncrypterGateway interface {
	Encrypt(plain string) (string, error)
	Matches(plain, encoded string) (bool, error)
}

// AccessToken is a signed credential issued after a successful code exchange.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// AccessTokenSigner issues access tokens for an account.
type AccessTokenSigner interface {
	Sign(account *domain.Account, issuedAt time.Time) (AccessToken, error)
}
