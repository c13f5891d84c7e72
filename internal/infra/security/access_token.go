package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
)

// ErrInvalidAccessToken is returned by Parse for any token it refuses.
var ErrInvalidAccessToken = errors.New("jwt: invalid access token")

// AccessClaims are the claims carried by an access token.
type AccessClaims struct {
	Email  string `json:"email"`
	RoleID string `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// HMACSigner issues HS256 access tokens after a code exchange.
type HMACSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewHMACSigner(secret, issuer string, ttl time.Duration) (*HMACSigner, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("jwt: secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt: ttl must be positive")
	}
	return &HMACSigner{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

func (s *HMACSigner) Sign(account *domain.Account, issuedAt time.Time) (port.AccessToken, error) {
	if account == nil {
		return port.AccessToken{}, fmt.Errorf("jwt: account is required")
	}

	expiresAt := issuedAt.Add(s.ttl)
	claims := AccessClaims{
		Email:  account.Email,
		RoleID: account.RoleID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return port.AccessToken{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return port.AccessToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates signature, issuer and expiry at the given instant.
func (s *HMACSigner) Parse(raw string, at time.Time) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return at }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	return claims, nil
}

var _ port.AccessTokenSigner = (*HMACSigner)(nil)
