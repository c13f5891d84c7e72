package port

import (
	"context"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
)

// AvatarGateway stores one avatar per account and returns its public url.
type AvatarGateway interface {
	Save(ctx context.Context, accountID domain.AccountID, resource domain.Resource) (string, error)
	Delete(ctx context.Context, accountID domain.AccountID) error
}
