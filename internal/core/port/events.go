package port

import (
	"context"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
)

// EventPublisher sends account lifecycle messages to the queue. Delivery is fire and forget.
type EventPublisher interface {
	PublishAccountCreated(ctx context.Context, event domain.AccountCreatedEvent) error
	PublishAccountDeleted(ctx context.Context, event domain.AccountDeletedEvent) error
	PublishAccountRoleChanged(ctx context.Context, event domain.AccountRoleChangedEvent) error
	PublishAccountConfirmed(ctx context.Context, event domain.AccountConfirmedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishAccountMailRequested(ctx context.Context, event domain.AccountMailRequestedEvent) error
}
