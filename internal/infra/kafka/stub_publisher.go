package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/infra/logger"
)

// StubPublisher logs events instead of sending them. Used when no brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

func NewStubPublisher(lg *zap.Logger) *StubPublisher {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &StubPublisher{logger: lg}
}

func (p *StubPublisher) log(eventType, accountID string, fields ...zap.Field) {
	p.logger.Info("stub event published",
		append([]zap.Field{zap.String("event_type", eventType), zap.String("account_id", accountID)}, fields...)...)
}

func (p *StubPublisher) PublishAccountCreated(_ context.Context, event domain.AccountCreatedEvent) error {
	p.log(EventAccountCreated, event.AccountID, zap.String("email", logger.MaskEmail(event.Email)), zap.String("role_id", event.RoleID))
	return nil
}

func (p *StubPublisher) PublishAccountDeleted(_ context.Context, event domain.AccountDeletedEvent) error {
	p.log(EventAccountDeleted, event.AccountID)
	return nil
}

func (p *StubPublisher) PublishAccountRoleChanged(_ context.Context, event domain.AccountRoleChangedEvent) error {
	p.log(EventAccountRoleChanged, event.AccountID, zap.String("previous_role_id", event.PreviousRoleID), zap.String("role_id", event.RoleID))
	return nil
}

func (p *StubPublisher) PublishAccountConfirmed(_ context.Context, event domain.AccountConfirmedEvent) error {
	p.log(EventAccountConfirmed, event.AccountID)
	return nil
}

func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.log(EventPasswordChanged, event.AccountID)
	return nil
}

// PublishAccountMailRequested never logs the token itself.
func (p *StubPublisher) PublishAccountMailRequested(_ context.Context, event domain.AccountMailRequestedEvent) error {
	p.log(EventAccountMailRequested, event.AccountID,
		zap.String("email", logger.MaskEmail(event.Email)),
		zap.String("type", string(event.Type)),
		zap.Time("expires_at", event.ExpiresAt),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
