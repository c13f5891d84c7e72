package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Kaua3045/ecommerce-users/internal/core/domain"
	"github.com/Kaua3045/ecommerce-users/internal/core/port"
	"github.com/Kaua3045/ecommerce-users/internal/infra/config"
)

const schemaVersion = "1.0"

// Event types double as topic suffixes.
const (
	EventAccountCreated       = "account.created"
	EventAccountDeleted       = "account.deleted"
	EventAccountRoleChanged   = "account.role.changed"
	EventAccountConfirmed     = "account.confirmed"
	EventPasswordChanged      = "account.password.changed"
	EventAccountMailRequested = "account.mail.requested"
)

// EventPublisher implements port.EventPublisher on top of Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	AccountID string            `json:"account_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now()
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	metadata := map[string]string{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
	}

	body, err := json.Marshal(eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(accountID),
		Value: sarama.ByteEncoder(body),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *EventPublisher) PublishAccountCreated(ctx context.Context, event domain.AccountCreatedEvent) error {
	payload := struct {
		AccountID string    `json:"account_id"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Email     string    `json:"email"`
		RoleID    string    `json:"role_id"`
		CreatedAt time.Time `json:"created_at"`
	}{event.AccountID, event.FirstName, event.LastName, event.Email, event.RoleID, event.CreatedAt.UTC()}

	return p.publish(ctx, event.EventID, EventAccountCreated, event.AccountID, event.CreatedAt, payload)
}

func (p *EventPublisher) PublishAccountDeleted(ctx context.Context, event domain.AccountDeletedEvent) error {
	payload := struct {
		AccountID string    `json:"account_id"`
		DeletedAt time.Time `json:"deleted_at"`
	}{event.AccountID, event.DeletedAt.UTC()}

	return p.publish(ctx, event.EventID, EventAccountDeleted, event.AccountID, event.DeletedAt, payload)
}

func (p *EventPublisher) PublishAccountRoleChanged(ctx context.Context, event domain.AccountRoleChangedEvent) error {
	payload := struct {
		AccountID      string    `json:"account_id"`
		PreviousRoleID string    `json:"previous_role_id,omitempty"`
		RoleID         string    `json:"role_id"`
		ChangedAt      time.Time `json:"changed_at"`
	}{event.AccountID, event.PreviousRoleID, event.RoleID, event.ChangedAt.UTC()}

	return p.publish(ctx, event.EventID, EventAccountRoleChanged, event.AccountID, event.ChangedAt, payload)
}

func (p *EventPublisher) PublishAccountConfirmed(ctx context.Context, event domain.AccountConfirmedEvent) error {
	payload := struct {
		AccountID   string    `json:"account_id"`
		ConfirmedAt time.Time `json:"confirmed_at"`
	}{event.AccountID, event.ConfirmedAt.UTC()}

	return p.publish(ctx, event.EventID, EventAccountConfirmed, event.AccountID, event.ConfirmedAt, payload)
}

func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		AccountID string    `json:"account_id"`
		ChangedAt time.Time `json:"changed_at"`
	}{event.AccountID, event.ChangedAt.UTC()}

	return p.publish(ctx, event.EventID, EventPasswordChanged, event.AccountID, event.ChangedAt, payload)
}

// PublishAccountMailRequested carries the raw token; the mail sender is the only consumer of this topic.
func (p *EventPublisher) PublishAccountMailRequested(ctx context.Context, event domain.AccountMailRequestedEvent) error {
	payload := struct {
		AccountID string    `json:"account_id"`
		Email     string    `json:"email"`
		FirstName string    `json:"first_name"`
		Type      string    `json:"type"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}{event.AccountID, event.Email, event.FirstName, string(event.Type), event.Token, event.ExpiresAt.UTC()}

	return p.publish(ctx, event.EventID, EventAccountMailRequested, event.AccountID, event.CreatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
