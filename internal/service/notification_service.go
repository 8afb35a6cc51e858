package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

// Outbox accepts messages for asynchronous delivery to the IT channel.
type Outbox interface {
	Enqueue(text string) bool
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	outbox     Outbox
	logger     *zap.Logger
}

// NewNotificationService creates the service. A nil outbox only logs.
func NewNotificationService(dispatcher events.Dispatcher, outbox Outbox, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		outbox:     outbox,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
	n.dispatcher.Subscribe(events.EventChatEscalated, n.handleChatEscalated)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if payload.Priority != domain.PriorityHigh && payload.Priority != domain.PriorityUrgent {
		return nil
	}
	n.send(fmt.Sprintf("🚨 New %s ticket %s\nCategory: %s\nTitle: %s",
		strings.ToUpper(string(payload.Priority)), payload.ExternalKey, payload.Category, payload.Title))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	n.logger.Info("TicketAssigned", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCommentAdded", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleChatEscalated(_ context.Context, event events.Event) error {
	n.logger.Info("ChatEscalated", zap.String("user_id", event.Actor.UserID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.ChatEscalatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.send(fmt.Sprintf("💬 Assistant escalated a %s/%s issue\n%s",
		payload.Category, payload.Priority, payload.Message))
	return nil
}

func (n *NotificationService) send(text string) {
	if n.outbox == nil {
		return
	}
	n.outbox.Enqueue(text)
}
