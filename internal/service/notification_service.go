package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/observability"
)

// NotificationService records an audit trail for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleAudit)
	n.dispatcher.Subscribe(events.EventMessageReceived, n.handleAudit)
	n.dispatcher.Subscribe(events.EventMessageReplied, n.handleMessageReplied)
	n.dispatcher.Subscribe(events.EventMessageDeleted, n.handleAudit)
	n.dispatcher.Subscribe(events.EventDashboardUpdated, n.handleAudit)
}

func (n *NotificationService) handleAudit(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleMessageReplied(ctx context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.MessageRepliedPayload); ok {
		n.metrics.RecordEmail(payload.EmailSent)
	}
	return n.handleAudit(ctx, event)
}
