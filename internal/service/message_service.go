package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/config"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/events"
	"github.com/spec-kit/green-campus/internal/mailer"
	"github.com/spec-kit/green-campus/internal/repository"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// SendMessageInput is a contact-form submission.
type SendMessageInput struct {
	UserName  string
	UserEmail string
	Subject   string
	Body      string
}

// ReplyResult reports the outcome of an admin reply.
type ReplyResult struct {
	Message   *domain.Message
	EmailSent bool
}

// MessageService coordinates contact messages and admin replies.
type MessageService struct {
	messages   repository.MessageRepository
	mailer     mailer.Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	MessageRepo repository.MessageRepository
	Mailer      mailer.Mailer
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := deps.Mailer
	if m == nil {
		m = mailer.New(config.MailConfig{})
	}
	return &MessageService{
		messages:   deps.MessageRepo,
		mailer:     m,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Send stores a new unread message. It needs no authentication.
func (s *MessageService) Send(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	msg := &domain.Message{
		UserName:  strings.TrimSpace(input.UserName),
		UserEmail: strings.TrimSpace(input.UserEmail),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      strings.TrimSpace(input.Body),
		Status:    domain.MessageStatusUnread,
		Replies:   []domain.Reply{},
	}

	var missing []string
	for field, value := range map[string]string{
		"user_name":  msg.UserName,
		"user_email": msg.UserEmail,
		"subject":    msg.Subject,
		"message":    msg.Body,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, apperrors.NewValidationError("Missing required fields", map[string]any{"missing": missing})
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventMessageReceived, msg.ID, msg.UserEmail,
		events.MessageReceivedPayload{UserEmail: msg.UserEmail, Subject: msg.Subject}))
	return msg, nil
}

// List returns every message for admins and only the caller's own messages for users.
func (s *MessageService) List(ctx context.Context, caller domain.Identity) ([]domain.Message, error) {
	if !caller.Role.Valid() {
		return nil, apperrors.NewForbidden("Unauthorized - Invalid role")
	}
	all, err := s.messages.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if caller.IsAdmin() {
		return all, nil
	}

	own := make([]domain.Message, 0, len(all))
	for _, msg := range all {
		if msg.UserEmail == caller.Email {
			own = append(own, msg)
		}
	}
	return own, nil
}

// Get returns a single message. Any authenticated caller may read any message.
func (s *MessageService) Get(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return msg, nil
}

// Reply appends an admin reply and emails it to the sender on a best-effort basis.
func (s *MessageService) Reply(ctx context.Context, id, text string, caller domain.Identity) (*ReplyResult, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("Unauthorized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("Reply text required", nil)
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	reply := domain.NewReply(text)
	if err := s.messages.AppendReply(ctx, id, reply); err != nil {
		return nil, s.mapLookupError(err, id)
	}
	msg.Replies = append(msg.Replies, reply)
	msg.Status = domain.MessageStatusReplied

	emailSent := true
	if err := s.mailer.SendReply(ctx, mailer.ReplyNotification{
		ToEmail:   msg.UserEmail,
		ToName:    msg.UserName,
		Subject:   msg.Subject,
		ReplyText: text,
	}); err != nil {
		emailSent = false
		s.logger.Warn("reply email not sent", zap.String("message_id", id), zap.Error(err))
	}

	s.publish(ctx, events.NewEvent(events.EventMessageReplied, id, caller.Email, events.MessageRepliedPayload{
		UserEmail:   msg.UserEmail,
		ReplyCount:  len(msg.Replies),
		EmailSent:   emailSent,
		BodyPreview: preview(text, 80),
	}))
	return &ReplyResult{Message: msg, EmailSent: emailSent}, nil
}

// Delete removes a message. Admin only.
func (s *MessageService) Delete(ctx context.Context, id string, caller domain.Identity) error {
	if !caller.IsAdmin() {
		return apperrors.NewForbidden("Unauthorized")
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id)
	}
	s.publish(ctx, events.NewEvent(events.EventMessageDeleted, id, caller.Email, nil))
	return nil
}

// MarkRead flags a message as read. Unknown ids and replied messages are left alone.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *MessageService) mapLookupError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Message", map[string]any{"id": id})
	}
	return apperrors.NewInternalError(err)
}

func (s *MessageService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
