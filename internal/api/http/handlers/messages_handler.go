package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/green-campus/internal/api/dto"
	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/service"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// MessagesHandler manages contact messages and replies.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// Send POST /api/messages/send.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing required fields", nil)
	}
	msg, err := h.service.Send(c.UserContext(), service.SendMessageInput{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Subject:   req.Subject,
		Body:      req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":    "Message sent successfully",
		"message_id": msg.ID,
	})
}

// List GET /api/messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": dto.NewMessageList(msgs)})
}

// Get GET /api/messages/:id.
func (h *MessagesHandler) Get(c *fiber.Ctx) error {
	msg, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": dto.NewMessageResponse(*msg)})
}

// Reply POST /api/messages/:id/reply.
func (h *MessagesHandler) Reply(c *fiber.Ctx) error {
	identity, err := adminIdentity(c, "Unauthorized")
	if err != nil {
		return err
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Reply text required", nil)
	}
	result, err := h.service.Reply(c.UserContext(), c.Params("id"), req.ReplyText, identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Reply sent successfully",
		"email_sent": result.EmailSent,
	})
}

// Delete DELETE /api/messages/:id.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), c.Params("id"), identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Message deleted successfully"})
}

// MarkRead PUT /api/messages/:id/read.
func (h *MessagesHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Message marked as read"})
}

// adminIdentity rejects non-admin callers before the request body is looked at.
func adminIdentity(c *fiber.Ctx, denied string) (domain.Identity, error) {
	identity, err := callerIdentity(c)
	if err != nil {
		return domain.Identity{}, err
	}
	if !identity.IsAdmin() {
		return domain.Identity{}, apperrors.NewForbidden(denied)
	}
	return identity, nil
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}
