package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const maxChatMessageLen = 4000

// ChatResponder answers assistant messages.
type ChatResponder interface {
	HandleMessage(ctx context.Context, msg domain.IssueMessage) domain.ChatResponse
	History(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
}

// Limiter throttles callers by key.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// ChatHandler exposes the IT assistant.
type ChatHandler struct {
	chat    ChatResponder
	limiter Limiter
}

// NewChatHandler constructs handler. A nil limiter admits every request.
func NewChatHandler(chat ChatResponder, limiter Limiter) *ChatHandler {
	return &ChatHandler{chat: chat, limiter: limiter}
}

// Send POST /api/chat.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return apperrors.NewValidationError("message required", nil)
	}
	if utf8.RuneCountInString(message) > maxChatMessageLen {
		return apperrors.NewValidationError("message too long", map[string]any{"max_length": maxChatMessageLen})
	}
	submittedBy := user.ID
	if req.UserID != "" && req.UserID != user.ID {
		if !user.Role.IsStaff() {
			return apperrors.NewForbidden("cannot send messages for another user")
		}
		submittedBy = req.UserID
	}
	if h.limiter != nil && !h.limiter.Allow(c.UserContext(), user.ID) {
		return apperrors.NewRateLimited("too many messages, please wait a minute")
	}

	// The assistant reply is returned bare, without the data envelope.
	resp := h.chat.HandleMessage(c.UserContext(), domain.IssueMessage{Text: message, SubmittedBy: submittedBy})
	return c.JSON(resp)
}

// History GET /api/chat/history.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	limit := parseInt(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	history, err := h.chat.History(c.UserContext(), user.ID, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChatHistory(history)})
}
