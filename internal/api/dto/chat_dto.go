package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ChatRequest is one message typed into the assistant. UserID defaults to
// the caller; only IT staff may submit on behalf of someone else.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// ChatHistoryItem is one stored assistant exchange. Response carries the
// assistant's structured reply as it was returned at the time.
type ChatHistoryItem struct {
	ID              string          `json:"id"`
	Message         string          `json:"message"`
	Response        json.RawMessage `json:"response"`
	CreatedTicketID *string         `json:"created_ticket_id"`
	SuggestedKBID   *string         `json:"suggested_kb_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewChatHistory maps the chat log. Replies stored as plain text are
// re-encoded as JSON strings.
func NewChatHistory(messages []domain.ChatMessage) []ChatHistoryItem {
	out := make([]ChatHistoryItem, 0, len(messages))
	for _, m := range messages {
		response := json.RawMessage(m.Response)
		if !json.Valid(response) {
			response, _ = json.Marshal(m.Response)
		}
		out = append(out, ChatHistoryItem{
			ID:              m.ID,
			Message:         m.Message,
			Response:        response,
			CreatedTicketID: m.CreatedTicketID,
			SuggestedKBID:   m.SuggestedKBID,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out
}
