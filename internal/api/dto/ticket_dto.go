package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Category and priority are optional; when
// missing or when auto_classify is set the assistant fills them in.
type CreateTicketRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     domain.Category `json:"category"`
	Priority     domain.Priority `json:"priority"`
	Location     *string         `json:"location"`
	AutoClassify bool            `json:"auto_classify"`
}

// UpdateStatusRequest payload for IT status changes.
type UpdateStatusRequest struct {
	Status          domain.TicketStatus `json:"status"`
	ResolutionNotes string              `json:"resolution_notes"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Comment    string `json:"comment"`
	IsInternal bool   `json:"is_internal"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID              string                 `json:"id"`
	ExternalKey     string                 `json:"external_key"`
	UserID          string                 `json:"user_id"`
	AssignedTo      *string                `json:"assigned_to"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Category        domain.Category        `json:"category"`
	Priority        domain.Priority        `json:"priority"`
	Status          domain.TicketStatus    `json:"status"`
	Location        *string                `json:"location"`
	UrgencyFlag     bool                   `json:"urgency_flag"`
	AISuggestions   *domain.Classification `json:"ai_suggestions"`
	ResolutionNotes *string                `json:"resolution_notes"`
	ResolvedAt      *time.Time             `json:"resolved_at"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CommentResponse represents one thread comment.
type CommentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Comment    string    `json:"comment"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	ChangedByID *string                 `json:"changed_by_id"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		ExternalKey:     t.ExternalKey,
		UserID:          t.UserID,
		AssignedTo:      t.AssignedTo,
		Title:           t.Title,
		Description:     t.Description,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		Location:        t.Location,
		UrgencyFlag:     t.UrgencyFlag,
		AISuggestions:   t.AISuggestions,
		ResolutionNotes: t.ResolutionNotes,
		ResolvedAt:      t.ResolvedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket page.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Comment:    c.Comment,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

// NewCommentResponses maps a comment thread.
func NewCommentResponses(comments []domain.TicketComment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}

// NewHistoryResponses maps the audit trail.
func NewHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	out := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TicketHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return out
}
