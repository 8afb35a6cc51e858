package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.TicketCommentRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	classifier classifier.Classifier
	points     PointsAwarder
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.TicketCommentRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	Classifier  classifier.Classifier
	Points      PointsAwarder
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Category     domain.Category
	Priority     domain.Priority
	Location     *string
	AutoClassify bool
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Categories []domain.Category
	Priorities []domain.Priority
	AssignedTo *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		classifier: deps.Classifier,
		points:     deps.Points,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTicket opens a ticket for the actor. When auto-classification is
// requested, or no category was given, the classifier fills in category and
// priority and its full result is kept as the ticket's AI suggestions.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if input.Category != "" && !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		UserID:      actor.ID,
		Title:       title,
		Description: description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		Location:    input.Location,
	}

	if s.classifier != nil && (input.AutoClassify || input.Category == "") {
		suggestion := s.classifier.Classify(ctx, domain.IssueMessage{
			Text:        title + "\n" + description,
			SubmittedBy: actor.ID,
		})
		ticket.AISuggestions = &suggestion
		if ticket.Category == "" {
			ticket.Category = suggestion.Category
		}
		if ticket.Priority == "" {
			ticket.Priority = suggestion.Priority
		}
	}
	if ticket.Category == "" {
		ticket.Category = domain.CategoryOther
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}
	ticket.UrgencyFlag = ticket.Priority == domain.PriorityUrgent

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			ExternalKey: ticket.ExternalKey,
			Title:       ticket.Title,
			Category:    ticket.Category,
			Priority:    ticket.Priority,
			UrgencyFlag: ticket.UrgencyFlag,
		},
	})
	awardQuietly(ctx, s.points, s.logger, actor.ID, domain.EventTicketCreated, "Created ticket "+ticket.ExternalKey)
	return ticket, nil
}

// ListUserTickets returns the requester's tickets, newest first.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := toRepoFilter(filter)
	repoFilter.UserID = &userID
	repoFilter.AssignedTo = nil
	return s.listTickets(ctx, repoFilter)
}

// ListAllTickets returns every ticket matching the filter, for IT staff.
func (s *TicketService) ListAllTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.listTickets(ctx, toRepoFilter(filter))
}

// GetTicket fetches a ticket the actor may see: their own, or any for IT staff.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// UpdateStatus moves a ticket through its lifecycle.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, notes string) (*domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	switch newStatus {
	case domain.TicketStatusResolved:
		now := s.now()
		ticket.ResolvedAt = &now
		if notes = strings.TrimSpace(notes); notes != "" {
			ticket.ResolutionNotes = &notes
		}
	case domain.TicketStatusOpen, domain.TicketStatusInProgress:
		ticket.ResolvedAt = nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.recordChange(ctx, actor, ticket.ID, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": newStatus, "notes": notes},
	); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketStatusChangedPayload{
			ExternalKey: ticket.ExternalKey,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			Notes:       notes,
		},
	})
	if newStatus == domain.TicketStatusResolved {
		awardQuietly(ctx, s.points, s.logger, actor.ID, domain.EventTicketResolved, "Resolved ticket "+ticket.ExternalKey)
	}
	return ticket, nil
}

// Assign hands a ticket to an IT staff member.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	assignee := actor
	if assigneeID != actor.ID {
		var err error
		assignee, err = s.users.GetByID(ctx, assigneeID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidationError("assignee not found", map[string]any{"assignee_id": assigneeID})
			}
			return nil, err
		}
	}
	if !assignee.Role.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be IT staff", map[string]any{"assignee_id": assigneeID})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket is closed", nil)
	}

	oldAssignee := ticket.AssignedTo
	id := assignee.ID
	ticket.AssignedTo = &id
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.recordChange(ctx, actor, ticket.ID, domain.ChangeTypeAssignee,
		map[string]any{"assigned_to": oldAssignee},
		map[string]any{"assigned_to": id},
	); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketAssignedPayload{
			ExternalKey: ticket.ExternalKey,
			OldAssignee: oldAssignee,
			NewAssignee: id,
		},
	})
	return ticket, nil
}

// SelfAssign assigns the ticket to the acting staff member and starts work on
// it when it is still open.
func (s *TicketService) SelfAssign(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.Assign(ctx, actor, ticketID, actor.ID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusOpen {
		return ticket, nil
	}
	return s.UpdateStatus(ctx, actor, ticketID, domain.TicketStatusInProgress, "")
}

// AddComment appends a comment. Employees may only post public comments on
// their own tickets.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, body string, internal bool) (*domain.TicketComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment is required", nil)
	}
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if internal && !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("only IT staff can post internal comments")
	}

	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		UserID:     actor.ID,
		Comment:    body,
		IsInternal: internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			IsInternal:  comment.IsInternal,
			BodyPreview: stringPreview(comment.Comment, 120),
		},
	})
	return comment, nil
}

// ListComments returns the thread, hiding internal comments from non-staff.
func (s *TicketService) ListComments(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID, actor.Role.IsStaff())
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.TicketComment{}
	}
	return comments, nil
}

// ListHistory returns the audit trail of a ticket for IT staff.
func (s *TicketService) ListHistory(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketHistory, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.TicketHistory{}
	}
	return history, nil
}

func (s *TicketService) listTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (s *TicketService) recordChange(ctx context.Context, actor *domain.User, ticketID string, changeType domain.TicketChangeType, oldValue, newValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	actorID := actor.ID
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: &actorID,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

func toRepoFilter(filter TicketListFilter) repository.TicketFilter {
	return repository.TicketFilter{
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
}

func canView(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil {
		return false
	}
	return actor.Role.IsStaff() || ticket.UserID == actor.ID
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusOpen, domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
