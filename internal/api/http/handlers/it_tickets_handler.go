package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ITTicketsHandler serves the IT staff queue.
type ITTicketsHandler struct {
	tickets TicketWorkflow
}

// NewITTicketsHandler constructs handler.
func NewITTicketsHandler(ticketService TicketWorkflow) *ITTicketsHandler {
	return &ITTicketsHandler{tickets: ticketService}
}

// ListTickets GET /api/it/tickets.
func (h *ITTicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListAllTickets(c.UserContext(), parseTicketFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// GetTicket GET /api/it/tickets/:id.
func (h *ITTicketsHandler) GetTicket(c *fiber.Ctx) error {
	staff, err := currentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), staff, c.Params("id"))
	if err != nil {
		return err
	}
	comments, err := h.tickets.ListComments(c.UserContext(), staff, ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket":   dto.NewTicketResponse(ticket),
		"comments": dto.NewCommentResponses(comments),
	}})
}

// UpdateStatus PATCH /api/it/tickets/:id/status.
func (h *ITTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	staff, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.UserContext(), staff, c.Params("id"), req.Status, req.ResolutionNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Assign POST /api/it/tickets/:id/assign.
func (h *ITTicketsHandler) Assign(c *fiber.Ctx) error {
	staff, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	ticket, err := h.tickets.Assign(c.UserContext(), staff, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// SelfAssign POST /api/it/tickets/:id/self-assign.
func (h *ITTicketsHandler) SelfAssign(c *fiber.Ctx) error {
	staff, err := currentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.SelfAssign(c.UserContext(), staff, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// History GET /api/it/tickets/:id/history.
func (h *ITTicketsHandler) History(c *fiber.Ctx) error {
	staff, err := currentUser(c)
	if err != nil {
		return err
	}
	history, err := h.tickets.ListHistory(c.UserContext(), staff, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponses(history)})
}
