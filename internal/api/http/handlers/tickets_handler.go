package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bsm-kit/ticketview-service/internal/api/dto"
	"github.com/bsm-kit/ticketview-service/internal/auth"
	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/service"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// TicketsHandler manages the ticket store endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Type:        req.Type,
		Priority:    req.Priority,
		Status:      req.Status,
		RequesterID: req.RequesterID,
		AssigneeIDs: req.AssigneeIDs,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	}
	ticket, err := h.service.CreateTicket(c.Context(), principal.OrgID, principal.Person.ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input := parseTicketListQuery(c)
	tickets, total, err := h.service.ListTickets(c.Context(), principal.OrgID, input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{Items: items, Total: total}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicket(c.Context(), principal.OrgID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketUpdateInput{
		Type:         req.Type,
		Priority:     req.Priority,
		Status:       req.Status,
		RequesterID:  req.RequesterID,
		AssigneeIDs:  req.AssigneeIDs,
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
	ticket, err := h.service.UpdateTicket(c.Context(), principal.OrgID, principal.Person.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteTicket(c.Context(), principal.OrgID, principal.Person.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDelete POST /tickets/bulk-delete.
func (h *TicketsHandler) BulkDelete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("ticket_ids required", nil)
	}
	result := h.service.BulkDelete(c.Context(), principal.OrgID, principal.Person.ID, req.TicketIDs)
	failures := make([]dto.BulkDeleteFailure, 0, len(result.Failures))
	for _, failure := range result.Failures {
		failures = append(failures, dto.BulkDeleteFailure{TicketID: failure.TicketID, Reason: failure.Reason})
	}
	return c.JSON(fiber.Map{"data": dto.BulkDeleteResponse{Deleted: result.Deleted, Failures: failures}})
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListInput {
	input := service.TicketListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			input.Priorities = append(input.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			input.Types = append(input.Types, domain.TicketType(strings.TrimSpace(part)))
		}
	}
	input.RequesterIDs = splitIDs(c.Query("requester_ids"))
	input.AssigneeIDs = splitIDs(c.Query("assignee_ids"))
	if search := c.Query("search"); search != "" {
		input.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		input.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		input.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func splitIDs(val string) []string {
	if val == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:          ticket.DBID,
		DisplayID:   ticket.DisplayID,
		Type:        ticket.Type,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		RequesterID: ticket.RequesterID,
		AssigneeIDs: ticket.AssigneeIDs,
		Title:       ticket.Title,
		Description: ticket.Description,
		Tags:        ticket.Tags,
		DueDate:     ticket.DueDate,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Requester != nil {
		requester := personResponse(*ticket.Requester)
		resp.Requester = &requester
	}
	for _, assignee := range ticket.Assignees {
		resp.Assignees = append(resp.Assignees, personResponse(assignee))
	}
	return resp
}

func personResponse(person domain.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:          person.ID,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		DisplayName: person.DisplayName,
		Email:       person.Email,
	}
}
