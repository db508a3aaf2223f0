package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bsm-kit/ticketview-service/internal/api/dto"
	"github.com/bsm-kit/ticketview-service/internal/auth"
	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/service"
	"github.com/bsm-kit/ticketview-service/internal/view"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// ViewsHandler serves derived ticket views and kanban operations.
type ViewsHandler struct {
	views *service.ViewService
}

// NewViewsHandler constructs handler.
func NewViewsHandler(viewService *service.ViewService) *ViewsHandler {
	return &ViewsHandler{views: viewService}
}

// Refresh POST /views/refresh.
func (h *ViewsHandler) Refresh(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	meta, err := h.views.Refresh(c.Context(), principal.OrgID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": viewMetaResponse(meta)})
}

// ListView GET /views/list.
func (h *ViewsHandler) ListView(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseFacetQuery(c)
	groupBy := view.GroupKey(c.Query("group_by", string(view.GroupByNone)))

	groups, meta, err := h.views.ListView(c.Context(), principal.OrgID, filter, groupBy)
	if err != nil {
		return err
	}
	resp := dto.ListViewResponse{Meta: viewMetaResponse(meta)}
	for _, group := range groups {
		resp.Groups = append(resp.Groups, dto.GroupResponse{
			Label:   group.Label,
			Tickets: displayTicketResponses(group.Tickets),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Kanban GET /views/kanban.
func (h *ViewsHandler) Kanban(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseFacetQuery(c)
	dim := view.KanbanDimension(c.Query("group_by", string(view.KanbanByStatus)))

	board, meta, err := h.views.KanbanView(c.Context(), principal.OrgID, filter, dim)
	if err != nil {
		return err
	}
	resp := dto.KanbanResponse{Dimension: string(board.Dimension), Meta: viewMetaResponse(meta)}
	for _, column := range board.Columns {
		resp.Columns = append(resp.Columns, dto.ColumnResponse{
			ID:         column.ID,
			Label:      column.Label,
			ColorToken: column.ColorToken,
			Tickets:    displayTicketResponses(column.Tickets),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Move POST /views/kanban/move.
func (h *ViewsHandler) Move(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.MoveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.Dimension == "" || req.Column == "" {
		return apperrors.NewValidationError("ticket_id, dimension, column required", nil)
	}
	ticket, err := h.views.MoveTicket(c.Context(), principal.OrgID, principal.Person.ID, req.TicketID, view.KanbanDimension(req.Dimension), req.Column)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// parseFacetQuery reads the facet filter state from query parameters. Both
// the legacy single-select (type/priority/status) and the multi-select CSV
// forms (types/priorities/statuses) are accepted.
func parseFacetQuery(c *fiber.Ctx) view.FacetFilter {
	filter := view.FacetFilter{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	}
	for _, part := range splitIDs(c.Query("types")) {
		filter.Types = append(filter.Types, domain.TicketType(part))
	}
	for _, part := range splitIDs(c.Query("priorities")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(part))
	}
	for _, part := range splitIDs(c.Query("statuses")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	filter.AssigneeIDs = splitIDs(c.Query("assignee_ids"))
	filter.RequesterIDs = splitIDs(c.Query("requester_ids"))
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	return filter
}

func displayTicketResponses(tickets []view.DisplayTicket) []dto.DisplayTicketResponse {
	result := make([]dto.DisplayTicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, displayTicketResponse(&tickets[i]))
	}
	return result
}

func displayTicketResponse(t *view.DisplayTicket) dto.DisplayTicketResponse {
	resp := dto.DisplayTicketResponse{
		ID:           t.DBID,
		DisplayID:    t.DisplayID,
		Type:         t.Type,
		Priority:     t.Priority,
		Status:       t.Status,
		Title:        t.Title,
		Description:  t.Description,
		Tags:         t.Tags,
		Requester:    displayPersonResponse(t.Requester),
		DueDate:      t.DueDate,
		DueDateLabel: t.DueDateLabel,
		CreatedAt:    t.CreatedAt,
	}
	for _, assignee := range t.Assignees {
		resp.Assignees = append(resp.Assignees, displayPersonResponse(assignee))
	}
	if t.PrimaryAssignee != nil {
		primary := displayPersonResponse(*t.PrimaryAssignee)
		resp.PrimaryAssignee = &primary
	}
	return resp
}

func displayPersonResponse(p view.DisplayPerson) dto.DisplayPersonResponse {
	return dto.DisplayPersonResponse{
		ID:       p.ID,
		Name:     p.Name,
		Initials: p.Initials,
		Color:    p.Color,
	}
}

func viewMetaResponse(meta service.ViewMeta) dto.ViewMetaResponse {
	return dto.ViewMetaResponse{
		Total:     meta.Total,
		Matched:   meta.Matched,
		FetchedAt: meta.FetchedAt,
		Stale:     meta.Stale,
	}
}
