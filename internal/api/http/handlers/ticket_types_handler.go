package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bsm-kit/ticketview-service/internal/api/dto"
	"github.com/bsm-kit/ticketview-service/internal/auth"
	"github.com/bsm-kit/ticketview-service/internal/service"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// TicketTypesHandler serves the ticket type registry.
type TicketTypesHandler struct {
	registry *service.RegistryService
}

// NewTicketTypesHandler constructs handler.
func NewTicketTypesHandler(registry *service.RegistryService) *TicketTypesHandler {
	return &TicketTypesHandler{registry: registry}
}

// List GET /ticket-types.
func (h *TicketTypesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.registry.List(c.Context(), principal.OrgID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TicketTypeResponse{
			ID:         entry.ID,
			Label:      entry.Label,
			ColorToken: entry.ColorToken,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
