package dto

import (
	"time"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Type        domain.TicketType     `json:"type"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	RequesterID string                `json:"requester_id"`
	AssigneeIDs []string              `json:"assignee_ids"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Tags        []string              `json:"tags"`
	DueDate     *time.Time            `json:"due_date"`
}

// UpdateTicketRequest carries a partial update; omitted fields stay as-is.
type UpdateTicketRequest struct {
	Type         *domain.TicketType     `json:"type"`
	Priority     *domain.TicketPriority `json:"priority"`
	Status       *domain.TicketStatus   `json:"status"`
	RequesterID  *string                `json:"requester_id"`
	AssigneeIDs  *[]string              `json:"assignee_ids"`
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Tags         *[]string              `json:"tags"`
	DueDate      *time.Time             `json:"due_date"`
	ClearDueDate bool                   `json:"clear_due_date"`
}

// BulkDeleteRequest payload.
type BulkDeleteRequest struct {
	TicketIDs []string `json:"ticket_ids"`
}

// BulkDeleteFailure reports one failed deletion.
type BulkDeleteFailure struct {
	TicketID string `json:"ticket_id"`
	Reason   string `json:"reason"`
}

// BulkDeleteResponse aggregates bulk delete outcomes.
type BulkDeleteResponse struct {
	Deleted  int                 `json:"deleted"`
	Failures []BulkDeleteFailure `json:"failures"`
}

// PersonResponse is the raw relation shape on ticket responses.
type PersonResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// TicketResponse is the full stored ticket shape.
type TicketResponse struct {
	ID          string                `json:"id"`
	DisplayID   string                `json:"display_id"`
	Type        domain.TicketType     `json:"type"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	RequesterID string                `json:"requester_id"`
	AssigneeIDs []string              `json:"assignee_ids"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Tags        []string              `json:"tags"`
	DueDate     *time.Time            `json:"due_date"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Requester   *PersonResponse       `json:"requester,omitempty"`
	Assignees   []PersonResponse      `json:"assignees,omitempty"`
}

// TicketListResponse is a filtered page with its total count.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Total int              `json:"total"`
}
