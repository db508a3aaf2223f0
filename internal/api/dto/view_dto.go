package dto

import (
	"time"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// DisplayPersonResponse is the flattened person shape on view responses.
type DisplayPersonResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// DisplayTicketResponse is the flattened ticket shape views return.
type DisplayTicketResponse struct {
	ID              string                  `json:"id"`
	DisplayID       string                  `json:"display_id"`
	Type            domain.TicketType       `json:"type"`
	Priority        domain.TicketPriority   `json:"priority"`
	Status          domain.TicketStatus     `json:"status"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Tags            []string                `json:"tags"`
	Requester       DisplayPersonResponse   `json:"requester"`
	Assignees       []DisplayPersonResponse `json:"assignees"`
	PrimaryAssignee *DisplayPersonResponse  `json:"primary_assignee"`
	DueDate         *time.Time              `json:"due_date"`
	DueDateLabel    string                  `json:"due_date_label"`
	CreatedAt       time.Time               `json:"created_at"`
}

// GroupResponse is one bucket of the grouped list view.
type GroupResponse struct {
	Label   string                  `json:"label"`
	Tickets []DisplayTicketResponse `json:"tickets"`
}

// ViewMetaResponse describes the backing collection.
type ViewMetaResponse struct {
	Total     int       `json:"total"`
	Matched   int       `json:"matched"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}

// ListViewResponse is the grouped list view.
type ListViewResponse struct {
	Groups []GroupResponse  `json:"groups"`
	Meta   ViewMetaResponse `json:"meta"`
}

// ColumnResponse is one kanban lane.
type ColumnResponse struct {
	ID         string                  `json:"id"`
	Label      string                  `json:"label"`
	ColorToken string                  `json:"color_token,omitempty"`
	Tickets    []DisplayTicketResponse `json:"tickets"`
}

// KanbanResponse is the projected board.
type KanbanResponse struct {
	Dimension string           `json:"dimension"`
	Columns   []ColumnResponse `json:"columns"`
	Meta      ViewMetaResponse `json:"meta"`
}

// MoveTicketRequest payload for kanban column reassignment.
type MoveTicketRequest struct {
	TicketID  string `json:"ticket_id"`
	Dimension string `json:"dimension"`
	Column    string `json:"column"`
}

// TicketTypeResponse is one registry entry.
type TicketTypeResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	ColorToken string `json:"color_token"`
}
