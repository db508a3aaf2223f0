package events

import (
	"time"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketUpdated     EventType = "ticket_updated"
	EventTicketDeleted     EventType = "ticket_deleted"
	EventTicketMoved       EventType = "ticket_moved"
	EventTicketBulkDeleted EventType = "ticket_bulk_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrgID     string      `json:"org_id"`
	TicketID  string      `json:"ticket_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DisplayID string                `json:"display_id"`
	Type      domain.TicketType     `json:"type"`
	Priority  domain.TicketPriority `json:"priority"`
	Title     string                `json:"title"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	DisplayID string `json:"display_id"`
}

// TicketMovedPayload payload.
type TicketMovedPayload struct {
	Dimension  string `json:"dimension"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
}

// TicketBulkDeletedPayload payload.
type TicketBulkDeletedPayload struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
