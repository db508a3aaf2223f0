package domain

import "time"

// TicketType classifies the nature of a request.
type TicketType string

const (
	TicketTypeIncident     TicketType = "incident"
	TicketTypeRequest      TicketType = "request"
	TicketTypeProblem      TicketType = "problem"
	TicketTypeChange       TicketType = "change"
	TicketTypeGeneralQuery TicketType = "general_query"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityUrgent   TicketPriority = "urgent"
	TicketPriorityCritical TicketPriority = "critical"
)

// TicketStatus enumerates workflow states. Any status is reachable from any
// other; there is no transition table.
type TicketStatus string

const (
	TicketStatusNew               TicketStatus = "new"
	TicketStatusInProgress        TicketStatus = "in_progress"
	TicketStatusWaitingOnYou      TicketStatus = "waiting_on_you"
	TicketStatusWaitingOnCustomer TicketStatus = "waiting_on_customer"
	TicketStatusOnHold            TicketStatus = "on_hold"
	TicketStatusDone              TicketStatus = "done"
)

// TicketCategory is a coarse business grouping derived from type and tags.
// It is never stored on the ticket itself.
type TicketCategory string

const (
	CategoryTechnical TicketCategory = "technical"
	CategoryBilling   TicketCategory = "billing"
	CategoryGeneral   TicketCategory = "general"
	CategoryFeature   TicketCategory = "feature"
)

// BillingTag marks request tickets that belong to the billing category.
const BillingTag = "billing"

// Ticket is the aggregate for tracked work items.
type Ticket struct {
	DBID        string
	DisplayID   string
	OrgID       string
	Type        TicketType
	Priority    TicketPriority
	Status      TicketStatus
	RequesterID string
	AssigneeIDs []string
	Title       string
	Description string
	Tags        []string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Hydrated relations; nil when the store did not resolve them.
	Requester *Person
	Assignees []Person
}

// PrimaryAssigneeID returns the first assignee id, or empty when unassigned.
func (t *Ticket) PrimaryAssigneeID() string {
	if len(t.AssigneeIDs) == 0 {
		return ""
	}
	return t.AssigneeIDs[0]
}

// HasTag reports whether the ticket carries the given tag.
func (t *Ticket) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
