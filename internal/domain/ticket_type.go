package domain

// TicketTypeEntry is one row of the configured ticket type registry. The
// registry drives the type-based kanban column set.
type TicketTypeEntry struct {
	ID         string
	Label      string
	ColorToken string
}
