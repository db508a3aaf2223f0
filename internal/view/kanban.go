package view

import (
	"fmt"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// KanbanDimension selects which field drives the board's columns.
type KanbanDimension string

const (
	KanbanByType     KanbanDimension = "type"
	KanbanByStatus   KanbanDimension = "status"
	KanbanByPriority KanbanDimension = "priority"
	KanbanByCategory KanbanDimension = "category"
)

// Column is one ordered kanban lane.
type Column struct {
	ID         string
	Label      string
	ColorToken string
	Tickets    []DisplayTicket
}

// Board is the projected kanban view.
type Board struct {
	Dimension KanbanDimension
	Columns   []Column
}

type columnSpec struct {
	id    string
	label string
}

// Column sets for status, priority, and category are fixed ordered lists.
// The priority board deliberately has no critical lane.
var statusColumns = []columnSpec{
	{string(domain.TicketStatusNew), "New"},
	{string(domain.TicketStatusInProgress), "In Progress"},
	{string(domain.TicketStatusWaitingOnYou), "Waiting on You"},
	{string(domain.TicketStatusWaitingOnCustomer), "Waiting on Customer"},
	{string(domain.TicketStatusOnHold), "On Hold"},
	{string(domain.TicketStatusDone), "Done"},
}

var priorityColumns = []columnSpec{
	{string(domain.TicketPriorityUrgent), "Urgent"},
	{string(domain.TicketPriorityHigh), "High"},
	{string(domain.TicketPriorityMedium), "Medium"},
	{string(domain.TicketPriorityLow), "Low"},
}

var categoryColumns = []columnSpec{
	{string(domain.CategoryTechnical), "Technical"},
	{string(domain.CategoryBilling), "Billing"},
	{string(domain.CategoryGeneral), "General"},
	{string(domain.CategoryFeature), "Feature"},
}

// typeCategories maps ticket types onto business categories. Request
// tickets carrying the billing tag are overridden to the billing category.
var typeCategories = map[domain.TicketType]domain.TicketCategory{
	domain.TicketTypeIncident:     domain.CategoryTechnical,
	domain.TicketTypeProblem:      domain.CategoryTechnical,
	domain.TicketTypeRequest:      domain.CategoryGeneral,
	domain.TicketTypeChange:       domain.CategoryFeature,
	domain.TicketTypeGeneralQuery: domain.CategoryGeneral,
}

// categoryRepresentatives inverts typeCategories for column reassignment:
// category is not a stored field, so a move maps back to one
// representative type.
var categoryRepresentatives = map[domain.TicketCategory]domain.TicketType{
	domain.CategoryTechnical: domain.TicketTypeIncident,
	domain.CategoryBilling:   domain.TicketTypeRequest,
	domain.CategoryGeneral:   domain.TicketTypeGeneralQuery,
	domain.CategoryFeature:   domain.TicketTypeChange,
}

// CategoryOf derives the business category for a ticket.
func CategoryOf(t *DisplayTicket) domain.TicketCategory {
	return categoryFor(t.Type, t.Tags)
}

func categoryFor(ticketType domain.TicketType, tags []string) domain.TicketCategory {
	if ticketType == domain.TicketTypeRequest && hasTag(tags, domain.BillingTag) {
		return domain.CategoryBilling
	}
	category, ok := typeCategories[ticketType]
	if !ok {
		return domain.CategoryGeneral
	}
	return category
}

// ColumnIDForTicket returns the column a raw ticket currently belongs to on
// the given board dimension.
func ColumnIDForTicket(t *domain.Ticket, dim KanbanDimension) string {
	switch dim {
	case KanbanByType:
		return string(t.Type)
	case KanbanByStatus:
		return string(t.Status)
	case KanbanByPriority:
		return string(t.Priority)
	case KanbanByCategory:
		return string(categoryFor(t.Type, t.Tags))
	default:
		return ""
	}
}

// Project lays tickets out on the board for the given dimension. The type
// board's columns come from the supplied registry; the other boards use
// fixed column sets. Tickets matching no column are not shown.
func Project(tickets []DisplayTicket, dim KanbanDimension, registry []domain.TicketTypeEntry) (Board, error) {
	board := Board{Dimension: dim}
	switch dim {
	case KanbanByType:
		for _, entry := range registry {
			board.Columns = append(board.Columns, Column{
				ID:         entry.ID,
				Label:      entry.Label,
				ColorToken: entry.ColorToken,
			})
		}
	case KanbanByStatus:
		board.Columns = fixedColumns(statusColumns)
	case KanbanByPriority:
		board.Columns = fixedColumns(priorityColumns)
	case KanbanByCategory:
		board.Columns = fixedColumns(categoryColumns)
	default:
		return Board{}, apperrors.NewValidationError(fmt.Sprintf("unknown kanban dimension %q", dim), nil)
	}

	index := make(map[string]int, len(board.Columns))
	for i := range board.Columns {
		index[board.Columns[i].ID] = i
	}
	for i := range tickets {
		pos, ok := index[columnIDFor(&tickets[i], dim)]
		if !ok {
			continue
		}
		board.Columns[pos].Tickets = append(board.Columns[pos].Tickets, tickets[i])
	}
	return board, nil
}

func fixedColumns(specs []columnSpec) []Column {
	columns := make([]Column, 0, len(specs))
	for _, spec := range specs {
		columns = append(columns, Column{ID: spec.id, Label: spec.label})
	}
	return columns
}

func columnIDFor(t *DisplayTicket, dim KanbanDimension) string {
	switch dim {
	case KanbanByType:
		return string(t.Type)
	case KanbanByStatus:
		return string(t.Status)
	case KanbanByPriority:
		return string(t.Priority)
	case KanbanByCategory:
		return string(CategoryOf(t))
	default:
		return ""
	}
}

// FieldChange is the single-field mutation implied by dropping a ticket into
// a column. Category moves additionally adjust the billing tag so the
// forward mapping stays consistent.
type FieldChange struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Type       *domain.TicketType
	AddTags    []string
	RemoveTags []string
}

// ReassignmentFor resolves the mutation for moving a ticket into columnID on
// the given board dimension. For the type dimension the target column must
// exist in the registry.
func ReassignmentFor(dim KanbanDimension, columnID string, registry []domain.TicketTypeEntry) (FieldChange, error) {
	switch dim {
	case KanbanByStatus:
		if !specHasColumn(statusColumns, columnID) {
			return FieldChange{}, invalidColumn(dim, columnID)
		}
		status := domain.TicketStatus(columnID)
		return FieldChange{Status: &status}, nil
	case KanbanByPriority:
		if !specHasColumn(priorityColumns, columnID) {
			return FieldChange{}, invalidColumn(dim, columnID)
		}
		priority := domain.TicketPriority(columnID)
		return FieldChange{Priority: &priority}, nil
	case KanbanByType:
		if !registryHasType(registry, columnID) {
			return FieldChange{}, invalidColumn(dim, columnID)
		}
		ticketType := domain.TicketType(columnID)
		return FieldChange{Type: &ticketType}, nil
	case KanbanByCategory:
		representative, ok := categoryRepresentatives[domain.TicketCategory(columnID)]
		if !ok {
			return FieldChange{}, invalidColumn(dim, columnID)
		}
		change := FieldChange{Type: &representative}
		if domain.TicketCategory(columnID) == domain.CategoryBilling {
			change.AddTags = []string{domain.BillingTag}
		} else {
			change.RemoveTags = []string{domain.BillingTag}
		}
		return change, nil
	default:
		return FieldChange{}, apperrors.NewValidationError(fmt.Sprintf("unknown kanban dimension %q", dim), nil)
	}
}

// ApplyTo mutates the ticket in place per the change.
func (c FieldChange) ApplyTo(t *domain.Ticket) {
	if c.Status != nil {
		t.Status = *c.Status
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.Type != nil {
		t.Type = *c.Type
	}
	for _, tag := range c.AddTags {
		if !hasTag(t.Tags, tag) {
			t.Tags = append(t.Tags, tag)
		}
	}
	for _, tag := range c.RemoveTags {
		t.Tags = removeTag(t.Tags, tag)
	}
}

func specHasColumn(specs []columnSpec, id string) bool {
	for _, spec := range specs {
		if spec.id == id {
			return true
		}
	}
	return false
}

func registryHasType(registry []domain.TicketTypeEntry, id string) bool {
	for _, entry := range registry {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func invalidColumn(dim KanbanDimension, columnID string) error {
	return apperrors.NewValidationError(fmt.Sprintf("column %q does not exist on the %s board", columnID, dim), nil)
}

func hasTag(tags []string, tag string) bool {
	for _, candidate := range tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

func removeTag(tags []string, tag string) []string {
	result := make([]string, 0, len(tags))
	for _, candidate := range tags {
		if candidate != tag {
			result = append(result, candidate)
		}
	}
	return result
}
