package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

func testRegistry() []domain.TicketTypeEntry {
	return []domain.TicketTypeEntry{
		{ID: "incident", Label: "Incident", ColorToken: "red"},
		{ID: "request", Label: "Request", ColorToken: "blue"},
		{ID: "problem", Label: "Problem", ColorToken: "orange"},
		{ID: "change", Label: "Change", ColorToken: "purple"},
		{ID: "general_query", Label: "General Query", ColorToken: "gray"},
	}
}

func TestProjectPriorityBoardHasFixedColumns(t *testing.T) {
	board, err := Project(fixtureTickets(), KanbanByPriority, nil)
	require.NoError(t, err)

	labels := make([]string, 0, len(board.Columns))
	for _, column := range board.Columns {
		labels = append(labels, column.ID)
	}
	assert.Equal(t, []string{"urgent", "high", "medium", "low"}, labels)
}

func TestProjectPriorityBoardOmitsCritical(t *testing.T) {
	board, err := Project(fixtureTickets(), KanbanByPriority, nil)
	require.NoError(t, err)

	for _, column := range board.Columns {
		assert.NotContains(t, ids(column.Tickets), "t06", "critical ticket has no lane on the priority board")
	}
}

func TestProjectStatusBoardMembership(t *testing.T) {
	board, err := Project(fixtureTickets(), KanbanByStatus, nil)
	require.NoError(t, err)

	byID := map[string][]string{}
	for _, column := range board.Columns {
		byID[column.ID] = ids(column.Tickets)
	}
	assert.Equal(t, []string{"t01", "t08", "t10"}, byID["new"])
	assert.Equal(t, []string{"t02", "t06"}, byID["in_progress"])
	assert.Equal(t, []string{"t07", "t09"}, byID["done"])
}

func TestProjectTypeBoardUsesRegistry(t *testing.T) {
	registry := []domain.TicketTypeEntry{
		{ID: "incident", Label: "Incident", ColorToken: "red"},
		{ID: "change", Label: "Change", ColorToken: "purple"},
	}
	board, err := Project(fixtureTickets(), KanbanByType, registry)
	require.NoError(t, err)

	require.Len(t, board.Columns, 2)
	assert.Equal(t, "Incident", board.Columns[0].Label)
	assert.Equal(t, "red", board.Columns[0].ColorToken)
	assert.Equal(t, []string{"t01", "t06", "t10"}, ids(board.Columns[0].Tickets))
	assert.Equal(t, []string{"t04", "t09"}, ids(board.Columns[1].Tickets))
}

func TestProjectRejectsUnknownDimension(t *testing.T) {
	_, err := Project(nil, KanbanDimension("bogus"), nil)
	assert.Error(t, err)
}

func TestCategoryMapping(t *testing.T) {
	cases := []struct {
		ticket domain.Ticket
		want   domain.TicketCategory
	}{
		{domain.Ticket{Type: domain.TicketTypeIncident}, domain.CategoryTechnical},
		{domain.Ticket{Type: domain.TicketTypeProblem}, domain.CategoryTechnical},
		{domain.Ticket{Type: domain.TicketTypeRequest}, domain.CategoryGeneral},
		{domain.Ticket{Type: domain.TicketTypeRequest, Tags: []string{domain.BillingTag}}, domain.CategoryBilling},
		{domain.Ticket{Type: domain.TicketTypeChange}, domain.CategoryFeature},
		{domain.Ticket{Type: domain.TicketTypeGeneralQuery}, domain.CategoryGeneral},
	}
	for _, tc := range cases {
		display := Normalize(tc.ticket)
		assert.Equal(t, tc.want, CategoryOf(&display))
	}
}

func TestProjectCategoryBoard(t *testing.T) {
	raw := []domain.Ticket{
		{DBID: "a", Type: domain.TicketTypeIncident},
		{DBID: "b", Type: domain.TicketTypeRequest, Tags: []string{domain.BillingTag}},
		{DBID: "c", Type: domain.TicketTypeChange},
		{DBID: "d", Type: domain.TicketTypeGeneralQuery},
	}
	board, err := Project(NormalizeAll(raw), KanbanByCategory, nil)
	require.NoError(t, err)

	byID := map[string][]string{}
	for _, column := range board.Columns {
		byID[column.ID] = ids(column.Tickets)
	}
	assert.Equal(t, []string{"a"}, byID["technical"])
	assert.Equal(t, []string{"b"}, byID["billing"])
	assert.Equal(t, []string{"c"}, byID["feature"])
	assert.Equal(t, []string{"d"}, byID["general"])
}

func TestReassignmentMutatesExactlyOneDimension(t *testing.T) {
	ticket := domain.Ticket{
		DBID:     "t-1",
		Type:     domain.TicketTypeIncident,
		Priority: domain.TicketPriorityLow,
		Status:   domain.TicketStatusNew,
	}

	change, err := ReassignmentFor(KanbanByStatus, "done", nil)
	require.NoError(t, err)
	change.ApplyTo(&ticket)
	assert.Equal(t, domain.TicketStatusDone, ticket.Status)
	assert.Equal(t, domain.TicketPriorityLow, ticket.Priority)
	assert.Equal(t, domain.TicketTypeIncident, ticket.Type)

	change, err = ReassignmentFor(KanbanByPriority, "urgent", nil)
	require.NoError(t, err)
	change.ApplyTo(&ticket)
	assert.Equal(t, domain.TicketPriorityUrgent, ticket.Priority)
	assert.Equal(t, domain.TicketStatusDone, ticket.Status)

	change, err = ReassignmentFor(KanbanByType, "change", testRegistry())
	require.NoError(t, err)
	change.ApplyTo(&ticket)
	assert.Equal(t, domain.TicketTypeChange, ticket.Type)
}

func TestCategoryReassignmentUsesInverseMapping(t *testing.T) {
	ticket := domain.Ticket{DBID: "t-1", Type: domain.TicketTypeChange}

	change, err := ReassignmentFor(KanbanByCategory, "billing", nil)
	require.NoError(t, err)
	change.ApplyTo(&ticket)
	assert.Equal(t, domain.TicketTypeRequest, ticket.Type)
	assert.Contains(t, ticket.Tags, domain.BillingTag)

	// Moving out of billing drops the tag so the forward mapping agrees.
	change, err = ReassignmentFor(KanbanByCategory, "technical", nil)
	require.NoError(t, err)
	change.ApplyTo(&ticket)
	assert.Equal(t, domain.TicketTypeIncident, ticket.Type)
	assert.NotContains(t, ticket.Tags, domain.BillingTag)
}

func TestReassignmentRejectsUnknownColumn(t *testing.T) {
	_, err := ReassignmentFor(KanbanByStatus, "archived", nil)
	assert.Error(t, err)

	_, err = ReassignmentFor(KanbanByPriority, "critical", nil)
	assert.Error(t, err, "critical is not a lane on the priority board")

	_, err = ReassignmentFor(KanbanByType, "outage", testRegistry())
	assert.Error(t, err)

	_, err = ReassignmentFor(KanbanByCategory, "misc", nil)
	assert.Error(t, err)
}
