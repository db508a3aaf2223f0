package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

func fixtureTickets() []DisplayTicket {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	people := map[string]domain.Person{
		"u1": {ID: "u1", FirstName: "Grace", LastName: "Hopper"},
		"u2": {ID: "u2", FirstName: "Alan", LastName: "Turing"},
		"u3": {ID: "u3", DisplayName: "Radia Perlman"},
	}
	raw := []domain.Ticket{
		{DBID: "t01", DisplayID: "#TK-1-AAAA", Title: "VPN outage", Type: domain.TicketTypeIncident, Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusNew, RequesterID: "u1"},
		{DBID: "t02", DisplayID: "#TK-2-BBBB", Title: "New laptop", Type: domain.TicketTypeRequest, Priority: domain.TicketPriorityLow, Status: domain.TicketStatusInProgress, RequesterID: "u2", AssigneeIDs: []string{"u1"}},
		{DBID: "t03", DisplayID: "#TK-3-CCCC", Title: "Recurring crash", Type: domain.TicketTypeProblem, Priority: domain.TicketPriorityUrgent, Status: domain.TicketStatusWaitingOnYou, RequesterID: "u3", AssigneeIDs: []string{"u2"}},
		{DBID: "t04", DisplayID: "#TK-4-DDDD", Title: "DB migration", Type: domain.TicketTypeChange, Priority: domain.TicketPriorityMedium, Status: domain.TicketStatusOnHold, RequesterID: "u1", AssigneeIDs: []string{"u2", "u3"}},
		{DBID: "t05", DisplayID: "#TK-5-EEEE", Title: "Invoice question", Description: "billing cycle", Type: domain.TicketTypeGeneralQuery, Priority: domain.TicketPriorityLow, Status: domain.TicketStatusWaitingOnCustomer, RequesterID: "u2"},
		{DBID: "t06", DisplayID: "#TK-6-FFFF", Title: "Email bounce", Type: domain.TicketTypeIncident, Priority: domain.TicketPriorityCritical, Status: domain.TicketStatusInProgress, RequesterID: "u3", AssigneeIDs: []string{"u3"}},
		{DBID: "t07", DisplayID: "#TK-7-GGGG", Title: "Access badge", Type: domain.TicketTypeRequest, Priority: domain.TicketPriorityMedium, Status: domain.TicketStatusDone, RequesterID: "u1", AssigneeIDs: []string{"u1"}},
		{DBID: "t08", DisplayID: "#TK-8-HHHH", Title: "Slow intranet", Type: domain.TicketTypeProblem, Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusNew, RequesterID: "u2", AssigneeIDs: []string{"u3"}},
		{DBID: "t09", DisplayID: "#TK-9-IIII", Title: "Rename team", Type: domain.TicketTypeChange, Priority: domain.TicketPriorityLow, Status: domain.TicketStatusDone, RequesterID: "u3"},
		{DBID: "t10", DisplayID: "#TK-10-JJJJ", Title: "Broken monitor", Type: domain.TicketTypeIncident, Priority: domain.TicketPriorityUrgent, Status: domain.TicketStatusNew, RequesterID: "u1", AssigneeIDs: []string{"u2"}},
	}
	for i := range raw {
		raw[i].CreatedAt = base.AddDate(0, 0, i)
		requester := people[raw[i].RequesterID]
		raw[i].Requester = &requester
		for _, id := range raw[i].AssigneeIDs {
			raw[i].Assignees = append(raw[i].Assignees, people[id])
		}
	}
	return NormalizeAll(raw)
}

func ids(tickets []DisplayTicket) []string {
	result := make([]string, 0, len(tickets))
	for _, t := range tickets {
		result = append(result, t.DBID)
	}
	return result
}

func TestApplyWithoutCriteriaReturnsEverything(t *testing.T) {
	tickets := fixtureTickets()
	assert.Equal(t, ids(tickets), ids(Apply(tickets, FacetFilter{})))
}

func TestApplyIsConjunctive(t *testing.T) {
	tickets := fixtureTickets()
	filter := FacetFilter{
		Statuses:   []domain.TicketStatus{domain.TicketStatusNew},
		Priorities: []domain.TicketPriority{domain.TicketPriorityHigh, domain.TicketPriorityUrgent},
	}
	assert.Equal(t, []string{"t01", "t08", "t10"}, ids(Apply(tickets, filter)))
}

func TestApplyPreservesOrderAndSubset(t *testing.T) {
	tickets := fixtureTickets()
	filtered := Apply(tickets, FacetFilter{Types: []domain.TicketType{domain.TicketTypeIncident, domain.TicketTypeChange}})

	position := map[string]int{}
	for i, ticket := range tickets {
		position[ticket.DBID] = i
	}
	last := -1
	for _, ticket := range filtered {
		pos, ok := position[ticket.DBID]
		require.True(t, ok, "filtered ticket must come from the input")
		assert.Greater(t, pos, last, "relative order must be preserved")
		last = pos
	}
}

func TestApplyCanYieldZeroMatches(t *testing.T) {
	tickets := fixtureTickets()
	filter := FacetFilter{
		Types:      []domain.TicketType{domain.TicketTypeGeneralQuery},
		Priorities: []domain.TicketPriority{domain.TicketPriorityCritical},
	}
	assert.Empty(t, Apply(tickets, filter))
}

func TestApplySearchFields(t *testing.T) {
	tickets := fixtureTickets()

	// Title, description, display id, requester name, primary assignee name.
	assert.Equal(t, []string{"t01"}, ids(Apply(tickets, FacetFilter{Search: "vpn"})))
	assert.Equal(t, []string{"t05"}, ids(Apply(tickets, FacetFilter{Search: "billing cycle"})))
	assert.Equal(t, []string{"t09"}, ids(Apply(tickets, FacetFilter{Search: "#tk-9"})))
	assert.Contains(t, ids(Apply(tickets, FacetFilter{Search: "radia"})), "t03")
	assert.Contains(t, ids(Apply(tickets, FacetFilter{Search: "grace"})), "t02")
}

func TestEmptyAssigneeNeverMatchesAssigneeFilter(t *testing.T) {
	tickets := fixtureTickets()
	filtered := Apply(tickets, FacetFilter{AssigneeIDs: []string{"u1", "u2", "u3"}})
	for _, ticket := range filtered {
		assert.NotEmpty(t, ticket.AssigneeIDs)
	}
	assert.NotContains(t, ids(filtered), "t01")
	assert.NotContains(t, ids(filtered), "t05")
	assert.NotContains(t, ids(filtered), "t09")

	// With no assignee filter the unassigned tickets come back.
	assert.Contains(t, ids(Apply(tickets, FacetFilter{})), "t01")
}

func TestMultiSelectTakesPrecedenceOverLegacy(t *testing.T) {
	tickets := fixtureTickets()
	filter := FacetFilter{
		Priority:   string(domain.TicketPriorityLow),
		Priorities: []domain.TicketPriority{domain.TicketPriorityUrgent},
	}
	assert.Equal(t, []string{"t03", "t10"}, ids(Apply(tickets, filter)))
}

func TestLegacySingleSelectWithAllSentinel(t *testing.T) {
	tickets := fixtureTickets()
	assert.Len(t, Apply(tickets, FacetFilter{Type: FacetAll, Priority: FacetAll, Status: FacetAll}), len(tickets))
	assert.Equal(t, []string{"t02", "t07"}, ids(Apply(tickets, FacetFilter{Type: string(domain.TicketTypeRequest)})))
}

func TestCreatedRangeIsInclusive(t *testing.T) {
	tickets := fixtureTickets()
	from := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"t03", "t04", "t05"}, ids(Apply(tickets, FacetFilter{CreatedFrom: &from, CreatedTo: &to})))
	assert.Equal(t, []string{"t01", "t02", "t03", "t04", "t05"}, ids(Apply(tickets, FacetFilter{CreatedTo: &to})))
	assert.Equal(t, []string{"t03", "t04", "t05", "t06", "t07", "t08", "t09", "t10"}, ids(Apply(tickets, FacetFilter{CreatedFrom: &from})))
}

func TestRequesterFilter(t *testing.T) {
	tickets := fixtureTickets()
	filtered := Apply(tickets, FacetFilter{RequesterIDs: []string{"u3"}})
	assert.Equal(t, []string{"t03", "t06", "t09"}, ids(filtered))
}

func TestFacetFilterIsZero(t *testing.T) {
	assert.True(t, FacetFilter{}.IsZero())
	assert.True(t, FacetFilter{Type: FacetAll}.IsZero())
	assert.False(t, FacetFilter{Search: "x"}.IsZero())
	assert.False(t, FacetFilter{AssigneeIDs: []string{"u1"}}.IsZero())
}
