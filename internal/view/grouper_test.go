package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

func TestGroupByNoneYieldsSingleGroup(t *testing.T) {
	tickets := fixtureTickets()
	groups := GroupTickets(tickets, GroupByNone)

	require.Len(t, groups, 1)
	assert.Equal(t, AllTicketsLabel, groups[0].Label)
	assert.Equal(t, ids(tickets), ids(groups[0].Tickets))
}

func TestGroupingIsComplete(t *testing.T) {
	tickets := fixtureTickets()
	keys := []GroupKey{GroupByNone, GroupByStatus, GroupByPriority, GroupByType, GroupByDueDate, GroupByReportedBy, GroupByAssignee}

	for _, key := range keys {
		groups := GroupTickets(tickets, key)
		seen := map[string]int{}
		total := 0
		for _, group := range groups {
			total += len(group.Tickets)
			for _, ticket := range group.Tickets {
				seen[ticket.DBID]++
			}
		}
		assert.Equal(t, len(tickets), total, "key %s dropped or duplicated tickets", key)
		for id, count := range seen {
			assert.Equal(t, 1, count, "ticket %s appears %d times under %s", id, count, key)
		}
	}
}

func TestGroupOrderIsFirstEncounter(t *testing.T) {
	tickets := fixtureTickets()
	groups := GroupTickets(tickets, GroupByStatus)

	labels := make([]string, 0, len(groups))
	for _, group := range groups {
		labels = append(labels, group.Label)
	}
	assert.Equal(t, []string{"new", "in_progress", "waiting_on_you", "on_hold", "waiting_on_customer", "done"}, labels)
}

func TestGroupWithinGroupOrderPreserved(t *testing.T) {
	tickets := fixtureTickets()
	groups := GroupTickets(tickets, GroupByStatus)

	for _, group := range groups {
		if group.Label == "new" {
			assert.Equal(t, []string{"t01", "t08", "t10"}, ids(group.Tickets))
		}
	}
}

func TestGroupFallbackBuckets(t *testing.T) {
	raw := []domain.Ticket{
		{DBID: "a", RequesterID: "u1", Requester: &domain.Person{ID: "u1", DisplayName: "Mona"}},
		{DBID: "b", RequesterID: "u2"},
	}
	tickets := NormalizeAll(raw)

	byPriority := GroupTickets(tickets, GroupByPriority)
	require.Len(t, byPriority, 1)
	assert.Equal(t, UnknownLabel, byPriority[0].Label)
	assert.Len(t, byPriority[0].Tickets, 2)

	byDue := GroupTickets(tickets, GroupByDueDate)
	require.Len(t, byDue, 1)
	assert.Equal(t, NoDueDateLabel, byDue[0].Label)

	byReporter := GroupTickets(tickets, GroupByReportedBy)
	require.Len(t, byReporter, 2)
	assert.Equal(t, "Mona", byReporter[0].Label)
	assert.Equal(t, UnknownLabel, byReporter[1].Label)
}

func TestAssigneeGroupingScenario(t *testing.T) {
	u1 := domain.Person{ID: "u1", DisplayName: "Grace Hopper"}
	raw := []domain.Ticket{
		{DBID: "T1", Priority: domain.TicketPriorityHigh, Status: domain.TicketStatusNew, RequesterID: "r1"},
		{DBID: "T2", Priority: domain.TicketPriorityLow, Status: domain.TicketStatusInProgress, RequesterID: "r1", AssigneeIDs: []string{"u1"}, Assignees: []domain.Person{u1}},
	}
	tickets := NormalizeAll(raw)

	filtered := Apply(tickets, FacetFilter{Priorities: []domain.TicketPriority{domain.TicketPriorityHigh}})
	assert.Equal(t, []string{"T1"}, ids(filtered))

	groups := GroupTickets(tickets, GroupByAssignee)
	require.Len(t, groups, 2)
	assert.Equal(t, UnassignedLabel, groups[0].Label)
	assert.Equal(t, []string{"T1"}, ids(groups[0].Tickets))
	assert.Equal(t, "Grace Hopper", groups[1].Label)
	assert.Equal(t, []string{"T2"}, ids(groups[1].Tickets))
}
