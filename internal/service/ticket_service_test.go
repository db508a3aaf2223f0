package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

var displayKeyPattern = regexp.MustCompile(`^#TK-\d+-[A-Z]{4}$`)

func newTicketServiceForTest(repo *fakeTicketRepo, people *fakePersonRepo) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		PersonRepo: people,
	})
}

func testPeople() *fakePersonRepo {
	return newFakePersonRepo(
		domain.Person{ID: "u1", FirstName: "Ada", LastName: "Lovelace"},
		domain.Person{ID: "u2", FirstName: "Grace", LastName: "Hopper"},
	)
}

func TestCreateTicketAppliesDefaults(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newTicketServiceForTest(repo, testPeople())

	ticket, err := svc.CreateTicket(context.Background(), "org-1", "u2", TicketCreateInput{
		Title:       "  Printer on fire  ",
		RequesterID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketTypeGeneralQuery, ticket.Type)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, "Printer on fire", ticket.Title)
	assert.NotEmpty(t, ticket.DBID)
	assert.Regexp(t, displayKeyPattern, ticket.DisplayID)
	require.NotNil(t, ticket.Requester)
	assert.Equal(t, "u1", ticket.Requester.ID)
}

func TestCreateTicketValidation(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), testPeople())
	ctx := context.Background()

	cases := []struct {
		name  string
		input TicketCreateInput
	}{
		{"missing title", TicketCreateInput{RequesterID: "u1"}},
		{"blank title", TicketCreateInput{Title: "   ", RequesterID: "u1"}},
		{"missing requester", TicketCreateInput{Title: "help"}},
		{"unknown requester", TicketCreateInput{Title: "help", RequesterID: "ghost"}},
		{"unknown assignee", TicketCreateInput{Title: "help", RequesterID: "u1", AssigneeIDs: []string{"ghost"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTicket(ctx, "org-1", "u2", tc.input)
			require.Error(t, err)
			var domainErr *apperrors.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
}

func TestUpdateTicketPartial(t *testing.T) {
	repo := newFakeTicketRepo(domain.Ticket{
		DBID: "t1", OrgID: "org-1", Title: "VPN down",
		RequesterID: "u1",
		Type:        domain.TicketTypeIncident,
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusNew,
	})
	svc := newTicketServiceForTest(repo, testPeople())

	status := domain.TicketStatusInProgress
	ticket, err := svc.UpdateTicket(context.Background(), "org-1", "u2", "t1", TicketUpdateInput{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, "VPN down", ticket.Title)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
}

func TestUpdateTicketNotFound(t *testing.T) {
	svc := newTicketServiceForTest(newFakeTicketRepo(), testPeople())

	status := domain.TicketStatusDone
	_, err := svc.UpdateTicket(context.Background(), "org-1", "u2", "missing", TicketUpdateInput{Status: &status})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestUpdateTicketNoFields(t *testing.T) {
	repo := newFakeTicketRepo(domain.Ticket{DBID: "t1", OrgID: "org-1", Title: "x", RequesterID: "u1"})
	svc := newTicketServiceForTest(repo, testPeople())

	_, err := svc.UpdateTicket(context.Background(), "org-1", "u2", "t1", TicketUpdateInput{})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestBulkDeletePartialFailure(t *testing.T) {
	repo := newFakeTicketRepo(
		domain.Ticket{DBID: "t1", OrgID: "org-1", Title: "a", RequesterID: "u1"},
		domain.Ticket{DBID: "t2", OrgID: "org-1", Title: "b", RequesterID: "u1"},
	)
	svc := newTicketServiceForTest(repo, testPeople())

	result := svc.BulkDelete(context.Background(), "org-1", "u2", []string{"t1", "missing", "t2"})

	assert.Equal(t, 2, result.Deleted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "missing", result.Failures[0].TicketID)
	assert.Contains(t, result.Failures[0].Reason, "not found")

	_, err := svc.GetTicket(context.Background(), "org-1", "t1")
	require.Error(t, err)
	_, err = svc.GetTicket(context.Background(), "org-1", "t2")
	require.Error(t, err)
}

func TestDeleteTicketTwice(t *testing.T) {
	repo := newFakeTicketRepo(domain.Ticket{DBID: "t1", OrgID: "org-1", Title: "a", RequesterID: "u1"})
	svc := newTicketServiceForTest(repo, testPeople())
	ctx := context.Background()

	require.NoError(t, svc.DeleteTicket(ctx, "org-1", "u2", "t1"))

	err := svc.DeleteTicket(ctx, "org-1", "u2", "t1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListTicketsHydratesPeople(t *testing.T) {
	repo := newFakeTicketRepo(
		domain.Ticket{DBID: "t1", OrgID: "org-1", Title: "a", RequesterID: "u1", AssigneeIDs: []string{"u2"}},
		domain.Ticket{DBID: "t2", OrgID: "org-1", Title: "b", RequesterID: "u2"},
		domain.Ticket{DBID: "t3", OrgID: "org-2", Title: "other org", RequesterID: "u1"},
	)
	svc := newTicketServiceForTest(repo, testPeople())

	tickets, total, err := svc.ListTickets(context.Background(), "org-1", TicketListInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, tickets, 2)
	require.NotNil(t, tickets[0].Requester)
	assert.Equal(t, "u1", tickets[0].Requester.ID)
	require.Len(t, tickets[0].Assignees, 1)
	assert.Equal(t, "u2", tickets[0].Assignees[0].ID)
}
