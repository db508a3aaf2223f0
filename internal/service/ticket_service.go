package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/events"
	"github.com/bsm-kit/ticketview-service/internal/repository"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// TicketService coordinates the ticket store operations.
type TicketService struct {
	tickets    repository.TicketRepository
	people     repository.PersonRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	PersonRepo repository.PersonRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		people:     deps.PersonRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Type        domain.TicketType
	Priority    domain.TicketPriority
	Status      domain.TicketStatus
	RequesterID string
	AssigneeIDs []string
	Title       string
	Description string
	Tags        []string
	DueDate     *time.Time
}

// TicketUpdateInput describes a partial update; nil fields are untouched.
type TicketUpdateInput struct {
	Type         *domain.TicketType
	Priority     *domain.TicketPriority
	Status       *domain.TicketStatus
	RequesterID  *string
	AssigneeIDs  *[]string
	Title        *string
	Description  *string
	Tags         *[]string
	DueDate      *time.Time
	ClearDueDate bool
}

// TicketListInput describes server-side listing filters.
type TicketListInput struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	Types        []domain.TicketType
	RequesterIDs []string
	AssigneeIDs  []string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// BulkDeleteFailure records one failed unit of a bulk delete.
type BulkDeleteFailure struct {
	TicketID string
	Reason   string
}

// BulkDeleteResult aggregates per-item outcomes of a bulk delete.
type BulkDeleteResult struct {
	Deleted  int
	Failures []BulkDeleteFailure
}

// CreateTicket validates and persists a new ticket, assigning its id and
// immutable display key.
func (s *TicketService) CreateTicket(ctx context.Context, orgID, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if orgID == "" {
		return nil, apperrors.NewValidationError("organization scope required", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.RequesterID == "" {
		return nil, apperrors.NewValidationError("requester_id required", nil)
	}
	if err := s.verifyPeople(ctx, orgID, input.RequesterID, input.AssigneeIDs); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		DBID:        uuid.NewString(),
		DisplayID:   generateDisplayKey(),
		OrgID:       orgID,
		Type:        input.Type,
		Priority:    input.Priority,
		Status:      input.Status,
		RequesterID: input.RequesterID,
		AssigneeIDs: input.AssigneeIDs,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Tags:        input.Tags,
		DueDate:     input.DueDate,
	}
	if ticket.Type == "" {
		ticket.Type = domain.TicketTypeGeneralQuery
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusNew
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, orgID, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		OrgID:    orgID,
		TicketID: ticket.DBID,
		ActorID:  actorID,
		Payload: events.TicketCreatedPayload{
			DisplayID: ticket.DisplayID,
			Type:      ticket.Type,
			Priority:  ticket.Priority,
			Title:     ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches one ticket with its relations resolved.
func (s *TicketService) GetTicket(ctx context.Context, orgID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, orgID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	if err := s.hydrate(ctx, orgID, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateTicket applies a partial update to an existing ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, orgID, actorID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, orgID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	changed := make([]string, 0, 8)
	if input.Type != nil {
		ticket.Type = *input.Type
		changed = append(changed, "type")
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
		changed = append(changed, "priority")
	}
	if input.Status != nil {
		ticket.Status = *input.Status
		changed = append(changed, "status")
	}
	if input.RequesterID != nil {
		ticket.RequesterID = *input.RequesterID
		changed = append(changed, "requester_id")
	}
	if input.AssigneeIDs != nil {
		ticket.AssigneeIDs = *input.AssigneeIDs
		changed = append(changed, "assignee_ids")
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = strings.TrimSpace(*input.Title)
		changed = append(changed, "title")
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
		changed = append(changed, "description")
	}
	if input.Tags != nil {
		ticket.Tags = *input.Tags
		changed = append(changed, "tags")
	}
	if input.ClearDueDate {
		ticket.DueDate = nil
		changed = append(changed, "due_date")
	} else if input.DueDate != nil {
		ticket.DueDate = input.DueDate
		changed = append(changed, "due_date")
	}
	if len(changed) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	if err := s.verifyPeople(ctx, orgID, ticket.RequesterID, ticket.AssigneeIDs); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	if err := s.hydrate(ctx, orgID, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		OrgID:    orgID,
		TicketID: ticket.DBID,
		ActorID:  actorID,
		Payload:  events.TicketUpdatedPayload{ChangedFields: changed},
	})
	return ticket, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, orgID, actorID, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, orgID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return err
	}
	if err := s.tickets.Delete(ctx, orgID, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		OrgID:    orgID,
		TicketID: ticketID,
		ActorID:  actorID,
		Payload:  events.TicketDeletedPayload{DisplayID: ticket.DisplayID},
	})
	return nil
}

// BulkDelete attempts each deletion independently; one failure never aborts
// the remainder.
func (s *TicketService) BulkDelete(ctx context.Context, orgID, actorID string, ticketIDs []string) BulkDeleteResult {
	result := BulkDeleteResult{}
	for _, id := range ticketIDs {
		if err := s.DeleteTicket(ctx, orgID, actorID, id); err != nil {
			result.Failures = append(result.Failures, BulkDeleteFailure{TicketID: id, Reason: err.Error()})
			continue
		}
		result.Deleted++
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketBulkDeleted,
		OrgID:   orgID,
		ActorID: actorID,
		Payload: events.TicketBulkDeletedPayload{Deleted: result.Deleted, Failed: len(result.Failures)},
	})
	return result
}

// ListTickets returns a filtered page of tickets with relations resolved,
// plus the total count matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, orgID string, input TicketListInput) ([]domain.Ticket, int, error) {
	filter := repository.TicketFilter{
		OrgID:        orgID,
		Statuses:     input.Statuses,
		Priorities:   input.Priorities,
		Types:        input.Types,
		RequesterIDs: input.RequesterIDs,
		AssigneeIDs:  input.AssigneeIDs,
		SearchTerm:   input.SearchTerm,
		CreatedFrom:  input.CreatedFrom,
		CreatedTo:    input.CreatedTo,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.hydrateAll(ctx, orgID, tickets); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// PersistTicket writes the ticket's current field values to the store. Used
// by the view layer for column-reassignment persistence.
func (s *TicketService) PersistTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticket.DBID})
		}
		return err
	}
	return nil
}

func (s *TicketService) verifyPeople(ctx context.Context, orgID, requesterID string, assigneeIDs []string) error {
	if _, err := s.people.GetByID(ctx, orgID, requesterID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(fmt.Sprintf("requester %s does not exist", requesterID), nil)
		}
		return err
	}
	if len(assigneeIDs) == 0 {
		return nil
	}
	found, err := s.people.ListByIDs(ctx, orgID, assigneeIDs)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, person := range found {
		known[person.ID] = struct{}{}
	}
	for _, id := range assigneeIDs {
		if _, ok := known[id]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("assignee %s does not exist", id), nil)
		}
	}
	return nil
}

func (s *TicketService) hydrate(ctx context.Context, orgID string, ticket *domain.Ticket) error {
	tickets := []domain.Ticket{*ticket}
	if err := s.hydrateAll(ctx, orgID, tickets); err != nil {
		return err
	}
	*ticket = tickets[0]
	return nil
}

// hydrateAll resolves requester and assignee relations for a page of tickets
// with a single people lookup.
func (s *TicketService) hydrateAll(ctx context.Context, orgID string, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	idSet := make(map[string]struct{})
	for i := range tickets {
		idSet[tickets[i].RequesterID] = struct{}{}
		for _, id := range tickets[i].AssigneeIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	people, err := s.people.ListByIDs(ctx, orgID, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Person, len(people))
	for _, person := range people {
		byID[person.ID] = person
	}
	for i := range tickets {
		if requester, ok := byID[tickets[i].RequesterID]; ok {
			r := requester
			tickets[i].Requester = &r
		} else {
			tickets[i].Requester = nil
		}
		tickets[i].Assignees = tickets[i].Assignees[:0]
		for _, id := range tickets[i].AssigneeIDs {
			if person, ok := byID[id]; ok {
				tickets[i].Assignees = append(tickets[i].Assignees, person)
			}
		}
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// generateDisplayKey builds the human-facing ticket key, e.g.
// "#TK-1759421483412-AZZU". The suffix disambiguates keys minted in the
// same millisecond.
func generateDisplayKey() string {
	raw := uuid.New()
	letters := make([]byte, 4)
	for i := range letters {
		letters[i] = 'A' + raw[i]%26
	}
	return fmt.Sprintf("#TK-%d-%s", time.Now().UnixMilli(), letters)
}
