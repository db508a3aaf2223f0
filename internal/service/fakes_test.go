package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository for service tests.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket

	listErr   error
	updateErr error
}

func newFakeTicketRepo(tickets ...domain.Ticket) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: tickets}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.tickets {
		if r.tickets[i].OrgID == ticket.OrgID && r.tickets[i].DBID == ticket.DBID {
			r.tickets[i] = *ticket
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByID(_ context.Context, orgID, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].OrgID == orgID && r.tickets[i].DBID == id {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) Delete(_ context.Context, orgID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].OrgID == orgID && r.tickets[i].DBID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var result []domain.Ticket
	for i := range r.tickets {
		if r.tickets[i].OrgID == filter.OrgID {
			result = append(result, r.tickets[i])
		}
	}
	return result, len(result), nil
}

// fakePersonRepo serves a fixed set of people.
type fakePersonRepo struct {
	people map[string]domain.Person
}

func newFakePersonRepo(people ...domain.Person) *fakePersonRepo {
	repo := &fakePersonRepo{people: make(map[string]domain.Person, len(people))}
	for _, person := range people {
		repo.people[person.ID] = person
	}
	return repo
}

func (r *fakePersonRepo) GetByID(_ context.Context, _, id string) (*domain.Person, error) {
	person, ok := r.people[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &person, nil
}

func (r *fakePersonRepo) ListByIDs(_ context.Context, _ string, ids []string) ([]domain.Person, error) {
	var result []domain.Person
	for _, id := range ids {
		if person, ok := r.people[id]; ok {
			result = append(result, person)
		}
	}
	return result, nil
}

// fakeTypeRepo serves a fixed registry.
type fakeTypeRepo struct {
	entries []domain.TicketTypeEntry
}

func (r *fakeTypeRepo) List(_ context.Context, _ string) ([]domain.TicketTypeEntry, error) {
	return r.entries, nil
}
