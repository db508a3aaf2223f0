package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/events"
	"github.com/bsm-kit/ticketview-service/internal/view"
	apperrors "github.com/bsm-kit/ticketview-service/pkg/util/errorutil"
)

// collectionLimit bounds how many tickets a view collection holds. The
// derivation pipeline is designed for in-memory collections of a few
// thousand records.
const collectionLimit = 5000

// ViewService owns the per-organization in-memory ticket collections the
// derivation pipeline runs against, and applies kanban column reassignments
// optimistically against them.
type ViewService struct {
	mu          sync.Mutex
	collections map[string]*orgCollection

	tickets    *TicketService
	registry   *RegistryService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

type orgCollection struct {
	tickets   []domain.Ticket
	fetchedAt time.Time
	stale     bool
}

// ViewMeta describes the collection backing a derived view.
type ViewMeta struct {
	Total     int
	Matched   int
	FetchedAt time.Time
	Stale     bool
}

// NewViewService constructs the service.
func NewViewService(tickets *TicketService, registry *RegistryService, dispatcher events.Dispatcher, logger *zap.Logger) *ViewService {
	return &ViewService{
		collections: make(map[string]*orgCollection),
		tickets:     tickets,
		registry:    registry,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Refresh replaces the organization's collection with the latest store
// contents. On fetch failure the prior collection is retained, marked stale,
// and the error is returned for the caller to surface.
func (s *ViewService) Refresh(ctx context.Context, orgID string) (ViewMeta, error) {
	fetched, _, err := s.tickets.ListTickets(ctx, orgID, TicketListInput{Limit: collectionLimit})
	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[orgID]
	if err != nil {
		if ok {
			collection.stale = true
			return s.metaLocked(collection, len(collection.tickets)), apperrors.NewUnavailable("ticket fetch failed; showing last known data", err)
		}
		return ViewMeta{}, apperrors.NewUnavailable("ticket fetch failed", err)
	}
	collection = &orgCollection{tickets: fetched, fetchedAt: time.Now()}
	s.collections[orgID] = collection
	return s.metaLocked(collection, len(fetched)), nil
}

// ListView derives the filtered, grouped list view.
func (s *ViewService) ListView(ctx context.Context, orgID string, filter view.FacetFilter, groupBy view.GroupKey) ([]view.Group, ViewMeta, error) {
	display, meta, err := s.deriveFiltered(ctx, orgID, filter)
	if err != nil {
		return nil, ViewMeta{}, err
	}
	return view.GroupTickets(display, groupBy), meta, nil
}

// KanbanView derives the filtered board projection.
func (s *ViewService) KanbanView(ctx context.Context, orgID string, filter view.FacetFilter, dim view.KanbanDimension) (view.Board, ViewMeta, error) {
	registry, err := s.registryFor(ctx, orgID, dim)
	if err != nil {
		return view.Board{}, ViewMeta{}, err
	}
	display, meta, err := s.deriveFiltered(ctx, orgID, filter)
	if err != nil {
		return view.Board{}, ViewMeta{}, err
	}
	board, err := view.Project(display, dim, registry)
	if err != nil {
		return view.Board{}, ViewMeta{}, err
	}
	return board, meta, nil
}

// MoveTicket reassigns a ticket to another column: the matching field change
// is applied to the in-memory collection immediately, then persisted; a
// persistence failure rolls the collection back so the ticket reappears in
// its original column.
func (s *ViewService) MoveTicket(ctx context.Context, orgID, actorID, ticketID string, dim view.KanbanDimension, targetColumn string) (*domain.Ticket, error) {
	registry, err := s.registryFor(ctx, orgID, dim)
	if err != nil {
		return nil, err
	}
	change, err := view.ReassignmentFor(dim, targetColumn, registry)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	collection, ok := s.collections[orgID]
	if !ok {
		return nil, apperrors.NewConflict("no ticket collection loaded; refresh the view first", nil)
	}
	index := -1
	for i := range collection.tickets {
		if collection.tickets[i].DBID == ticketID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	fromColumn := view.ColumnIDForTicket(&collection.tickets[index], dim)
	snapshot := cloneTicket(collection.tickets[index])

	err = view.ApplyOptimistic(ctx,
		func() {
			change.ApplyTo(&collection.tickets[index])
		},
		func(ctx context.Context) error {
			updated := cloneTicket(collection.tickets[index])
			return s.tickets.PersistTicket(ctx, &updated)
		},
		func() {
			collection.tickets[index] = snapshot
		},
	)
	if err != nil {
		s.logger.Warn("kanban move rolled back",
			zap.String("ticket_id", ticketID),
			zap.String("dimension", string(dim)),
			zap.String("target_column", targetColumn),
			zap.Error(err),
		)
		return nil, err
	}

	moved := cloneTicket(collection.tickets[index])
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMoved,
		OrgID:    orgID,
		TicketID: ticketID,
		ActorID:  actorID,
		Payload: events.TicketMovedPayload{
			Dimension:  string(dim),
			FromColumn: fromColumn,
			ToColumn:   targetColumn,
		},
	})
	return &moved, nil
}

// deriveFiltered runs normalize + filter against the organization's
// collection, loading it on first use.
func (s *ViewService) deriveFiltered(ctx context.Context, orgID string, filter view.FacetFilter) ([]view.DisplayTicket, ViewMeta, error) {
	s.mu.Lock()
	collection, ok := s.collections[orgID]
	s.mu.Unlock()
	if !ok {
		if _, err := s.Refresh(ctx, orgID); err != nil {
			return nil, ViewMeta{}, err
		}
		s.mu.Lock()
		collection = s.collections[orgID]
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	display := view.NormalizeAll(collection.tickets)
	filtered := view.Apply(display, filter)
	return filtered, s.metaLocked(collection, len(filtered)), nil
}

func (s *ViewService) registryFor(ctx context.Context, orgID string, dim view.KanbanDimension) ([]domain.TicketTypeEntry, error) {
	if dim != view.KanbanByType {
		return nil, nil
	}
	return s.registry.List(ctx, orgID)
}

func (s *ViewService) metaLocked(collection *orgCollection, matched int) ViewMeta {
	return ViewMeta{
		Total:     len(collection.tickets),
		Matched:   matched,
		FetchedAt: collection.fetchedAt,
		Stale:     collection.stale,
	}
}

func (s *ViewService) publishEvent(ctx context.Context, event events.Event) {
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

// cloneTicket copies a ticket including its slice fields so a snapshot is
// unaffected by later mutation.
func cloneTicket(t domain.Ticket) domain.Ticket {
	clone := t
	clone.AssigneeIDs = append([]string(nil), t.AssigneeIDs...)
	clone.Tags = append([]string(nil), t.Tags...)
	clone.Assignees = append([]domain.Person(nil), t.Assignees...)
	return clone
}
