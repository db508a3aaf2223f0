package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bsm-kit/ticketview-service/internal/domain"
	"github.com/bsm-kit/ticketview-service/internal/persistence"
	"github.com/bsm-kit/ticketview-service/internal/repository"
)

const registryCachePrefix = "ticket_types:"

// RegistryService serves the ticket type registry with a Redis cache in
// front of Postgres. Cache failures fall through to the database.
type RegistryService struct {
	types  repository.TicketTypeRepository
	cache  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewRegistryService constructs the service.
func NewRegistryService(types repository.TicketTypeRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *RegistryService {
	return &RegistryService{types: types, cache: cache, ttl: ttl, logger: logger}
}

type cachedTypeEntry struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	ColorToken string `json:"color_token"`
}

// List returns the organization's configured ticket types.
func (s *RegistryService) List(ctx context.Context, orgID string) ([]domain.TicketTypeEntry, error) {
	if entries, ok := s.fromCache(ctx, orgID); ok {
		return entries, nil
	}

	entries, err := s.types.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, orgID, entries)
	return entries, nil
}

func (s *RegistryService) fromCache(ctx context.Context, orgID string) ([]domain.TicketTypeEntry, bool) {
	if s.cache == nil || s.cache.Client == nil {
		return nil, false
	}
	raw, err := s.cache.Client.Get(ctx, registryCachePrefix+orgID).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []cachedTypeEntry
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.logger.Debug("ticket type cache entry unreadable", zap.Error(err))
		return nil, false
	}
	entries := make([]domain.TicketTypeEntry, 0, len(cached))
	for _, entry := range cached {
		entries = append(entries, domain.TicketTypeEntry{ID: entry.ID, Label: entry.Label, ColorToken: entry.ColorToken})
	}
	return entries, true
}

func (s *RegistryService) toCache(ctx context.Context, orgID string, entries []domain.TicketTypeEntry) {
	if s.cache == nil || s.cache.Client == nil || s.ttl <= 0 {
		return
	}
	cached := make([]cachedTypeEntry, 0, len(entries))
	for _, entry := range entries {
		cached = append(cached, cachedTypeEntry{ID: entry.ID, Label: entry.Label, ColorToken: entry.ColorToken})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, registryCachePrefix+orgID, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("ticket type cache write failed", zap.Error(err))
	}
}
