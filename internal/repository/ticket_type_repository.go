package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// TicketTypeRepository reads the configured ticket type registry.
type TicketTypeRepository interface {
	List(ctx context.Context, orgID string) ([]domain.TicketTypeEntry, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) List(ctx context.Context, orgID string) ([]domain.TicketTypeEntry, error) {
	const query = `SELECT id, label, color_token FROM ticket_types WHERE org_id=$1 ORDER BY sort_order, id`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketTypeEntry
	for rows.Next() {
		var entry domain.TicketTypeEntry
		if err := rows.Scan(&entry.ID, &entry.Label, &entry.ColorToken); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
