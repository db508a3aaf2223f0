package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// TicketFilter captures server-side listing parameters. OrgID scopes every
// query; the remaining criteria are optional.
type TicketFilter struct {
	OrgID        string
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

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, orgID, id string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, display_id, org_id, type, priority, status, requester_id, assignee_ids,
               title, description, tags, due_date, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, display_id, org_id, type, priority, status, requester_id, assignee_ids, title, description, tags, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.DBID,
		ticket.DisplayID,
		ticket.OrgID,
		ticket.Type,
		ticket.Priority,
		ticket.Status,
		ticket.RequesterID,
		ticket.AssigneeIDs,
		ticket.Title,
		ticket.Description,
		ticket.Tags,
		ticket.DueDate,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET type=$1, priority=$2, status=$3, requester_id=$4, assignee_ids=$5,
            title=$6, description=$7, tags=$8, due_date=$9, updated_at=NOW()
        WHERE org_id=$10 AND id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Type,
		ticket.Priority,
		ticket.Status,
		ticket.RequesterID,
		ticket.AssigneeIDs,
		ticket.Title,
		ticket.Description,
		ticket.Tags,
		ticket.DueDate,
		ticket.OrgID,
		ticket.DBID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE org_id=$1 AND id=$2`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&ticket.DBID,
		&ticket.DisplayID,
		&ticket.OrgID,
		&ticket.Type,
		&ticket.Priority,
		&ticket.Status,
		&ticket.RequesterID,
		&ticket.AssigneeIDs,
		&ticket.Title,
		&ticket.Description,
		&ticket.Tags,
		&ticket.DueDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, orgID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE org_id=$1 AND id=$2`, orgID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"org_id=$1"}
	args := []any{filter.OrgID}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(filter.Priorities) > 0 {
		args = append(args, filter.Priorities)
		clauses = append(clauses, fmt.Sprintf("priority = ANY($%d)", len(args)))
	}
	if len(filter.Types) > 0 {
		args = append(args, filter.Types)
		clauses = append(clauses, fmt.Sprintf("type = ANY($%d)", len(args)))
	}
	if len(filter.RequesterIDs) > 0 {
		args = append(args, filter.RequesterIDs)
		clauses = append(clauses, fmt.Sprintf("requester_id = ANY($%d)", len(args)))
	}
	if len(filter.AssigneeIDs) > 0 {
		args = append(args, filter.AssigneeIDs)
		clauses = append(clauses, fmt.Sprintf("assignee_ids && $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(display_id) LIKE %s)", placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.DBID,
			&ticket.DisplayID,
			&ticket.OrgID,
			&ticket.Type,
			&ticket.Priority,
			&ticket.Status,
			&ticket.RequesterID,
			&ticket.AssigneeIDs,
			&ticket.Title,
			&ticket.Description,
			&ticket.Tags,
			&ticket.DueDate,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
